// Package scene builds the 3D event display: detector shells, particle
// tracks and an orbit camera, all as engine-agnostic primitives. Nothing
// here touches a terminal or a GPU; a projector consumes the primitives
// and rasterizes them onto whatever surface it owns.
package scene

import (
	"math"

	"github.com/abelbrown/collidoscope/internal/api"
	"github.com/abelbrown/collidoscope/internal/logging"
	"github.com/charmbracelet/lipgloss"
)

// Track projection constants. These reproduce the original display's
// simplified radial/longitudinal projection, not a helix in a magnetic
// field. Kept as-is for compatibility.
const (
	// TrackSamples is the number of points per track polyline.
	TrackSamples = 51

	// ptScale divides transverse momentum into world-unit radius.
	ptScale = 20.0

	// maxTrackRadius caps the radial extent of any track, in world units.
	maxTrackRadius = 3.0

	// zScale divides longitudinal momentum into world-unit length.
	zScale = 10.0

	// markerRadius is the size of the per-particle origin marker.
	markerRadius = 0.06
)

// Vec3 is a point in world space. The display convention puts the beam
// axis on Y so it renders as the vertical screen axis.
type Vec3 struct {
	X, Y, Z float64
}

// Polyline is one particle track: an ordered run of sample points sharing
// a species color.
type Polyline struct {
	Points  []Vec3
	Species Species
	Color   lipgloss.Color
}

// Marker is a small sphere at a track's origin.
type Marker struct {
	Pos    Vec3
	Radius float64
	Color  lipgloss.Color
}

// Shell is one detector subsystem envelope: an open-ended cylinder whose
// axis runs along the beam (display Y).
type Shell struct {
	Name    string
	Radius  float64 // outer radius, world units (meters)
	Length  float64
	Color   lipgloss.Color
	Visible bool
}

// Shell hues, semi-transparent in spirit: dim enough not to drown tracks.
var shellColors = map[string]lipgloss.Color{
	"tracker": lipgloss.Color("#58a6ff"), // blue
	"ecal":    lipgloss.Color("#d2a8ff"), // purple
	"hcal":    lipgloss.Color("#ffa657"), // orange
}

// DefaultGeometry matches the collision service's compiled-in detector.
var DefaultGeometry = api.DetectorGeometry{
	Tracker: api.ShellGeometry{InnerRadius: 0.04, OuterRadius: 1.2, Length: 5.0},
	ECAL:    api.ShellGeometry{InnerRadius: 1.3, OuterRadius: 1.8, Length: 6.0},
	HCAL:    api.ShellGeometry{InnerRadius: 1.9, OuterRadius: 3.0, Length: 7.0},
}

// Renderer is the engine-agnostic scene contract. The geometric and color
// logic lives behind it so projectors stay dumb.
type Renderer interface {
	BuildDetector(cfg *api.DetectorConfig)
	RenderEvent(ev *api.Event)
	SetDetectorVisible(visible bool)
	Resize(width, height int)
	Dispose()
}

// Scene holds the current draw primitives and the camera.
// Not goroutine-safe; it lives on the UI update loop.
type Scene struct {
	shells   []*Shell
	tracks   []Polyline
	markers  []Marker
	camera   Camera
	eventID  string
	disposed bool
}

var _ Renderer = (*Scene)(nil)

// New creates an empty scene with the default camera pose.
func New() *Scene {
	return &Scene{camera: NewCamera()}
}

// BuildDetector replaces the detector shells from the given config, or the
// compiled-in default when cfg is nil. Track primitives are untouched, so
// a rebuild never disturbs the current event.
func (s *Scene) BuildDetector(cfg *api.DetectorConfig) {
	if s.disposed {
		return
	}

	geo := DefaultGeometry
	if cfg != nil {
		geo = cfg.Geometry
	}

	s.shells = []*Shell{
		{Name: "tracker", Radius: geo.Tracker.OuterRadius, Length: geo.Tracker.Length, Color: shellColors["tracker"], Visible: true},
		{Name: "ecal", Radius: geo.ECAL.OuterRadius, Length: geo.ECAL.Length, Color: shellColors["ecal"], Visible: true},
		{Name: "hcal", Radius: geo.HCAL.OuterRadius, Length: geo.HCAL.Length, Color: shellColors["hcal"], Visible: true},
	}

	if cfg != nil {
		logging.Info("detector built", "config", cfg.Name, "field", cfg.MagneticField)
	}
}

// RenderEvent replaces all per-event primitives with tracks for the given
// event. A nil event or an event without particle arrays clears the scene:
// nothing to draw is not an error. Calls after Dispose are no-ops so a
// late fetch response cannot resurrect a torn-down scene.
func (s *Scene) RenderEvent(ev *api.Event) {
	if s.disposed {
		return
	}

	s.tracks = nil
	s.markers = nil
	s.eventID = ""

	if ev == nil || ev.Particles.Len() == 0 {
		return
	}

	p := ev.Particles
	n := p.Len()
	s.tracks = make([]Polyline, 0, n)
	s.markers = make([]Marker, 0, n)

	for i := 0; i < n; i++ {
		sp := SpeciesOf(p.PDGID[i])
		color := sp.Color()
		s.tracks = append(s.tracks, Polyline{
			Points:  trackPoints(p.Px[i], p.Py[i], p.Pz[i]),
			Species: sp,
			Color:   color,
		})
		s.markers = append(s.markers, Marker{
			Pos:    Vec3{},
			Radius: markerRadius,
			Color:  color,
		})
	}

	s.eventID = ev.EventID
	logging.Debug("event rendered", "event", ev.EventID, "tracks", n)
}

// trackPoints samples one particle's track. The parameterization:
//
//	r(t) = t * min(pt/ptScale, maxTrackRadius)
//	(x, y) = (r cos phi, r sin phi)   planar
//	z = t * pz / zScale               longitudinal
//
// with the planar y and longitudinal z swapped in the emitted coordinates
// so the beam axis is vertical on screen.
func trackPoints(px, py, pz float64) []Vec3 {
	pt := math.Sqrt(px*px + py*py)
	phi := math.Atan2(py, px)
	rMax := math.Min(pt/ptScale, maxTrackRadius)

	points := make([]Vec3, TrackSamples)
	for j := 0; j < TrackSamples; j++ {
		t := float64(j) / float64(TrackSamples-1)
		r := t * rMax
		points[j] = Vec3{
			X: r * math.Cos(phi),
			Y: t * pz / zScale,
			Z: r * math.Sin(phi),
		}
	}
	return points
}

// SetDetectorVisible flips all shells' visibility in one operation.
func (s *Scene) SetDetectorVisible(visible bool) {
	for _, sh := range s.shells {
		sh.Visible = visible
	}
}

// DetectorVisible reports whether any shell is currently visible.
func (s *Scene) DetectorVisible() bool {
	for _, sh := range s.shells {
		if sh.Visible {
			return true
		}
	}
	return false
}

// ToggleDetector flips each shell's visibility flag, so a mixed
// per-shell state round-trips through a double toggle.
func (s *Scene) ToggleDetector() {
	for _, sh := range s.shells {
		sh.Visible = !sh.Visible
	}
}

// Resize recomputes the camera aspect ratio for a new surface size.
func (s *Scene) Resize(width, height int) {
	if height <= 0 {
		return
	}
	s.camera.SetAspect(float64(width) / float64(height))
}

// Dispose releases all primitives. The scene stays disposed; subsequent
// RenderEvent and BuildDetector calls are ignored.
func (s *Scene) Dispose() {
	s.disposed = true
	s.shells = nil
	s.tracks = nil
	s.markers = nil
}

// Disposed reports whether Dispose has been called.
func (s *Scene) Disposed() bool { return s.disposed }

// Shells returns the detector shells. Callers must not retain the slice
// across a BuildDetector.
func (s *Scene) Shells() []*Shell { return s.shells }

// Tracks returns the current event's polylines.
func (s *Scene) Tracks() []Polyline { return s.tracks }

// Markers returns the current event's origin markers.
func (s *Scene) Markers() []Marker { return s.markers }

// Camera returns the scene camera for interaction and projection.
func (s *Scene) Camera() *Camera { return &s.camera }

// EventID returns the id of the currently rendered event, if any.
func (s *Scene) EventID() string { return s.eventID }
