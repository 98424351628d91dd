package scene

import (
	"math"
	"testing"

	"github.com/abelbrown/collidoscope/internal/api"
)

func testEvent(n int) *api.Event {
	p := &api.ParticleData{}
	for i := 0; i < n; i++ {
		p.PDGID = append(p.PDGID, 13)
		p.Px = append(p.Px, 10.0+float64(i))
		p.Py = append(p.Py, 5.0)
		p.Pz = append(p.Pz, 20.0)
		p.Energy = append(p.Energy, 30.0)
		p.Charge = append(p.Charge, -1)
		p.Mass = append(p.Mass, 0.106)
	}
	return &api.Event{
		EventID:      "ev-1",
		NumParticles: n,
		Particles:    p,
	}
}

func TestRenderEventEmitsOneTrackAndMarkerPerParticle(t *testing.T) {
	for _, n := range []int{0, 1, 5, 40} {
		s := New()
		s.RenderEvent(testEvent(n))

		if got := len(s.Tracks()); got != n {
			t.Errorf("n=%d: got %d tracks", n, got)
		}
		if got := len(s.Markers()); got != n {
			t.Errorf("n=%d: got %d markers", n, got)
		}
		for i, tr := range s.Tracks() {
			if len(tr.Points) != TrackSamples {
				t.Errorf("n=%d track %d: %d points, want %d", n, i, len(tr.Points), TrackSamples)
			}
		}
	}
}

func TestRenderEventReplacesPriorTracks(t *testing.T) {
	s := New()
	s.RenderEvent(testEvent(10))
	s.RenderEvent(testEvent(3))

	if got := len(s.Tracks()); got != 3 {
		t.Errorf("got %d tracks after replacement, want 3", got)
	}
	if got := len(s.Markers()); got != 3 {
		t.Errorf("got %d markers after replacement, want 3", got)
	}
}

func TestRenderEventWithoutParticlesClearsScene(t *testing.T) {
	s := New()
	s.RenderEvent(testEvent(4))

	// Absent particles array means nothing to draw, not an error.
	s.RenderEvent(&api.Event{EventID: "empty", NumParticles: 0})
	if len(s.Tracks()) != 0 || len(s.Markers()) != 0 {
		t.Errorf("scene not cleared: %d tracks, %d markers", len(s.Tracks()), len(s.Markers()))
	}

	s.RenderEvent(nil)
	if len(s.Tracks()) != 0 {
		t.Errorf("nil event should leave nothing to draw")
	}
}

func TestRenderEventMismatchedArrays(t *testing.T) {
	// Parallel arrays that disagree in length must render only the
	// complete particles, never panic.
	s := New()
	s.RenderEvent(&api.Event{
		EventID: "bad",
		Particles: &api.ParticleData{
			PDGID:  []int{11, 13, 22},
			Px:     []float64{1.0},
			Py:     []float64{2.0},
			Pz:     []float64{3.0},
			Energy: []float64{4.0},
			Charge: []float64{-1.0},
			Mass:   []float64{0.0005},
		},
	})

	if got := len(s.Tracks()); got != 1 {
		t.Errorf("got %d tracks, want 1", got)
	}
	if got := len(s.Markers()); got != 1 {
		t.Errorf("got %d markers, want 1", got)
	}
}

func TestRenderEventAfterDisposeIsNoOp(t *testing.T) {
	s := New()
	s.BuildDetector(nil)
	s.Dispose()

	// A late fetch response must not resurrect a torn-down scene.
	s.RenderEvent(testEvent(2))
	if len(s.Tracks()) != 0 {
		t.Errorf("disposed scene rendered %d tracks", len(s.Tracks()))
	}
	s.BuildDetector(nil)
	if len(s.Shells()) != 0 {
		t.Errorf("disposed scene rebuilt %d shells", len(s.Shells()))
	}
}

func TestTrackGeometry(t *testing.T) {
	px, py, pz := 30.0, 40.0, 20.0 // pt = 50
	pts := trackPoints(px, py, pz)

	if len(pts) != TrackSamples {
		t.Fatalf("got %d points, want %d", len(pts), TrackSamples)
	}

	// Starts at the origin.
	if pts[0] != (Vec3{}) {
		t.Errorf("track starts at %+v, want origin", pts[0])
	}

	// Endpoint radius: pt/ptScale = 2.5, under the cap.
	end := pts[TrackSamples-1]
	r := math.Hypot(end.X, end.Z)
	if math.Abs(r-2.5) > 1e-9 {
		t.Errorf("end radius = %v, want 2.5", r)
	}

	// The longitudinal coordinate sits on display Y (beam axis vertical).
	if math.Abs(end.Y-pz/10.0) > 1e-9 {
		t.Errorf("end Y = %v, want %v", end.Y, pz/10.0)
	}

	// Azimuth preserved in the XZ plane.
	phi := math.Atan2(40, 30)
	if math.Abs(math.Atan2(end.Z, end.X)-phi) > 1e-9 {
		t.Errorf("end azimuth = %v, want %v", math.Atan2(end.Z, end.X), phi)
	}
}

func TestTrackRadiusCapped(t *testing.T) {
	// pt = 500 would project to radius 25 without the cap.
	pts := trackPoints(300, 400, 0)
	end := pts[TrackSamples-1]
	r := math.Hypot(end.X, end.Z)
	if math.Abs(r-maxTrackRadius) > 1e-9 {
		t.Errorf("end radius = %v, want cap %v", r, maxTrackRadius)
	}
}

func TestBuildDetectorFromConfig(t *testing.T) {
	cfg := &api.DetectorConfig{
		Name: "test",
		Geometry: api.DetectorGeometry{
			Tracker: api.ShellGeometry{OuterRadius: 1.0, Length: 4.0},
			ECAL:    api.ShellGeometry{OuterRadius: 1.5, Length: 5.0},
			HCAL:    api.ShellGeometry{OuterRadius: 2.5, Length: 6.0},
		},
	}

	s := New()
	s.BuildDetector(cfg)

	shells := s.Shells()
	if len(shells) != 3 {
		t.Fatalf("got %d shells, want 3", len(shells))
	}
	want := []struct {
		name   string
		radius float64
		length float64
	}{
		{"tracker", 1.0, 4.0},
		{"ecal", 1.5, 5.0},
		{"hcal", 2.5, 6.0},
	}
	for i, w := range want {
		if shells[i].Name != w.name || shells[i].Radius != w.radius || shells[i].Length != w.length {
			t.Errorf("shell %d = %+v, want %+v", i, shells[i], w)
		}
		if !shells[i].Visible {
			t.Errorf("shell %s not visible by default", w.name)
		}
	}
}

func TestBuildDetectorDefaultGeometry(t *testing.T) {
	s := New()
	s.BuildDetector(nil)

	shells := s.Shells()
	if len(shells) != 3 {
		t.Fatalf("got %d shells, want 3", len(shells))
	}
	if shells[2].Radius != DefaultGeometry.HCAL.OuterRadius {
		t.Errorf("hcal radius = %v, want %v", shells[2].Radius, DefaultGeometry.HCAL.OuterRadius)
	}
}

func TestToggleDetectorTwiceRestoresVisibility(t *testing.T) {
	s := New()
	s.BuildDetector(nil)

	before := make([]bool, 3)
	for i, sh := range s.Shells() {
		before[i] = sh.Visible
	}

	s.ToggleDetector()
	for _, sh := range s.Shells() {
		if sh.Visible {
			t.Errorf("shell %s still visible after toggle off", sh.Name)
		}
	}

	s.ToggleDetector()
	for i, sh := range s.Shells() {
		if sh.Visible != before[i] {
			t.Errorf("shell %s visibility not restored", sh.Name)
		}
	}
}

func TestToggleDetectorPreservesMixedState(t *testing.T) {
	s := New()
	s.BuildDetector(nil)
	s.Shells()[1].Visible = false // hide just the ecal

	s.ToggleDetector()
	wantFlipped := []bool{false, true, false}
	for i, sh := range s.Shells() {
		if sh.Visible != wantFlipped[i] {
			t.Errorf("after toggle, shell %s visible = %v, want %v", sh.Name, sh.Visible, wantFlipped[i])
		}
	}

	s.ToggleDetector()
	wantOriginal := []bool{true, false, true}
	for i, sh := range s.Shells() {
		if sh.Visible != wantOriginal[i] {
			t.Errorf("after double toggle, shell %s visible = %v, want %v", sh.Name, sh.Visible, wantOriginal[i])
		}
	}
}

func TestResizeUpdatesAspect(t *testing.T) {
	s := New()
	s.Resize(160, 50)

	want := 160.0 / 50.0
	if got := s.Camera().Aspect; got != want {
		t.Errorf("aspect = %v, want %v", got, want)
	}

	// Zero height must not divide by zero.
	s.Resize(80, 0)
	if got := s.Camera().Aspect; got != want {
		t.Errorf("aspect changed on zero height: %v", got)
	}
}
