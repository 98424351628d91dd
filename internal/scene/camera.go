package scene

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Default camera pose: orbit position looking at the origin.
const (
	defaultRadius = 8.0
	defaultTheta  = math.Pi / 4 // azimuth around the beam axis
	defaultPhi    = math.Pi / 3 // polar angle from the beam axis

	minRadius = 2.0
	maxRadius = 40.0

	// orbitDamping decays angular velocity each frame for inertia.
	orbitDamping = 0.90

	// restEpsilon is the angular velocity below which motion stops.
	restEpsilon = 1e-4
)

// Camera orbits the origin on a sphere. Interaction adds angular velocity
// which decays frame by frame, giving damped inertia; Reset animates back
// to the default pose on a spring.
type Camera struct {
	Radius float64
	Theta  float64 // azimuth
	Phi    float64 // polar, clamped away from the poles
	Aspect float64

	panX, panY float64

	velTheta, velPhi float64

	resetting bool
	spring    harmonica.Spring

	// spring velocities during a reset animation
	resetVelRadius, resetVelTheta, resetVelPhi float64
}

// NewCamera returns a camera at the default pose.
func NewCamera() Camera {
	// frequency, damping chosen for a quick settle without bounce
	return Camera{
		Radius: defaultRadius,
		Theta:  defaultTheta,
		Phi:    defaultPhi,
		Aspect: 16.0 / 9.0,
		spring: harmonica.NewSpring(harmonica.FPS(30), 6.0, 0.9),
	}
}

// Orbit adds angular velocity from a drag or key press.
func (c *Camera) Orbit(dTheta, dPhi float64) {
	c.resetting = false
	c.velTheta += dTheta
	c.velPhi += dPhi
}

// Zoom moves the camera along its view ray. Positive delta zooms out.
func (c *Camera) Zoom(delta float64) {
	c.resetting = false
	c.Radius = clamp(c.Radius+delta, minRadius, maxRadius)
}

// Pan offsets the look-at target in screen space.
func (c *Camera) Pan(dx, dy float64) {
	c.resetting = false
	c.panX += dx
	c.panY += dy
}

// Reset starts an animated return to the default pose.
func (c *Camera) Reset() {
	c.resetting = true
	c.velTheta = 0
	c.velPhi = 0
	c.resetVelRadius = 0
	c.resetVelTheta = 0
	c.resetVelPhi = 0
	c.panX = 0
	c.panY = 0
}

// SetAspect updates the aspect ratio, normally width/height of the surface.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// Step advances the camera one display frame: applies inertia or the reset
// spring. Call once per frame tick.
func (c *Camera) Step() {
	if c.resetting {
		c.Radius, c.resetVelRadius = c.spring.Update(c.Radius, c.resetVelRadius, defaultRadius)
		c.Theta, c.resetVelTheta = c.spring.Update(c.Theta, c.resetVelTheta, defaultTheta)
		c.Phi, c.resetVelPhi = c.spring.Update(c.Phi, c.resetVelPhi, defaultPhi)

		if math.Abs(c.Radius-defaultRadius) < 1e-3 &&
			math.Abs(c.Theta-defaultTheta) < 1e-3 &&
			math.Abs(c.Phi-defaultPhi) < 1e-3 {
			c.Radius = defaultRadius
			c.Theta = defaultTheta
			c.Phi = defaultPhi
			c.resetting = false
		}
		return
	}

	c.Theta += c.velTheta
	c.Phi = clamp(c.Phi+c.velPhi, 0.05, math.Pi-0.05)

	c.velTheta *= orbitDamping
	c.velPhi *= orbitDamping
	if math.Abs(c.velTheta) < restEpsilon {
		c.velTheta = 0
	}
	if math.Abs(c.velPhi) < restEpsilon {
		c.velPhi = 0
	}
}

// AtRest reports whether the camera has no pending motion.
func (c *Camera) AtRest() bool {
	return !c.resetting && c.velTheta == 0 && c.velPhi == 0
}

// Position returns the camera's world position. The beam axis is world Y.
func (c *Camera) Position() Vec3 {
	sinPhi := math.Sin(c.Phi)
	return Vec3{
		X: c.Radius * sinPhi * math.Cos(c.Theta),
		Y: c.Radius * math.Cos(c.Phi),
		Z: c.Radius * sinPhi * math.Sin(c.Theta),
	}
}

// Project maps a world point to normalized device coordinates in [-1, 1]
// with a simple look-at transform and perspective divide. The boolean is
// false for points behind the camera.
func (c *Camera) Project(p Vec3) (float64, float64, bool) {
	eye := c.Position()

	// Forward: from eye toward the origin.
	fwd := normalize(Vec3{-eye.X, -eye.Y, -eye.Z})
	up := Vec3{0, 1, 0}
	right := normalize(cross(fwd, up))
	trueUp := cross(right, fwd)

	rel := Vec3{p.X - eye.X, p.Y - eye.Y, p.Z - eye.Z}

	depth := dot(rel, fwd)
	if depth <= 0.1 {
		return 0, 0, false
	}

	// Perspective scale tuned for a terminal surface.
	const fovScale = 2.2
	x := dot(rel, right)/depth*fovScale + c.panX
	y := dot(rel, trueUp)/depth*fovScale*c.Aspect + c.panY
	return x, y, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dot(a, b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func cross(a, b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func normalize(v Vec3) Vec3 {
	n := math.Sqrt(dot(v, v))
	if n == 0 {
		return v
	}
	return Vec3{v.X / n, v.Y / n, v.Z / n}
}
