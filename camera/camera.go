// Package camera provides a 3D orbit camera that follows the flock.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the world up axis. The world is z-up.
var Up = r3.Vec{Z: 1}

// Camera orbits a target point at a given distance.
// Yaw is measured around the up axis from +x, pitch upward from the
// horizontal plane.
type Camera struct {
	// Target is the orbit center in world coordinates
	Target r3.Vec

	Yaw, Pitch float64 // radians
	Distance   float64

	// FovY is the vertical field of view in degrees
	FovY float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Constraints
	MinDistance, MaxDistance float64
	MinPitch, MaxPitch       float64

	// FollowRate is how quickly Follow closes the gap to its target, in 1/s.
	// 0 snaps immediately.
	FollowRate float64
}

// Near clip distance for projection.
const nearPlane = 1.0

// New creates a camera looking down at the origin from behind and above.
func New(viewportW, viewportH float64) *Camera {
	c := &Camera{
		FovY:        45,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: 200,
		MaxDistance: 40000,
		MinPitch:    -math.Pi/2 + 0.05,
		MaxPitch:    math.Pi/2 - 0.05,
		FollowRate:  4,
	}
	c.Reset()
	return c
}

// Reset returns the camera to its default orbit around the current target.
func (c *Camera) Reset() {
	c.Yaw = -math.Pi / 2
	c.Pitch = math.Pi / 6
	c.Distance = 6000
}

// Eye returns the camera position in world coordinates.
func (c *Camera) Eye() r3.Vec {
	sinP, cosP := math.Sincos(c.Pitch)
	sinY, cosY := math.Sincos(c.Yaw)
	offset := r3.Vec{X: cosP * cosY, Y: cosP * sinY, Z: sinP}
	return r3.Add(c.Target, r3.Scale(c.Distance, offset))
}

// Basis returns the camera's forward, right and up unit vectors.
func (c *Camera) Basis() (forward, right, up r3.Vec) {
	forward = r3.Unit(r3.Sub(c.Target, c.Eye()))
	right = r3.Unit(r3.Cross(forward, Up))
	up = r3.Cross(right, forward)
	return forward, right, up
}

// Orbit rotates the camera around the target. Pitch is clamped.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy divides the orbit distance by factor; factors above 1 move closer.
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Follow moves the target toward p, exponentially smoothed over dt seconds.
func (c *Camera) Follow(p r3.Vec, dt float64) {
	if c.FollowRate <= 0 || dt <= 0 {
		c.Target = p
		return
	}
	alpha := 1 - math.Exp(-c.FollowRate*dt)
	c.Target = r3.Add(c.Target, r3.Scale(alpha, r3.Sub(p, c.Target)))
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// WorldToScreen projects a world point to screen pixels, origin top-left.
// ok is false for points at or behind the near plane.
func (c *Camera) WorldToScreen(p r3.Vec) (sx, sy float64, ok bool) {
	forward, right, up := c.Basis()
	d := r3.Sub(p, c.Eye())

	z := r3.Dot(d, forward)
	if z <= nearPlane {
		return 0, 0, false
	}

	f := c.focal()
	sx = c.ViewportW/2 + r3.Dot(d, right)*f/z
	sy = c.ViewportH/2 - r3.Dot(d, up)*f/z
	return sx, sy, true
}

// IsVisible returns true if a sphere at p with the given radius could be
// on screen (conservative check for culling).
func (c *Camera) IsVisible(p r3.Vec, radius float64) bool {
	forward, _, _ := c.Basis()
	if r3.Dot(r3.Sub(p, c.Eye()), forward) < nearPlane-radius {
		return false
	}

	sx, sy, ok := c.WorldToScreen(p)
	if !ok {
		// Straddles the near plane.
		return true
	}

	dist := r3.Norm(r3.Sub(p, c.Eye()))
	margin := radius * c.focal() / math.Max(dist, nearPlane)
	return sx >= -margin && sx <= c.ViewportW+margin &&
		sy >= -margin && sy <= c.ViewportH+margin
}

// focal is the projection scale in pixels at unit depth.
func (c *Camera) focal() float64 {
	return (c.ViewportH / 2) / math.Tan(c.FovY*math.Pi/360)
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
