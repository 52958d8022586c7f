// Package renderer draws the flock scene with raylib.
//
// The simulation is z-up; raylib is y-up. ToRL maps between them.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/camera"
)

// ToRL converts a z-up world vector to raylib's y-up space.
func ToRL(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Z), Z: float32(-v.Y)}
}

// FromColor converts a standard color to a raylib color.
func FromColor(c color.RGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Scene colors.
var (
	LeaderColor   = rl.Color{R: 255, G: 200, B: 60, A: 255}
	BoidColor     = rl.Color{R: 200, G: 220, B: 240, A: 255}
	GroundedColor = rl.Color{R: 220, G: 90, B: 70, A: 255}
	TargetColor   = rl.Color{R: 120, G: 120, B: 140, A: 160}
	PathColor     = rl.Color{R: 80, G: 90, B: 110, A: 255}
)

// Scene sizes in world units.
const (
	leaderSize   = 160.0
	boidSize     = 90.0
	gridSlices   = 40
	gridSpacing  = 500.0
	pathSegments = 96
)

// Scene wraps a raylib 3D camera driven by an orbit camera.
type Scene struct {
	cam rl.Camera3D
}

// NewScene creates a scene renderer.
func NewScene() *Scene {
	return &Scene{
		cam: rl.Camera3D{
			Up:         rl.Vector3{Y: 1},
			Fovy:       45,
			Projection: rl.CameraPerspective,
		},
	}
}

// Begin starts 3D mode from the orbit camera's point of view.
func (s *Scene) Begin(c *camera.Camera) {
	s.cam.Position = ToRL(c.Eye())
	s.cam.Target = ToRL(c.Target)
	s.cam.Fovy = float32(c.FovY)
	rl.BeginMode3D(s.cam)
}

// End leaves 3D mode.
func (s *Scene) End() {
	rl.EndMode3D()
}

// DrawGround draws a reference grid on the z = 0 plane centered under p.
func (s *Scene) DrawGround(p r3.Vec) {
	snap := func(v float64) float64 {
		return float64(int(v/gridSpacing)) * gridSpacing
	}
	rl.PushMatrix()
	rl.Translatef(float32(snap(p.X)), 0, float32(-snap(p.Y)))
	rl.Scalef(gridSpacing, 1, gridSpacing)
	rl.DrawGrid(gridSlices, 1)
	rl.PopMatrix()
}

// DrawPath draws the leader's circular path.
func (s *Scene) DrawPath(center r3.Vec, radius, altitude float64) {
	if radius <= 0 {
		return
	}
	rl.DrawCircle3D(
		ToRL(r3.Vec{X: center.X, Y: center.Y, Z: center.Z + altitude}),
		float32(radius),
		rl.Vector3{X: 1},
		90,
		PathColor,
	)
}

// DrawLeader draws the flock owner as a cone pointing along forward.
func (s *Scene) DrawLeader(pos, forward r3.Vec) {
	drawArrow(pos, forward, leaderSize, LeaderColor)
}

// DrawBoid draws one boid pointing along forward.
func (s *Scene) DrawBoid(pos, forward r3.Vec, canFly bool) {
	c := BoidColor
	if !canFly {
		c = GroundedColor
	}
	drawArrow(pos, forward, boidSize, c)
}

// DrawTarget marks a formation point.
func (s *Scene) DrawTarget(p r3.Vec) {
	rl.DrawCubeWires(ToRL(p), 30, 30, 30, TargetColor)
}

func drawArrow(pos, forward r3.Vec, size float64, c rl.Color) {
	tip := r3.Add(pos, r3.Scale(size, forward))
	rl.DrawCylinderEx(ToRL(pos), ToRL(tip), float32(size*0.35), 0, 8, c)
}
