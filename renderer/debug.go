package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// DebugDrawer draws flock debug geometry directly with raylib. It must be
// used between Scene.Begin and Scene.End.
type DebugDrawer struct{}

// DrawLine implements flock.DebugDrawer.
func (DebugDrawer) DrawLine(start, end r3.Vec, c color.RGBA) {
	rl.DrawLine3D(ToRL(start), ToRL(end), FromColor(c))
}

// DrawSphere implements flock.DebugDrawer. Segments sets the longitude
// count; latitude rings use half as many.
func (DebugDrawer) DrawSphere(center r3.Vec, radius float64, segments int, c color.RGBA) {
	slices := int32(max(segments, 4))
	rl.DrawSphereWires(ToRL(center), float32(radius), slices/2, slices, FromColor(c))
}
