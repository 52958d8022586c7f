package flock

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/systems"
)

// Debug draw colors and boid marker geometry.
var (
	ColorPursuit    = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	ColorAlignment  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	ColorCohesion   = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	ColorSeparation = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	ColorBoidSphere = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

const (
	BoidSphereRadius   = 125.0
	BoidSphereSegments = 32
)

func (f *Flock) drawDebug(b components.Boid, w systems.Weighted) {
	line := func(offset r3.Vec, c color.RGBA) {
		f.drawer.DrawLine(b.Position, r3.Add(b.Position, offset), c)
	}

	if f.debug.DrawPursuitForce {
		line(w.Pursuit, ColorPursuit)
	}
	if f.debug.DrawAlignmentForce {
		line(w.Alignment, ColorAlignment)
	}
	if f.debug.DrawCohesionForce {
		line(w.Cohesion, ColorCohesion)
	}
	if f.debug.DrawSeparationForce {
		line(w.Separation, ColorSeparation)
	}
	if f.debug.DrawBoidSphere {
		f.drawer.DrawSphere(b.Position, BoidSphereRadius, BoidSphereSegments, ColorBoidSphere)
	}
}

// DebugLine is a buffered line request.
type DebugLine struct {
	Start, End r3.Vec
	Color      color.RGBA
}

// DebugSphere is a buffered sphere request.
type DebugSphere struct {
	Center   r3.Vec
	Radius   float64
	Segments int
	Color    color.RGBA
}

// DebugBuffer collects debug geometry during a tick so a renderer can draw
// it later in the frame. It is not safe for concurrent use.
type DebugBuffer struct {
	Lines   []DebugLine
	Spheres []DebugSphere
}

// DrawLine implements DebugDrawer.
func (b *DebugBuffer) DrawLine(start, end r3.Vec, c color.RGBA) {
	b.Lines = append(b.Lines, DebugLine{Start: start, End: end, Color: c})
}

// DrawSphere implements DebugDrawer.
func (b *DebugBuffer) DrawSphere(center r3.Vec, radius float64, segments int, c color.RGBA) {
	b.Spheres = append(b.Spheres, DebugSphere{Center: center, Radius: radius, Segments: segments, Color: c})
}

// Replay sends the buffered geometry to d and clears the buffer.
func (b *DebugBuffer) Replay(d DebugDrawer) {
	for _, l := range b.Lines {
		d.DrawLine(l.Start, l.End, l.Color)
	}
	for _, s := range b.Spheres {
		d.DrawSphere(s.Center, s.Radius, s.Segments, s.Color)
	}
	b.Reset()
}

// Reset drops the buffered geometry, keeping capacity.
func (b *DebugBuffer) Reset() {
	b.Lines = b.Lines[:0]
	b.Spheres = b.Spheres[:0]
}
