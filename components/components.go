// Package components defines the plain data records shared by the flock
// engine and the host world.
package components

import (
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Boid is the per-tick snapshot of one registered agent.
// Its index in the tick's boid slice is the agent's formation slot.
type Boid struct {
	Position r3.Vec
	Velocity r3.Vec
	MaxSpeed float64

	// SteeringVelocity is the output written by the steering blender.
	SteeringVelocity r3.Vec
}

// LeaderState is the per-tick snapshot of the flock owner.
type LeaderState struct {
	Position r3.Vec
	Velocity r3.Vec
	Forward  r3.Vec
}

// Transform holds a host entity's placement in the world.
type Transform struct {
	Position r3.Vec
	Forward  r3.Vec
}

// Motion holds a host entity's kinematic state.
type Motion struct {
	Velocity r3.Vec
	MaxSpeed float64
	MaxAccel float64 // Units per second squared (0 = velocity changes instantly)

	// Requested is the last direct-move request, applied on the next world step.
	Requested  r3.Vec
	HasRequest bool
}

// Flight marks whether a host entity can move freely in three dimensions.
type Flight struct {
	Airborne bool
}

// Identity is the persistent identifier of a host entity.
// It is independent of the formation slot, which changes with swaps.
type Identity struct {
	ID uuid.UUID
}

// LeaderPath describes the closed path the flock owner flies.
type LeaderPath struct {
	Center   r3.Vec
	Radius   float64
	Speed    float64 // Units per second along the path
	Angle    float64 // Current angle on the circle in radians
	Altitude float64
}

// Sample returns the placement and motion at the path's current angle.
// The path runs counter-clockwise seen from above.
func (p LeaderPath) Sample() (Transform, Motion) {
	sin, cos := math.Sincos(p.Angle)
	pos := r3.Add(p.Center, r3.Vec{X: p.Radius * cos, Y: p.Radius * sin, Z: p.Altitude})
	fwd := r3.Vec{X: -sin, Y: cos}
	return Transform{Position: pos, Forward: fwd}, Motion{Velocity: r3.Scale(p.Speed, fwd), MaxSpeed: p.Speed}
}

// LeaderTag marks the flock owner entity.
type LeaderTag struct{}
