package world

import (
	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/components"
)

// Boid is a handle to one boid entity. It satisfies flock.Locomotion and
// flock.FreeFlyer. A removed boid reads as zero and ignores move requests.
type Boid struct {
	w      *World
	entity ecs.Entity
	id     uuid.UUID
}

// ID returns the boid's persistent identity.
func (b *Boid) ID() uuid.UUID { return b.id }

// Alive reports whether the boid's entity still exists.
func (b *Boid) Alive() bool { return b.w.world.Alive(b.entity) }

func (b *Boid) Position() r3.Vec {
	if !b.Alive() {
		return r3.Vec{}
	}
	return b.w.transformMap.Get(b.entity).Position
}

func (b *Boid) Velocity() r3.Vec {
	if !b.Alive() {
		return r3.Vec{}
	}
	return b.w.motionMap.Get(b.entity).Velocity
}

func (b *Boid) MaxSpeed() float64 {
	if !b.Alive() {
		return 0
	}
	return b.w.motionMap.Get(b.entity).MaxSpeed
}

// Forward returns the boid's facing, the direction of its last motion.
func (b *Boid) Forward() r3.Vec {
	if !b.Alive() {
		return r3.Vec{}
	}
	return b.w.transformMap.Get(b.entity).Forward
}

// RequestDirectMove stores velocity for the next world step.
func (b *Boid) RequestDirectMove(velocity r3.Vec) {
	if !b.Alive() {
		return
	}
	mo := b.w.motionMap.Get(b.entity)
	mo.Requested = velocity
	mo.HasRequest = true
}

func (b *Boid) CanFly() bool {
	if !b.Alive() {
		return false
	}
	return b.w.flightMap.Get(b.entity).Airborne
}

// Leader is a handle to the flock owner. It satisfies flock.Leader.
type Leader struct {
	w      *World
	entity ecs.Entity
}

func (l *Leader) Position() r3.Vec { return l.w.transformMap.Get(l.entity).Position }
func (l *Leader) Velocity() r3.Vec { return l.w.motionMap.Get(l.entity).Velocity }
func (l *Leader) Forward() r3.Vec  { return l.w.transformMap.Get(l.entity).Forward }

// Path returns the leader's path state.
func (l *Leader) Path() components.LeaderPath { return *l.w.pathMap.Get(l.entity) }
