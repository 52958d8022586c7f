package flock

import (
	"time"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// Tick advances the settings transition by dt seconds, then computes and
// writes back a steering velocity for every registered agent.
//
// Each slot's steering is computed from the same snapshot, so the result
// does not depend on the order of write-back.
func (f *Flock) Tick(dt float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()

	f.startPhase(telemetry.PhaseTransition)
	wasTransitioning := f.transition.Transitioning()
	f.transition.Update(dt)
	if wasTransitioning && !f.transition.Transitioning() {
		f.logger.Debug("flock transition done", "name", f.name)
		f.record(telemetry.NewTransitionDoneEvent(f.ticks, f.name))
	}

	f.startPhase(telemetry.PhaseSnapshot)
	leader := f.leaderState()
	f.boids = f.boids[:0]
	for _, a := range f.agents {
		f.boids = append(f.boids, components.Boid{
			Position: a.Position(),
			Velocity: a.Velocity(),
			MaxSpeed: a.MaxSpeed(),
		})
	}

	f.startPhase(telemetry.PhaseInteraction)
	s := &f.transition.Active
	drawing := f.drawer != nil && f.debug.Any()
	for i := range f.boids {
		forces := systems.NeighborForces(f.boids, i, s)
		steer, weighted := systems.Blend(f.boids[i], i, leader, forces, s)
		f.boids[i].SteeringVelocity = steer
		if drawing {
			f.drawDebug(f.boids[i], weighted)
		}
	}

	f.startPhase(telemetry.PhaseWriteback)
	for i, a := range f.agents {
		a.RequestDirectMove(f.boids[i].SteeringVelocity)
	}

	f.ticks++
	f.metrics.ObserveTick(time.Since(start), len(f.agents), f.transition.Ratio())
}

func (f *Flock) startPhase(phase string) {
	if f.perf != nil {
		f.perf.StartPhase(phase)
	}
}
