// Package systems holds the per-slot flock computations: neighbor forces,
// force blending, settings transitions and formation swaps.
package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/steering"
)

// Forces holds the three neighbor-driven steering forces for one boid,
// before weighting.
type Forces struct {
	Alignment  r3.Vec
	Cohesion   r3.Vec
	Separation r3.Vec

	AlignmentCount  int
	CohesionCount   int
	SeparationCount int
}

// NeighborForces scans every other boid in the snapshot and returns the
// alignment, cohesion and separation forces for the boid at slot.
//
// Radius tests are strict, so a neighbor exactly at a radius is ignored.
// A behavior with no neighbor in range yields the zero vector.
func NeighborForces(boids []components.Boid, slot int, s *config.FlockSettings) Forces {
	var f Forces
	self := boids[slot]

	for j := range boids {
		if j == slot {
			continue
		}
		other := &boids[j]

		toOther := r3.Sub(other.Position, self.Position)
		d := r3.Norm(toOther)

		if d < s.AlignmentRadius {
			f.Alignment = r3.Add(f.Alignment, other.Velocity)
			f.AlignmentCount++
		}
		if d < s.CohesionRadius {
			f.Cohesion = r3.Add(f.Cohesion, other.Position)
			f.CohesionCount++
		}
		if d < s.SeparationRadius {
			f.Separation = r3.Add(f.Separation, r3.Scale(SeparationFalloff(d, s.SeparationRadius), toOther))
			f.SeparationCount++
		}
	}

	if f.AlignmentCount > 0 {
		f.Alignment = r3.Scale(1/float64(f.AlignmentCount), f.Alignment)
	}

	if f.CohesionCount > 0 {
		center := r3.Scale(1/float64(f.CohesionCount), f.Cohesion)
		f.Cohesion = r3.Scale(self.MaxSpeed, steering.SafeUnit(r3.Sub(center, self.Position)))
	}

	if f.SeparationCount > 0 {
		// Accumulated offsets point toward neighbors; steer the other way.
		avg := r3.Scale(-1/float64(f.SeparationCount), f.Separation)
		f.Separation = r3.Scale(self.MaxSpeed, steering.SafeUnit(avg))
	}

	return f
}

// SeparationFalloff weights a neighbor at distance d inside radius:
// 1 when touching, falling linearly to 0 at the radius.
func SeparationFalloff(d, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	return 1 - steering.Clamp01(d/radius)
}
