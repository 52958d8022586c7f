package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/steering"
)

// Weighted holds the individual weighted forces that went into a blended
// steering velocity. It only feeds debug drawing.
type Weighted struct {
	Pursuit    r3.Vec
	Alignment  r3.Vec
	Cohesion   r3.Vec
	Separation r3.Vec
}

// PursuitTarget returns the formation point for slot: the configured distance
// behind the leader along its facing, scaled by the queue curve.
func PursuitTarget(leader components.LeaderState, slot int, s *config.FlockSettings) r3.Vec {
	behind := s.PursuitDistanceBehind * s.Curve().Sample(slot)
	return r3.Sub(leader.Position, r3.Scale(behind, leader.Forward))
}

// Blend combines the boid's own velocity with the weighted pursuit and
// neighbor forces into a steering velocity of magnitude MaxSpeed.
//
// When the combined vector points against the leader's facing it is reduced
// by the braking factor before normalizing. A boid without a positive max
// speed gets zero steering.
func Blend(self components.Boid, slot int, leader components.LeaderState, f Forces, s *config.FlockSettings) (r3.Vec, Weighted) {
	target := PursuitTarget(leader, slot, s)
	pursuit := steering.Pursuit(self, target, leader.Velocity, s.PursuitSlowdownRadius)

	w := Weighted{
		Pursuit:    r3.Scale(s.PursuitWeight, pursuit),
		Alignment:  r3.Scale(s.AlignmentWeight, f.Alignment),
		Cohesion:   r3.Scale(s.CohesionWeight, f.Cohesion),
		Separation: r3.Scale(s.SeparationWeight, f.Separation),
	}

	sum := self.Velocity
	sum = r3.Add(sum, w.Pursuit)
	sum = r3.Add(sum, w.Cohesion)
	sum = r3.Add(sum, w.Alignment)
	sum = r3.Add(sum, w.Separation)

	if r3.Dot(steering.SafeUnit(sum), leader.Forward) < 0 {
		sum = r3.Add(sum, r3.Scale(-s.NonForwardBrakingFactor, sum))
	}

	if self.MaxSpeed <= 0 {
		return r3.Vec{}, w
	}
	return r3.Scale(self.MaxSpeed, steering.SafeUnit(sum)), w
}
