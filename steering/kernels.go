package steering

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/components"
)

// DefaultSlowdownDistance is the arrival radius used when a caller has no
// slowdown distance of its own.
const DefaultSlowdownDistance = 100.0

// Seek returns the velocity that moves self toward target at max speed.
// A positive slowdownDistance scales the result down linearly once self is
// closer than that distance.
func Seek(self components.Boid, target r3.Vec, slowdownDistance float64) r3.Vec {
	toTarget := r3.Sub(target, self.Position)
	desired := r3.Scale(self.MaxSpeed, SafeUnit(toTarget))

	if slowdownDistance > 0 {
		falloff := Clamp01(r3.Norm(toTarget) / slowdownDistance)
		desired = r3.Scale(falloff, desired)
	}

	return desired
}

// Flee returns the velocity that moves self directly away from a point at
// max speed.
func Flee(self components.Boid, from r3.Vec) r3.Vec {
	return r3.Scale(self.MaxSpeed, SafeUnit(r3.Sub(self.Position, from)))
}

// Pursuit seeks the point where a moving target is expected to be once self
// covers the current distance at max speed.
func Pursuit(self components.Boid, targetPos, targetVel r3.Vec, slowdownDistance float64) r3.Vec {
	return Seek(self, predict(self, targetPos, targetVel), slowdownDistance)
}

// Evade flees from the predicted position of a moving target.
func Evade(self components.Boid, targetPos, targetVel r3.Vec) r3.Vec {
	return Flee(self, predict(self, targetPos, targetVel))
}

// FollowLeader seeks a point distanceBehind units behind the leader along
// its heading, expressed relative to the leader's heading only.
func FollowLeader(self components.Boid, leader components.Boid, distanceBehind float64) r3.Vec {
	target := r3.Scale(-distanceBehind, SafeUnit(leader.Velocity))
	return Seek(self, target, DefaultSlowdownDistance)
}

// predict projects targetPos forward by the time self needs to reach it.
// Without a positive max speed the interception time is zero.
func predict(self components.Boid, targetPos, targetVel r3.Vec) r3.Vec {
	var t float64
	if self.MaxSpeed > 0 {
		t = Distance(self.Position, targetPos) / self.MaxSpeed
	}
	return r3.Add(targetPos, r3.Scale(t, targetVel))
}
