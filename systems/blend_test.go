package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/steering"
)

func pursuitOnly() *config.FlockSettings {
	s := config.DefaultSettings()
	s.AlignmentWeight = 0
	s.CohesionWeight = 0
	s.SeparationWeight = 0
	return &s
}

func TestPursuitTarget_QueueCurve(t *testing.T) {
	leader := components.LeaderState{Position: r3.Vec{X: 1000}, Forward: r3.Vec{X: 1}}
	s := config.DefaultSettings()
	s.PursuitDistanceBehind = 100
	s.QueueCurve = config.NewStepCurve([]config.CurveKey{{Slot: 0, Multiplier: 1}, {Slot: 2, Multiplier: 3}})

	tests := []struct {
		slot int
		want r3.Vec
	}{
		{0, r3.Vec{X: 900}},
		{1, r3.Vec{X: 900}},
		{2, r3.Vec{X: 700}},
		{5, r3.Vec{X: 700}},
	}
	for _, tt := range tests {
		if got := PursuitTarget(leader, tt.slot, &s); !vecNear(got, tt.want, 1e-9) {
			t.Errorf("PursuitTarget(slot %d) = %v, want %v", tt.slot, got, tt.want)
		}
	}

	// No curve behaves as a constant 1.
	s.QueueCurve = nil
	if got := PursuitTarget(leader, 5, &s); !vecNear(got, r3.Vec{X: 900}, 1e-9) {
		t.Errorf("PursuitTarget without curve = %v, want (900,0,0)", got)
	}
}

func TestBlend_MagnitudeIsMaxSpeed(t *testing.T) {
	leader := components.LeaderState{Position: r3.Vec{X: 5000}, Velocity: r3.Vec{X: 100}, Forward: r3.Vec{X: 1}}
	self := components.Boid{Position: r3.Vec{Y: 40}, Velocity: r3.Vec{X: 30, Y: 5}, MaxSpeed: 420}
	f := Forces{Alignment: r3.Vec{X: 10}, Cohesion: r3.Vec{Y: -420}, Separation: r3.Vec{Z: 420}}
	s := config.DefaultSettings()

	got, _ := Blend(self, 0, leader, f, &s)
	if n := r3.Norm(got); math.Abs(n-420) > 1e-9 {
		t.Errorf("|steering| = %v, want 420", n)
	}
}

func TestBlend_IsolatedBoidFollowsPursuit(t *testing.T) {
	leader := components.LeaderState{Position: r3.Vec{X: 5000, Y: 800}, Velocity: r3.Vec{X: 200}, Forward: r3.Vec{X: 1}}
	s := config.DefaultSettings()

	// Every neighbor sits outside the alignment, cohesion and separation
	// radii, so only pursuit may steer.
	boids := []components.Boid{
		{MaxSpeed: 300},
		{Position: r3.Vec{X: 600}, Velocity: r3.Vec{Y: 400}, MaxSpeed: 300},
		{Position: r3.Vec{Y: -2000, Z: 50}, Velocity: r3.Vec{Z: -400}, MaxSpeed: 300},
		{Position: r3.Vec{X: -400, Y: 400}, Velocity: r3.Vec{X: -400}, MaxSpeed: 300},
	}

	forces := NeighborForces(boids, 0, &s)
	if forces != (Forces{}) {
		t.Fatalf("forces with distant neighbors = %+v, want zero", forces)
	}

	got, w := Blend(boids[0], 0, leader, forces, &s)
	pursuit := steering.Pursuit(boids[0], PursuitTarget(leader, 0, &s), leader.Velocity, s.PursuitSlowdownRadius)
	want := r3.Scale(300, steering.SafeUnit(pursuit))
	if !vecNear(got, want, 1e-9) {
		t.Errorf("steering = %v, want normalized pursuit %v", got, want)
	}
	if w.Alignment != (r3.Vec{}) || w.Cohesion != (r3.Vec{}) || w.Separation != (r3.Vec{}) {
		t.Errorf("neighbor terms = %+v, want zero", w)
	}
}

func TestBlend_ZeroMaxSpeed(t *testing.T) {
	leader := components.LeaderState{Position: r3.Vec{X: 5000}, Forward: r3.Vec{X: 1}}
	self := components.Boid{Velocity: r3.Vec{X: 30}}
	s := config.DefaultSettings()

	got, _ := Blend(self, 0, leader, Forces{Alignment: r3.Vec{X: 5}}, &s)
	if got != (r3.Vec{}) {
		t.Errorf("steering with zero max speed = %v, want zero", got)
	}
}

func TestBlend_ZeroSumIsZero(t *testing.T) {
	// Boid already at its pursuit target, motionless, no neighbors.
	leader := components.LeaderState{Position: r3.Vec{X: 500}, Forward: r3.Vec{X: 1}}
	self := components.Boid{MaxSpeed: 100}
	s := pursuitOnly()

	got, _ := Blend(self, 0, leader, Forces{}, s)
	if got != (r3.Vec{}) {
		t.Errorf("steering = %v, want zero", got)
	}
}

func TestBlend_FullBrakingCancelsBackwardSteering(t *testing.T) {
	// Boid ahead of the leader: pursuit points backward against forward.
	leader := components.LeaderState{Forward: r3.Vec{X: 1}}
	self := components.Boid{Position: r3.Vec{X: 2000}, MaxSpeed: 100}
	s := pursuitOnly()
	s.NonForwardBrakingFactor = 1

	got, w := Blend(self, 0, leader, Forces{}, s)
	if got != (r3.Vec{}) {
		t.Errorf("steering with braking 1 = %v, want zero", got)
	}
	if w.Pursuit.X >= 0 {
		t.Errorf("weighted pursuit = %v, want backward", w.Pursuit)
	}
}

func TestBlend_PartialBrakingKeepsDirection(t *testing.T) {
	leader := components.LeaderState{Forward: r3.Vec{X: 1}}
	self := components.Boid{Position: r3.Vec{X: 2000}, MaxSpeed: 100}
	s := pursuitOnly()
	s.NonForwardBrakingFactor = 0.5

	got, _ := Blend(self, 0, leader, Forces{}, s)
	if !vecNear(got, r3.Vec{X: -100}, 1e-9) {
		t.Errorf("steering = %v, want (-100,0,0)", got)
	}
}

func TestBlend_ForwardSteeringNotBraked(t *testing.T) {
	leader := components.LeaderState{Position: r3.Vec{X: 10000}, Forward: r3.Vec{X: 1}}
	self := components.Boid{MaxSpeed: 100}
	s := pursuitOnly()
	s.NonForwardBrakingFactor = 1

	got, _ := Blend(self, 0, leader, Forces{}, s)
	if !vecNear(got, r3.Vec{X: 100}, 1e-9) {
		t.Errorf("steering = %v, want (100,0,0)", got)
	}
}

func TestBlend_WeightsScaleComponents(t *testing.T) {
	leader := components.LeaderState{Position: r3.Vec{X: 10000}, Forward: r3.Vec{X: 1}}
	self := components.Boid{MaxSpeed: 100}
	f := Forces{Alignment: r3.Vec{Y: 10}, Cohesion: r3.Vec{Y: 20}, Separation: r3.Vec{Z: 30}}
	s := config.DefaultSettings()
	s.AlignmentWeight = 2
	s.CohesionWeight = 0.5
	s.SeparationWeight = 0

	_, w := Blend(self, 0, leader, f, &s)
	if !vecNear(w.Alignment, r3.Vec{Y: 20}, 1e-12) {
		t.Errorf("weighted alignment = %v", w.Alignment)
	}
	if !vecNear(w.Cohesion, r3.Vec{Y: 10}, 1e-12) {
		t.Errorf("weighted cohesion = %v", w.Cohesion)
	}
	if w.Separation != (r3.Vec{}) {
		t.Errorf("weighted separation = %v, want zero", w.Separation)
	}
}
