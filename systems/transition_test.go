package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/flock/config"
)

func targetData(duration float64) *config.SettingsData {
	d := config.DefaultSettingsData()
	d.TransitionDuration = duration
	d.Settings.PursuitWeight = 3
	d.Settings.SeparationRadius = 900
	d.Settings.AllowSwapPositions = true
	return d
}

func TestTransition_StartsAtDefaults(t *testing.T) {
	tr := NewTransition()
	if tr.Active.PursuitWeight != config.DefaultSettings().PursuitWeight {
		t.Errorf("Active.PursuitWeight = %v, want default", tr.Active.PursuitWeight)
	}
	if tr.Transitioning() || tr.Ratio() != 1 {
		t.Error("new transition should be idle")
	}
}

func TestTransition_ApplyNilNoOp(t *testing.T) {
	tr := NewTransition()
	tr.Apply(targetData(2))
	tr.Update(0.5)
	before := *tr

	tr.Apply(nil)
	if tr.Remaining != before.Remaining || tr.Active.PursuitWeight != before.Active.PursuitWeight {
		t.Errorf("Apply(nil) changed state: %+v", tr)
	}
}

func TestTransition_ZeroDurationImmediate(t *testing.T) {
	tr := NewTransition()
	tr.Apply(targetData(0))

	if tr.Active.PursuitWeight != 3 || tr.Active.SeparationRadius != 900 {
		t.Errorf("Active = %+v, want target immediately", tr.Active)
	}
	if tr.Transitioning() {
		t.Error("zero duration should not be transitioning")
	}
}

func TestTransition_NegativeDurationClamped(t *testing.T) {
	tr := NewTransition()
	tr.Apply(targetData(-4))

	if tr.Duration != 0 || tr.Remaining != 0 {
		t.Errorf("Duration/Remaining = %v/%v, want 0/0", tr.Duration, tr.Remaining)
	}
	if tr.Active.PursuitWeight != 3 {
		t.Errorf("Active.PursuitWeight = %v, want 3", tr.Active.PursuitWeight)
	}
}

func TestTransition_PolicyCopiedAtApply(t *testing.T) {
	tr := NewTransition()
	tr.Apply(targetData(10))

	if !tr.Active.AllowSwapPositions {
		t.Error("swap policy should take effect at apply time")
	}
	if tr.Active.PursuitWeight != 1 {
		t.Errorf("numeric fields should not move before Update, got %v", tr.Active.PursuitWeight)
	}
}

func TestTransition_Linear(t *testing.T) {
	tr := NewTransition()
	tr.Apply(targetData(2))

	tests := []struct {
		dt        float64
		wantRatio float64
		wantPW    float64
	}{
		{0.5, 0.25, 1.5},
		{0.5, 0.5, 2},
		{0.5, 0.75, 2.5},
		{0.5, 1, 3},
		{0.5, 1, 3}, // stays at target
	}
	for i, tt := range tests {
		tr.Update(tt.dt)
		if math.Abs(tr.Ratio()-tt.wantRatio) > 1e-12 {
			t.Errorf("step %d: Ratio = %v, want %v", i, tr.Ratio(), tt.wantRatio)
		}
		if math.Abs(tr.Active.PursuitWeight-tt.wantPW) > 1e-12 {
			t.Errorf("step %d: PursuitWeight = %v, want %v", i, tr.Active.PursuitWeight, tt.wantPW)
		}
		if tr.Remaining < 0 || tr.Remaining > tr.Duration {
			t.Errorf("step %d: Remaining %v outside [0, %v]", i, tr.Remaining, tr.Duration)
		}
	}
}

func TestTransition_EndpointExact(t *testing.T) {
	tr := NewTransition()
	d := targetData(0.7)
	d.Settings.CohesionRadius = 123.456789
	tr.Apply(d)

	for range 100 {
		tr.Update(1.0 / 60.0)
	}
	if tr.Active.CohesionRadius != 123.456789 {
		t.Errorf("CohesionRadius = %v, want exact target", tr.Active.CohesionRadius)
	}
	if tr.Remaining != 0 {
		t.Errorf("Remaining = %v, want 0", tr.Remaining)
	}
}

func TestTransition_OvershootingDt(t *testing.T) {
	tr := NewTransition()
	tr.Apply(targetData(1))
	tr.Update(50)

	if tr.Remaining != 0 || tr.Active.PursuitWeight != 3 {
		t.Errorf("after large dt: Remaining %v PursuitWeight %v", tr.Remaining, tr.Active.PursuitWeight)
	}
}

func TestTransition_NegativeDtIgnored(t *testing.T) {
	tr := NewTransition()
	tr.Apply(targetData(1))
	tr.Update(-1)

	if tr.Remaining != 1 {
		t.Errorf("Remaining = %v, want 1", tr.Remaining)
	}
}

func TestTransition_RestartFromCurrent(t *testing.T) {
	tr := NewTransition()
	tr.Apply(targetData(2))
	tr.Update(1) // halfway: PursuitWeight 2

	next := config.DefaultSettingsData()
	next.TransitionDuration = 1
	next.Settings.PursuitWeight = 0
	tr.Apply(next)

	if tr.Start.PursuitWeight != 2 {
		t.Errorf("Start.PursuitWeight = %v, want 2 (mid-transition value)", tr.Start.PursuitWeight)
	}
	tr.Update(0.5)
	if math.Abs(tr.Active.PursuitWeight-1) > 1e-12 {
		t.Errorf("PursuitWeight = %v, want 1", tr.Active.PursuitWeight)
	}
}
