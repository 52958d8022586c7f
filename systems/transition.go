package systems

import "github.com/pthm-cable/flock/config"

// Transition blends the active flock settings from a start snapshot toward a
// target over a fixed duration.
//
// Invariant: 0 <= Remaining <= Duration, and once Remaining reaches 0 the
// numeric fields of Active equal Target exactly.
type Transition struct {
	Active config.FlockSettings
	Start  config.FlockSettings
	Target config.FlockSettings

	Duration  float64
	Remaining float64
}

// NewTransition returns an idle transition whose active settings are the
// defaults.
func NewTransition() *Transition {
	d := config.DefaultSettings()
	return &Transition{Active: d, Start: d, Target: d}
}

// Apply starts a transition from the current active settings to data. A nil
// asset is ignored. Re-applying mid-transition restarts from wherever the
// active settings currently are.
func (t *Transition) Apply(data *config.SettingsData) {
	if data == nil {
		return
	}

	t.Start = t.Active
	t.Target = data.Settings
	t.Duration = max(data.TransitionDuration, 0)
	t.Remaining = t.Duration

	t.Active.CopyPolicy(data.Settings)

	if t.Duration == 0 {
		t.Active.LerpBetween(t.Start, t.Target, 1)
	}
}

// Update advances the transition by dt seconds. Negative dt is treated as 0.
func (t *Transition) Update(dt float64) {
	if t.Remaining <= 0 {
		return
	}
	if dt < 0 {
		dt = 0
	}

	t.Remaining -= dt
	if t.Remaining <= 0 {
		t.Remaining = 0
		t.Active.LerpBetween(t.Start, t.Target, 1)
		return
	}
	t.Active.LerpBetween(t.Start, t.Target, 1-t.Remaining/t.Duration)
}

// Transitioning reports whether a blend is in progress.
func (t *Transition) Transitioning() bool {
	return t.Remaining > 0
}

// Ratio returns blend progress in [0, 1]; 1 when idle.
func (t *Transition) Ratio() float64 {
	if t.Duration <= 0 || t.Remaining <= 0 {
		return 1
	}
	return 1 - t.Remaining/t.Duration
}
