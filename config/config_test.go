package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.BoidCount != 12 {
		t.Errorf("BoidCount = %d, want 12", cfg.Simulation.BoidCount)
	}
	// 5s window at 60Hz
	if cfg.Derived.StatsWindowTicks < 299 || cfg.Derived.StatsWindowTicks > 300 {
		t.Errorf("StatsWindowTicks = %d, want ~300", cfg.Derived.StatsWindowTicks)
	}
	if cfg.Flock.Debug.Any() {
		t.Error("debug draws should be off by default")
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.yaml", "simulation:\n  boid_count: 40\n  dt: 0.1\nflock:\n  debug:\n    draw_cohesion_force: true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.BoidCount != 40 {
		t.Errorf("BoidCount = %d, want 40", cfg.Simulation.BoidCount)
	}
	if cfg.Simulation.BoidMaxSpeed != 600 {
		t.Errorf("BoidMaxSpeed = %v, want default 600", cfg.Simulation.BoidMaxSpeed)
	}
	if cfg.Derived.StatsWindowTicks != 50 {
		t.Errorf("StatsWindowTicks = %d, want 50", cfg.Derived.StatsWindowTicks)
	}
	if !cfg.Flock.Debug.DrawCohesionForce || cfg.Flock.Debug.DrawAlignmentForce {
		t.Errorf("debug toggles = %+v", cfg.Flock.Debug)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Leader.Speed = 123

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Leader.Speed != 123 {
		t.Errorf("Leader.Speed = %v, want 123", back.Leader.Speed)
	}
}

func TestStepCurve(t *testing.T) {
	curve := NewStepCurve([]CurveKey{
		{Slot: 3, Multiplier: 2},
		{Slot: 1, Multiplier: 1},
		{Slot: 6, Multiplier: 9},
		{Slot: 6, Multiplier: 3},
	})

	tests := []struct {
		slot int
		want float64
	}{
		{0, 1}, // before first key
		{1, 1},
		{2, 1},
		{3, 2},
		{5, 2},
		{6, 3}, // duplicate slot, last key wins
		{100, 3},
	}
	for _, tt := range tests {
		if got := curve.Sample(tt.slot); got != tt.want {
			t.Errorf("Sample(%d) = %v, want %v", tt.slot, got, tt.want)
		}
	}

	if NewStepCurve(nil) != nil {
		t.Error("NewStepCurve(nil) should be nil")
	}
	if keys := curve.Keys(); len(keys) != 3 {
		t.Errorf("Keys() len = %d, want 3", len(keys))
	}
}

func TestSettingsCurveDefault(t *testing.T) {
	s := DefaultSettings()
	if got := s.Curve().Sample(7); got != 1 {
		t.Errorf("default curve Sample = %v, want 1", got)
	}
}

func TestLerpBetweenEndpoints(t *testing.T) {
	start := DefaultSettings()
	end := DefaultSettings()
	end.PursuitWeight = 0.3
	end.SeparationRadius = 1234.5678
	end.CohesionWeight = 0.1

	var s FlockSettings
	s.LerpBetween(start, end, 0)
	if s.PursuitWeight != start.PursuitWeight || s.SeparationRadius != start.SeparationRadius {
		t.Errorf("ratio 0 = %+v, want start", s)
	}
	s.LerpBetween(start, end, 1)
	if s.PursuitWeight != 0.3 || s.SeparationRadius != 1234.5678 || s.CohesionWeight != 0.1 {
		t.Errorf("ratio 1 not exact: %+v", s)
	}
	s.LerpBetween(start, end, 0.5)
	if s.PursuitWeight != 0.65 {
		t.Errorf("ratio 0.5 PursuitWeight = %v, want 0.65", s.PursuitWeight)
	}
}

func TestLoadSettingsYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "column.yaml", `transition_duration: 2.5
settings:
  pursuit_weight: 2
  alignment_radius: 800
  allow_swap_positions: true
  swap_delay: {min: 1, max: 2}
queue_curve:
  - {slot: 0, multiplier: 1}
  - {slot: 4, multiplier: 3}
`)

	data, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if data.Name != "column" {
		t.Errorf("Name = %q, want column", data.Name)
	}
	if data.TransitionDuration != 2.5 {
		t.Errorf("TransitionDuration = %v", data.TransitionDuration)
	}
	if data.Settings.PursuitWeight != 2 || data.Settings.AlignmentRadius != 800 {
		t.Errorf("overlay not applied: %+v", data.Settings)
	}
	if data.Settings.CohesionRadius != 500 {
		t.Errorf("CohesionRadius = %v, want default 500", data.Settings.CohesionRadius)
	}
	if got := data.Settings.Curve().Sample(5); got != 3 {
		t.Errorf("curve Sample(5) = %v, want 3", got)
	}
	if !data.Settings.AllowSwapPositions || data.Settings.SwapDelay.Max != 2 {
		t.Errorf("swap policy = %+v", data.Settings)
	}
}

func TestLoadSettingsTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "scatter.toml", `transition_duration = 0.5

[settings]
separation_weight = 3.0
separation_radius = 900.0

[settings.swap_count]
min = 2
max = 4
`)

	data, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if data.Settings.SeparationWeight != 3 || data.Settings.SeparationRadius != 900 {
		t.Errorf("overlay not applied: %+v", data.Settings)
	}
	if data.Settings.SwapCount != (IntInterval{Min: 2, Max: 4}) {
		t.Errorf("SwapCount = %+v", data.Settings.SwapCount)
	}
	if data.Settings.QueueCurve != nil {
		t.Error("QueueCurve should be nil without keys")
	}
}

func TestLoadSettingsRejects(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"negative weight", "a.yaml", "settings:\n  cohesion_weight: -1\n"},
		{"negative duration", "b.yaml", "transition_duration: -2\n"},
		{"unordered interval", "c.yaml", "settings:\n  swap_delay: {min: 5, max: 1}\n"},
		{"zero swap distance", "d.yaml", "settings:\n  swap_distance: {min: 0, max: 2}\n"},
		{"swaps without delay", "e.yaml", "settings:\n  allow_swap_positions: true\n  swap_delay: {min: 0, max: 0}\n"},
		{"negative curve key", "f.yaml", "queue_curve:\n  - {slot: 0, multiplier: -1}\n"},
		{"bad extension", "g.json", "{}"},
		{"malformed yaml", "h.yaml", "settings: [\n"},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.body)
			if _, err := LoadSettings(path); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestValidateWrapsSentinel(t *testing.T) {
	data := DefaultSettingsData()
	data.Settings.AlignmentRadius = -5

	err := data.Validate()
	if !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("Validate error = %v, want ErrInvalidSettings", err)
	}
	if err := DefaultSettingsData().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestWriteSettingsYAMLKeepsCurve(t *testing.T) {
	data := DefaultSettingsData()
	data.Settings.QueueCurve = NewStepCurve([]CurveKey{{Slot: 0, Multiplier: 1}, {Slot: 2, Multiplier: 4}})

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := WriteSettingsYAML(path, data); err != nil {
		t.Fatalf("WriteSettingsYAML: %v", err)
	}
	back, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got := back.Settings.Curve().Sample(3); got != 4 {
		t.Errorf("round-tripped curve Sample(3) = %v, want 4", got)
	}
}

func TestParseSettingsYAML(t *testing.T) {
	data := DefaultSettingsData()
	data.Name = "tight"
	data.Settings.SeparationRadius = 120
	data.Settings.QueueCurve = NewStepCurve([]CurveKey{{Slot: 0, Multiplier: 1}, {Slot: 3, Multiplier: 2}})

	path := filepath.Join(t.TempDir(), "tight.yaml")
	if err := WriteSettingsYAML(path, data); err != nil {
		t.Fatalf("WriteSettingsYAML: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}

	back, err := ParseSettingsYAML(raw)
	if err != nil {
		t.Fatalf("ParseSettingsYAML: %v", err)
	}
	if back.Name != "tight" {
		t.Errorf("name = %q, want tight", back.Name)
	}
	if back.Settings.SeparationRadius != 120 {
		t.Errorf("separation radius = %v, want 120", back.Settings.SeparationRadius)
	}
	if got := back.Settings.Curve().Sample(5); got != 2 {
		t.Errorf("curve Sample(5) = %v, want 2", got)
	}

	tests := []struct {
		name    string
		raw     string
		invalid bool
	}{
		{"negative weight", "settings:\n  cohesion_weight: -1\n", true},
		{"malformed", "settings: [", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettingsYAML([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrInvalidSettings) != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidSettings) = %v, want %v: %v", !tt.invalid, tt.invalid, err)
			}
		})
	}
}

func TestSettingsWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "live.yaml", "settings:\n  pursuit_weight: 1\n")

	got := make(chan *SettingsData, 4)
	w, err := NewSettingsWatcher(path, func(d *SettingsData) { got <- d }, nil)
	if err != nil {
		t.Fatalf("NewSettingsWatcher: %v", err)
	}
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Invalid content is skipped, then a valid write is delivered.
	writeFile(t, dir, "live.yaml", "settings:\n  pursuit_weight: -3\n")
	time.Sleep(100 * time.Millisecond)
	writeFile(t, dir, "live.yaml", "settings:\n  pursuit_weight: 7\n")

	timeout := time.After(5 * time.Second)
	for {
		select {
		case d := <-got:
			if d.Settings.PursuitWeight < 0 {
				t.Fatalf("invalid settings delivered: %+v", d.Settings)
			}
			if d.Settings.PursuitWeight == 7 {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for reload")
		}
	}
}
