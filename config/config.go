// Package config provides configuration loading and access for the flock
// simulation and the flock settings assets it applies.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Leader     LeaderConfig     `yaml:"leader"`
	Flock      FlockConfig      `yaml:"flock"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds host world parameters.
type SimulationConfig struct {
	DT            float64 `yaml:"dt"`             // Seconds per tick
	Seed          int64   `yaml:"seed"`           // 0 = time-based
	BoidCount     int     `yaml:"boid_count"`     // Boids spawned at start
	SpawnRadius   float64 `yaml:"spawn_radius"`   // Boids spawn within this radius behind the leader
	BoidMaxSpeed  float64 `yaml:"boid_max_speed"` // Units per second
	BoidMaxAccel  float64 `yaml:"boid_max_accel"` // Units per second squared (0 = instant)
	GroundedEvery int     `yaml:"grounded_every"` // Every Nth boid cannot fly (0 = none)
}

// LeaderConfig holds the flock owner's flight path.
type LeaderConfig struct {
	PathRadius float64 `yaml:"path_radius"`
	Speed      float64 `yaml:"speed"`
	Altitude   float64 `yaml:"altitude"`
}

// FlockConfig holds the settings asset selection and debug toggles.
type FlockConfig struct {
	SettingsFile  string      `yaml:"settings_file"`  // Empty = built-in defaults
	Presets       []string    `yaml:"presets"`        // Extra assets offered by the UI
	WatchSettings bool        `yaml:"watch_settings"` // Re-apply settings_file when it changes
	Debug         DebugConfig `yaml:"debug"`
}

// DebugConfig toggles the debug draw requests emitted by the flock.
type DebugConfig struct {
	DrawBoidSphere      bool `yaml:"draw_boid_sphere"`
	DrawPursuitForce    bool `yaml:"draw_pursuit_force"`
	DrawAlignmentForce  bool `yaml:"draw_alignment_force"`
	DrawCohesionForce   bool `yaml:"draw_cohesion_force"`
	DrawSeparationForce bool `yaml:"draw_separation_force"`
}

// Any reports whether at least one debug draw is enabled.
func (d DebugConfig) Any() bool {
	return d.DrawBoidSphere || d.DrawPursuitForce || d.DrawAlignmentForce ||
		d.DrawCohesionForce || d.DrawSeparationForce
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of simulation per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks averaged by the perf collector
	MetricsAddr         string  `yaml:"metrics_addr"`          // Empty = no /metrics endpoint
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StatsWindowTicks int // Telemetry.StatsWindow / Simulation.DT, at least 1
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Simulation.DT <= 0 {
		c.Simulation.DT = 1.0 / 60.0
	}
	ticks := int(c.Telemetry.StatsWindow / c.Simulation.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.StatsWindowTicks = ticks
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
