package game

import (
	"log/slog"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/telemetry"
)

// Options configures game initialization.
type Options struct {
	Seed           int64   // RNG seed (0 = time-based)
	LogStats       bool    // Output window stats via slog and Logf
	StatsWindowSec float64 // Stats window size in seconds (0 = use config)
	SnapshotDir    string  // Directory for bookmark snapshots (empty = disabled)
	OutputDir      string  // Directory for CSV output (empty = disabled)
	Headless       bool    // Run without graphics
	StepsPerUpdate int     // Simulation ticks per Update call

	// SettingsPath overrides the configured settings asset.
	SettingsPath string
	// Settings, when set, is applied instead of any file and disables
	// hot reload.
	Settings *config.SettingsData

	Logger  *slog.Logger
	Metrics *telemetry.Metrics

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}
