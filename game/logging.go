package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/flock/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats logs the per-phase tick breakdown.
func (g *Game) logPerfStats(stats telemetry.PerfStats) {
	Logf("=== Perf @ Tick %d (speed %dx) | FPS: %.0f ===", g.tick, g.stepsPerUpdate, stats.FPS)
	Logf("Avg tick: %s (min %s, max %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MinTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond))

	for _, phase := range telemetry.Phases {
		avg := stats.PhaseAvg[phase]
		Logf("  %-14s %10s  %5.1f%%", phase, avg.Round(time.Microsecond), stats.PhasePct[phase])
	}
	Logf("")
}

// logFlockState logs a readable summary of the formation.
func (g *Game) logFlockState(stats telemetry.WindowStats) {
	Logf("=== Tick %d | %s (%.0f%%) ===", g.tick, stats.SettingsName, stats.TransitionRatio*100)
	Logf("Boids: %d (%d grounded) | swaps total: %d", stats.Agents, stats.Grounded, g.totalSwaps)
	Logf("Speed: %.1f ± %.1f", stats.SpeedMean, stats.SpeedStd)
	Logf("Heading error: mean %.1f° p50 %.1f° p90 %.1f°", stats.HeadingErrMean, stats.HeadingErrP50, stats.HeadingErrP90)
	Logf("Spacing: mean %.1f min %.1f | slot error: mean %.1f p90 %.1f",
		stats.SpacingMean, stats.SpacingMin, stats.SlotErrMean, stats.SlotErrP90)
	Logf("")
}
