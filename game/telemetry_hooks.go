package game

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/telemetry"
	"github.com/pthm-cable/flock/world"
)

// observeLifetimes feeds every boid's slot and speed to the lifetime tracker.
func (g *Game) observeLifetimes(dt float64) {
	for slot, a := range g.flock.Agents() {
		b, ok := a.(*world.Boid)
		if !ok {
			continue
		}
		g.lifetimeTracker.Observe(b.ID(), slot, b.Velocity().Norm(), dt)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleFlock())
	perfStats := g.perfCollector.Stats()
	g.totalSwaps += stats.Swaps

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		g.logger.Info("perf", "stats", perfStats)
		g.logFlockState(stats)
		g.logPerfStats(perfStats)
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		g.logger.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}
	if err := g.outputManager.WriteEvents(g.events.Drain()); err != nil {
		g.logger.Error("failed to write events", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			g.logger.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// sampleFlock measures the formation for the stats window.
func (g *Game) sampleFlock() telemetry.FlockSample {
	agents, targets := g.flock.Formation()

	positions := make([]r3.Vec, len(agents))
	velocities := make([]r3.Vec, len(agents))
	grounded := 0
	for i, a := range agents {
		positions[i] = a.Position()
		velocities[i] = a.Velocity()
		if b, ok := a.(*world.Boid); ok && !b.CanFly() {
			grounded++
		}
	}

	sample := telemetry.SampleFlock(positions, velocities, targets, g.world.Leader().Forward())
	sample.Grounded = grounded
	sample.SettingsName = g.flock.SettingsName()
	sample.TransitionRatio = g.flock.TransitionRatio()
	return sample
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		g.logger.Error("failed to save snapshot", "error", err)
		return
	}
	g.logger.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	leader := g.world.Leader()
	snapshot := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: g.rngSeed,
		Tick:    g.tick,
		Leader: telemetry.LeaderSnapshot{
			Position: leader.Position(),
			Velocity: leader.Velocity(),
			Forward:  leader.Forward(),
		},
		Settings:        g.activeSettingsData(),
		TransitionRatio: g.flock.TransitionRatio(),
		Bookmark:        bookmark,
	}

	for slot, a := range g.flock.Agents() {
		b, ok := a.(*world.Boid)
		if !ok {
			continue
		}
		state := telemetry.AgentSnapshot{
			ID:       b.ID(),
			Slot:     slot,
			Position: b.Position(),
			Velocity: b.Velocity(),
			MaxSpeed: b.MaxSpeed(),
			CanFly:   b.CanFly(),
		}
		if lt := g.lifetimeTracker.Get(b.ID()); lt != nil {
			state.Lifetime = lt.ToJSON()
		}
		snapshot.Agents = append(snapshot.Agents, state)
	}

	return snapshot
}
