package telemetry

import "sync"

// Collector accumulates flock events within time windows and produces
// WindowStats. Record may be called from any goroutine.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	mu              sync.Mutex
	windowStartTick int64

	swapBatches     int
	swaps           int
	settingsApplied int
	registered      int
	unregistered    int
	flightWarnings  int
}

// NewCollector creates a stats collector.
// windowDurationSec: simulation seconds per window
// dt: seconds per tick
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticks := int64(1)
	if dt > 0 {
		ticks = max(int64(windowDurationSec/dt), 1)
	}
	return &Collector{
		windowDurationTicks: ticks,
		dt:                  dt,
	}
}

// Record implements Recorder.
func (c *Collector) Record(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Type {
	case EventSwapBatch:
		c.swapBatches++
		c.swaps += ev.Count
	case EventSettingsApplied:
		c.settingsApplied++
	case EventAgentRegistered:
		c.registered++
	case EventAgentUnregistered:
		c.unregistered++
	case EventFlightWarning:
		c.flightWarnings++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the window's events and the flock state
// in sample, then resets the counters for the next window.
func (c *Collector) Flush(currentTick int64, sample FlockSample) WindowStats {
	speed := Summarize(sample.Speeds)
	heading := Summarize(sample.HeadingErrors)
	spacing := Summarize(sample.Spacings)
	slot := Summarize(sample.SlotErrors)

	c.mu.Lock()
	defer c.mu.Unlock()

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Agents:          sample.Agents,
		Grounded:        sample.Grounded,
		SettingsName:    sample.SettingsName,
		TransitionRatio: sample.TransitionRatio,

		SpeedMean:      speed.Mean,
		SpeedStd:       speed.Std,
		HeadingErrMean: heading.Mean,
		HeadingErrP50:  heading.P50,
		HeadingErrP90:  heading.P90,
		SpacingMean:    spacing.Mean,
		SpacingMin:     spacing.Min,
		SlotErrMean:    slot.Mean,
		SlotErrP90:     slot.P90,

		SwapBatches:     c.swapBatches,
		Swaps:           c.swaps,
		SettingsApplied: c.settingsApplied,
		Registered:      c.registered,
		Unregistered:    c.unregistered,
		FlightWarnings:  c.flightWarnings,
	}

	c.windowStartTick = currentTick
	c.swapBatches = 0
	c.swaps = 0
	c.settingsApplied = 0
	c.registered = 0
	c.unregistered = 0
	c.flightWarnings = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
