package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the flock's Prometheus instruments. Build it with
// NewMetrics against a dedicated registry so tests and multiple flocks do
// not collide on the default one.
type Metrics struct {
	TickDuration    prometheus.Histogram
	Agents          prometheus.Gauge
	Swaps           prometheus.Counter
	SwapBatches     prometheus.Counter
	SettingsApplied prometheus.Counter
	TransitionRatio prometheus.Gauge
	FlightWarnings  prometheus.Counter
}

// NewMetrics registers the flock instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flock",
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one flock tick",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		Agents: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "flock",
			Name:      "agents",
			Help:      "Registered agents",
		}),
		Swaps: f.NewCounter(prometheus.CounterOpts{
			Namespace: "flock",
			Name:      "swaps_total",
			Help:      "Formation slot exchanges performed",
		}),
		SwapBatches: f.NewCounter(prometheus.CounterOpts{
			Namespace: "flock",
			Name:      "swap_batches_total",
			Help:      "Swap timer firings",
		}),
		SettingsApplied: f.NewCounter(prometheus.CounterOpts{
			Namespace: "flock",
			Name:      "settings_applied_total",
			Help:      "Settings assets applied",
		}),
		TransitionRatio: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "flock",
			Name:      "transition_ratio",
			Help:      "Progress of the current settings transition, 1 when idle",
		}),
		FlightWarnings: f.NewCounter(prometheus.CounterOpts{
			Namespace: "flock",
			Name:      "flight_warnings_total",
			Help:      "Agents registered without free flight",
		}),
	}
}

// ObserveTick records one tick. Safe on a nil receiver.
func (m *Metrics) ObserveTick(d time.Duration, agents int, ratio float64) {
	if m == nil {
		return
	}
	m.TickDuration.Observe(d.Seconds())
	m.Agents.Set(float64(agents))
	m.TransitionRatio.Set(ratio)
}

// Record implements Recorder. Safe on a nil receiver.
func (m *Metrics) Record(ev Event) {
	if m == nil {
		return
	}
	switch ev.Type {
	case EventSwapBatch:
		m.SwapBatches.Inc()
		m.Swaps.Add(float64(ev.Count))
	case EventSettingsApplied:
		m.SettingsApplied.Inc()
	case EventFlightWarning:
		m.FlightWarnings.Inc()
	}
}

// MultiRecorder fans events out to several recorders, skipping nil ones.
type MultiRecorder []Recorder

// Record implements Recorder.
func (mr MultiRecorder) Record(ev Event) {
	for _, r := range mr {
		if r != nil {
			r.Record(ev)
		}
	}
}
