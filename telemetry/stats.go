package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated flock statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Flock composition at window end
	Agents   int `csv:"agents"`
	Grounded int `csv:"grounded"`

	// Settings
	SettingsName    string  `csv:"settings"`
	TransitionRatio float64 `csv:"transition_ratio"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`

	// Angle in degrees between each boid's velocity and the leader's facing
	HeadingErrMean float64 `csv:"heading_err_mean"`
	HeadingErrP50  float64 `csv:"heading_err_p50"`
	HeadingErrP90  float64 `csv:"heading_err_p90"`

	// Nearest neighbor distances
	SpacingMean float64 `csv:"spacing_mean"`
	SpacingMin  float64 `csv:"spacing_min"`

	// Distance from each boid to its formation point
	SlotErrMean float64 `csv:"slot_err_mean"`
	SlotErrP90  float64 `csv:"slot_err_p90"`

	// Events during window
	SwapBatches     int `csv:"swap_batches"`
	Swaps           int `csv:"swaps"`
	SettingsApplied int `csv:"settings_applied"`
	Registered      int `csv:"registered"`
	Unregistered    int `csv:"unregistered"`
	FlightWarnings  int `csv:"flight_warnings"`
}

// FlockSample is the per-boid state the collector needs at window end.
type FlockSample struct {
	Agents          int
	Grounded        int
	SettingsName    string
	TransitionRatio float64

	Speeds        []float64
	HeadingErrors []float64
	Spacings      []float64
	SlotErrors    []float64
}

// SampleFlock measures a flock from per-boid positions, velocities and
// formation points. All three slices are indexed by slot.
func SampleFlock(positions, velocities, targets []r3.Vec, leaderForward r3.Vec) FlockSample {
	n := len(positions)
	s := FlockSample{
		Agents:        n,
		Speeds:        make([]float64, 0, n),
		HeadingErrors: make([]float64, 0, n),
		Spacings:      make([]float64, 0, n),
		SlotErrors:    make([]float64, 0, n),
	}

	for i := 0; i < n; i++ {
		s.Speeds = append(s.Speeds, r3.Norm(velocities[i]))
		if r3.Norm2(velocities[i]) > 0 && r3.Norm2(leaderForward) > 0 {
			s.HeadingErrors = append(s.HeadingErrors, AngleDeg(velocities[i], leaderForward))
		}
		if i < len(targets) {
			s.SlotErrors = append(s.SlotErrors, r3.Norm(r3.Sub(targets[i], positions[i])))
		}

		nearest := math.Inf(1)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			nearest = math.Min(nearest, r3.Norm(r3.Sub(positions[j], positions[i])))
		}
		if !math.IsInf(nearest, 1) {
			s.Spacings = append(s.Spacings, nearest)
		}
	}

	return s
}

// AngleDeg returns the angle between a and b in degrees.
func AngleDeg(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	c := r3.Dot(a, b) / (na * nb)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// Percentile calculates the p-th percentile of a sorted slice with linear
// interpolation between ranks. p should be in [0, 1]. Returns 0 if the slice
// is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarizes values with mean, population standard deviation,
// minimum and the 50th/90th percentiles.
type Distribution struct {
	Mean, Std, Min, P50, P90 float64
}

// Summarize computes a Distribution. Empty input yields the zero value.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, variance := stat.PopMeanVariance(sorted, nil)
	return Distribution{
		Mean: mean,
		Std:  math.Sqrt(variance),
		Min:  sorted[0],
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Int("grounded", s.Grounded),
		slog.String("settings", s.SettingsName),
		slog.Float64("transition_ratio", s.TransitionRatio),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("heading_err_mean", s.HeadingErrMean),
		slog.Float64("heading_err_p50", s.HeadingErrP50),
		slog.Float64("heading_err_p90", s.HeadingErrP90),
		slog.Float64("spacing_mean", s.SpacingMean),
		slog.Float64("spacing_min", s.SpacingMin),
		slog.Float64("slot_err_mean", s.SlotErrMean),
		slog.Float64("slot_err_p90", s.SlotErrP90),
		slog.Int("swap_batches", s.SwapBatches),
		slog.Int("swaps", s.Swaps),
		slog.Int("settings_applied", s.SettingsApplied),
		slog.Int("registered", s.Registered),
		slog.Int("unregistered", s.Unregistered),
		slog.Int("flight_warnings", s.FlightWarnings),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
