package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/game"
	"github.com/pthm-cable/flock/telemetry"
)

// Cost component weights.
const (
	costWeightHeading = 0.40
	costWeightSlot    = 0.35
	costWeightSpacing = 0.15
	costWeightJitter  = 0.10

	costWarmupWindows = 1 // skip first N windows while the flock forms
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	base        *config.SettingsData
	maxTicks    int64
	seeds       []int64
	statsWindow float64
	minSpacing  float64
	slotScale   float64

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestStats   []telemetry.WindowStats
	lastHeading float64 // mean heading error from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. base supplies every setting
// the parameter vector does not cover.
func NewFitnessEvaluator(params *ParamVector, base *config.SettingsData, maxTicks int64, seeds []int64, minSpacing float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		base:        base,
		maxTicks:    maxTicks,
		seeds:       seeds,
		statsWindow: 2.0,
		minSpacing:  minSpacing,
		slotScale:   math.Max(base.Settings.PursuitDistanceBehind, 1),
		bestFitness: math.Inf(1),
	}
}

// LastHeading returns the mean heading error, in degrees, of the most
// recent evaluation.
func (fe *FitnessEvaluator) LastHeading() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastHeading
}

// BestStats returns the window stats of the best evaluation's first seed.
func (fe *FitnessEvaluator) BestStats() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	cost    float64
	heading float64
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	data := fe.Settings(x)

	results := make([]seedResult, len(fe.seeds))
	var eg errgroup.Group
	for i, seed := range fe.seeds {
		eg.Go(func() error {
			windows, err := fe.runSimulation(data, seed)
			if err != nil {
				return err
			}
			cost, heading := fe.computeCost(windows)
			results[i] = seedResult{cost: cost, heading: heading, windows: windows}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		slog.Error("evaluation failed", "error", err)
		return math.Inf(1)
	}

	var totalCost, totalHeading float64
	for _, r := range results {
		totalCost += r.cost
		totalHeading += r.heading
	}
	n := float64(len(results))
	avgCost := totalCost / n

	fe.mu.Lock()
	if avgCost < fe.bestFitness {
		fe.bestFitness = avgCost
		fe.bestStats = results[0].windows
	}
	fe.lastHeading = totalHeading / n
	fe.mu.Unlock()

	return avgCost
}

// Settings builds the settings asset for a raw parameter vector.
func (fe *FitnessEvaluator) Settings(x []float64) *config.SettingsData {
	data := *fe.base
	data.Name = "optimized"
	data.TransitionDuration = 0
	fe.params.ApplyToSettings(&data, x)
	return &data
}

// runSimulation executes a single headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(data *config.SettingsData, seed int64) ([]telemetry.WindowStats, error) {
	var windows []telemetry.WindowStats

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Settings:       data,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows, nil
}

// computeCost scores a run ∈ [0, ~1] (lower = better) and also returns
// the mean heading error in degrees.
func (fe *FitnessEvaluator) computeCost(windows []telemetry.WindowStats) (float64, float64) {
	if len(windows) <= costWarmupWindows {
		return 1, 180
	}
	valid := windows[costWarmupWindows:]

	headings := make([]float64, 0, len(valid))
	speeds := make([]float64, 0, len(valid))
	var slotSum, spacingSum float64

	for _, w := range valid {
		headings = append(headings, w.HeadingErrMean)
		speeds = append(speeds, w.SpeedMean)

		// 1. Slot error relative to the queue spacing
		slotSum += 1 - math.Exp(-w.SlotErrMean/fe.slotScale)

		// 2. Crowding below the minimum spacing
		if w.Agents > 1 && w.SpacingMin < fe.minSpacing {
			spacingSum += (fe.minSpacing - w.SpacingMin) / fe.minSpacing
		}
	}

	n := float64(len(valid))
	heading := stat.Mean(headings, nil)

	// 3. Speed jitter across windows
	jitter := 0.0
	if mean := stat.Mean(speeds, nil); mean > 0 && len(speeds) >= 2 {
		jitter = clamp01(stat.StdDev(speeds, nil) / mean)
	}

	cost := costWeightHeading*clamp01(heading/180) +
		costWeightSlot*slotSum/n +
		costWeightSpacing*clamp01(spacingSum/n) +
		costWeightJitter*jitter

	return cost, heading
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
