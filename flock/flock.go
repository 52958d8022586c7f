// Package flock runs the per-frame steering pass for a group of boids
// following a leader, and owns the settings transition and the formation
// swap timer.
package flock

import (
	"image/color"
	"log/slog"
	"math/rand"
	"slices"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/components"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// Locomotion is the movement source of one boid. Implementations must be
// comparable; the flock identifies agents by interface equality.
type Locomotion interface {
	Position() r3.Vec
	Velocity() r3.Vec
	MaxSpeed() float64
	RequestDirectMove(velocity r3.Vec)
}

// FreeFlyer is implemented by locomotion sources that can report whether
// they move freely in three dimensions.
type FreeFlyer interface {
	CanFly() bool
}

// Leader is the flock owner the boids follow.
type Leader interface {
	Position() r3.Vec
	Velocity() r3.Vec
	Forward() r3.Vec
}

// DebugDrawer receives debug geometry. Calls never affect steering.
type DebugDrawer interface {
	DrawLine(start, end r3.Vec, c color.RGBA)
	DrawSphere(center r3.Vec, radius float64, segments int, c color.RGBA)
}

// PhaseTimer is notified as a tick moves through its phases.
// *telemetry.PerfCollector implements it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Options configures a Flock. The zero value is usable.
type Options struct {
	Logger   *slog.Logger       // nil = slog.Default()
	Rand     *rand.Rand         // nil = time-seeded source
	Debug    config.DebugConfig // initial debug toggles
	Drawer   DebugDrawer        // nil disables debug drawing
	Perf     PhaseTimer
	Metrics  *telemetry.Metrics
	Recorder telemetry.Recorder
	Clock    Clock // nil = WallClock
}

// Flock holds the registered agents and the settings they steer with.
//
// Every exported method takes the flock's lock, so a swap batch fired by
// the clock never interleaves with a tick. Locomotion and Leader
// callbacks run under that lock and must not call back into the flock.
type Flock struct {
	mu sync.Mutex

	leader     Leader
	agents     []Locomotion
	boids      []components.Boid
	transition *systems.Transition
	name       string

	debug  config.DebugConfig
	drawer DebugDrawer

	logger   *slog.Logger
	rng      *rand.Rand
	perf     PhaseTimer
	metrics  *telemetry.Metrics
	recorder telemetry.Recorder

	clock     Clock
	swapTimer Timer
	swapGen   uint64

	ticks  int64
	closed bool
}

// New creates a flock following leader. Active settings start at the
// defaults until ApplySettings is called.
func New(leader Leader, opts Options) *Flock {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	clock := opts.Clock
	if clock == nil {
		clock = WallClock{}
	}

	return &Flock{
		leader:     leader,
		transition: systems.NewTransition(),
		name:       config.DefaultSettingsData().Name,
		debug:      opts.Debug,
		drawer:     opts.Drawer,
		logger:     logger,
		rng:        rng,
		perf:       opts.Perf,
		metrics:    opts.Metrics,
		recorder:   opts.Recorder,
		clock:      clock,
	}
}

// RegisterAgent appends agent to the formation. Registering an agent twice
// or registering nil does nothing. An agent that reports it cannot fly is
// still registered, with a warning.
func (f *Flock) RegisterAgent(agent Locomotion) {
	if agent == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if slices.Contains(f.agents, agent) {
		return
	}
	f.agents = append(f.agents, agent)
	slot := len(f.agents) - 1
	f.record(telemetry.NewRegisterEvent(f.ticks, slot))

	if ff, ok := agent.(FreeFlyer); ok && !ff.CanFly() {
		f.logger.Warn("registered agent cannot fly; flocking assumes free flight", "slot", slot)
		f.record(telemetry.NewFlightWarningEvent(f.ticks, slot))
	}
}

// UnregisterAgent removes agent, keeping the order of the others. Unknown
// agents are ignored.
func (f *Flock) UnregisterAgent(agent Locomotion) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := slices.Index(f.agents, agent)
	if i < 0 {
		return
	}
	f.agents = slices.Delete(f.agents, i, i+1)
	f.record(telemetry.NewUnregisterEvent(f.ticks, i))
}

// ApplySettings starts a transition to data. A nil asset is ignored.
// The swap timer starts or stops to follow the new swap policy.
func (f *Flock) ApplySettings(data *config.SettingsData) {
	if data == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.transition.Apply(data)
	f.name = data.Name
	f.logger.Info("flock settings applied",
		"name", data.Name,
		"transition", data.TransitionDuration,
		"swaps", data.Settings.AllowSwapPositions,
	)
	f.record(telemetry.NewSettingsEvent(f.ticks, data.Name))

	f.updateSwapTimerLocked()
}

// SetDebug replaces the debug toggles.
func (f *Flock) SetDebug(d config.DebugConfig) {
	f.mu.Lock()
	f.debug = d
	f.mu.Unlock()
}

// Debug returns the debug toggles.
func (f *Flock) Debug() config.DebugConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.debug
}

// Settings returns a copy of the active settings.
func (f *Flock) Settings() config.FlockSettings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transition.Active
}

// SettingsName returns the name of the last applied settings asset.
func (f *Flock) SettingsName() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name
}

// TransitionRatio returns settings transition progress in [0, 1].
func (f *Flock) TransitionRatio() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transition.Ratio()
}

// Agents returns the registered agents in slot order.
func (f *Flock) Agents() []Locomotion {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.agents)
}

// Len returns the number of registered agents.
func (f *Flock) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.agents)
}

// Slot returns agent's formation slot, or -1 if it is not registered.
func (f *Flock) Slot(agent Locomotion) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Index(f.agents, agent)
}

// Ticks returns the number of ticks processed.
func (f *Flock) Ticks() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticks
}

// Boids returns the snapshot computed by the last tick, including the
// steering velocity written back to each slot.
func (f *Flock) Boids() []components.Boid {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.boids)
}

// FormationTargets returns the current pursuit target of every slot.
func (f *Flock) FormationTargets() []r3.Vec {
	_, targets := f.Formation()
	return targets
}

// Formation returns the agents in slot order together with each slot's
// current pursuit target, read atomically with respect to swaps.
func (f *Flock) Formation() ([]Locomotion, []r3.Vec) {
	f.mu.Lock()
	defer f.mu.Unlock()

	leader := f.leaderState()
	targets := make([]r3.Vec, len(f.agents))
	for i := range targets {
		targets[i] = systems.PursuitTarget(leader, i, &f.transition.Active)
	}
	return slices.Clone(f.agents), targets
}

// Close stops the swap timer. The flock stays usable for ticks but no
// further swaps fire.
func (f *Flock) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.stopSwapTimerLocked()
}

func (f *Flock) leaderState() components.LeaderState {
	if f.leader == nil {
		return components.LeaderState{}
	}
	return components.LeaderState{
		Position: f.leader.Position(),
		Velocity: f.leader.Velocity(),
		Forward:  f.leader.Forward(),
	}
}

func (f *Flock) record(ev telemetry.Event) {
	f.metrics.Record(ev)
	if f.recorder != nil {
		f.recorder.Record(ev)
	}
}
