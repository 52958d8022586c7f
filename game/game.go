// Package game hosts the flock in a demo world: it owns the simulation
// loop, settings assets, telemetry and, in graphics mode, the UI.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/flock"
	"github.com/pthm-cable/flock/renderer"
	"github.com/pthm-cable/flock/telemetry"
	"github.com/pthm-cable/flock/ui"
	"github.com/pthm-cable/flock/world"
)

// Game holds the complete simulation state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64
	logger  *slog.Logger

	world *world.World
	flock *flock.Flock

	// Settings assets offered by the UI; index 0 is the built-in default
	presets       []*config.SettingsData
	settingsPath  string
	watcher       *config.SettingsWatcher
	settingsQueue chan *config.SettingsData

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	events           *telemetry.EventLog
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	metrics          *telemetry.Metrics
	swapClock        *flock.SimClock
	statsCallback    func(telemetry.WindowStats)
	snapshotDir      string
	logStats         bool
	totalSwaps       int

	// Rendering (nil in headless mode)
	headless   bool
	camera     *camera.Camera
	scene      *renderer.Scene
	background *renderer.BackgroundRenderer
	debugBuf   *flock.DebugBuffer
	overlays   *ui.OverlayRegistry
	hud        *ui.HUD
	controls   *ui.ControlsPanel
	perfPanel  *ui.PerfPanel
	inspector  *ui.Inspector

	// State
	tick           int64
	paused         bool
	stepsPerUpdate int
	showPerf       bool
	selected       uuid.UUID // Selected boid, uuid.Nil = none

	screenWidth, screenHeight int32
}

// NewGameWithOptions builds the world, spawns the boids, registers them
// with the flock and applies the initial settings asset.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		cfg:              cfg,
		rng:              rand.New(rand.NewSource(seed)),
		rngSeed:          seed,
		logger:           logger,
		settingsQueue:    make(chan *config.SettingsData, 4),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:        telemetry.NewCollector(statsWindow, cfg.Simulation.DT),
		events:           &telemetry.EventLog{},
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		metrics:          opts.Metrics,
		statsCallback:    opts.StatsCallback,
		snapshotDir:      opts.SnapshotDir,
		logStats:         opts.LogStats,
		headless:         opts.Headless,
		stepsPerUpdate:   steps,
		screenWidth:      int32(cfg.Screen.Width),
		screenHeight:     int32(cfg.Screen.Height),
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		return nil, err
	}

	g.world = world.New(cfg.Leader, g.rng)

	// Swap timers run on simulated time so they pause with the game and
	// stay reproducible at any steps-per-update.
	g.swapClock = flock.NewSimClock()
	flockOpts := flock.Options{
		Clock:    g.swapClock,
		Logger:   logger,
		Rand:     rand.New(rand.NewSource(g.rng.Int63())),
		Debug:    cfg.Flock.Debug,
		Perf:     g.perfCollector,
		Metrics:  g.metrics,
		Recorder: telemetry.MultiRecorder{g.collector, g.events},
	}
	if !g.headless {
		g.debugBuf = &flock.DebugBuffer{}
		flockOpts.Drawer = g.debugBuf
	}
	g.flock = flock.New(g.world.Leader(), flockOpts)

	for _, b := range g.world.Populate(cfg.Simulation) {
		g.registerBoid(b)
	}

	if err := g.loadSettings(opts.SettingsPath, opts.Settings); err != nil {
		g.flock.Close()
		return nil, err
	}

	if !g.headless {
		g.initGraphics()
	}

	return g, nil
}

// initGraphics creates the camera and UI. Requires an open raylib window.
func (g *Game) initGraphics() {
	g.camera = camera.New(float64(g.screenWidth), float64(g.screenHeight))
	g.camera.Target = g.world.Leader().Position()
	g.scene = renderer.NewScene()
	g.background = renderer.NewBackgroundRenderer(g.screenWidth, g.screenHeight, 120, 160, 200)

	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetDebugConfig(g.cfg.Flock.Debug)
	g.overlays.SetEnabled(ui.OverlayLeaderPath, true)

	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(10, 10, 220)
	g.perfPanel = ui.NewPerfPanel(10, g.screenHeight-140)
	g.inspector = ui.NewInspector(g.screenWidth, g.screenHeight)
}

// registerBoid adds a world boid to the flock and the lifetime tracker.
func (g *Game) registerBoid(b *world.Boid) {
	g.flock.RegisterAgent(b)
	g.lifetimeTracker.Register(b.ID(), g.tick, g.flock.Slot(b))
}

// unregisterBoid removes a boid from the flock and the world.
func (g *Game) unregisterBoid(b *world.Boid) {
	g.flock.UnregisterAgent(b)
	g.world.RemoveBoid(b)
	g.lifetimeTracker.Remove(b.ID())
	if g.selected == b.ID() {
		g.selected = uuid.Nil
	}
}

// Update runs one or more simulation steps based on speed setting.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}

	g.camera.Follow(g.world.Leader().Position(), float64(g.stepsPerUpdate)*g.cfg.Simulation.DT)
}

// UpdateHeadless runs simulation steps without input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step advances the simulation by one tick.
func (g *Game) step() {
	dt := g.cfg.Simulation.DT

	g.drainSettings()

	g.perfCollector.StartTick()
	if g.debugBuf != nil {
		g.debugBuf.Reset()
	}

	g.flock.Tick(dt)

	g.perfCollector.StartPhase(telemetry.PhaseHost)
	g.world.Step(dt)
	g.swapClock.Advance(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.observeLifetimes(dt)
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Tick returns the number of simulation ticks processed.
func (g *Game) Tick() int64 {
	return g.tick
}

// Flock returns the flock under simulation.
func (g *Game) Flock() *flock.Flock {
	return g.flock
}

// World returns the host world.
func (g *Game) World() *world.World {
	return g.world
}

// Unload stops the swap timer and flushes output files.
func (g *Game) Unload() {
	g.flock.Close()
	if err := g.outputManager.WriteEvents(g.events.Drain()); err != nil {
		g.logger.Error("failed to write events", "error", err)
	}
	if err := g.outputManager.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
}
