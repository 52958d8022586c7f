package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/game"
	"github.com/pthm-cable/flock/telemetry"
)

// runFlags holds the flags of the run command.
type runFlags struct {
	configPath     string
	settingsPath   string
	headless       bool
	logStats       bool
	statsWindow    float64
	snapshotDir    string
	outputDir      string
	seed           int64
	maxTicks       int
	stepsPerUpdate int
	metricsAddr    string
	logFormat      string
	logLevel       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "flock",
		Short:        "Leader-following flock simulation",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newValidateCmd(), newPrintDefaultsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation, windowed or headless",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	fl.StringVar(&f.settingsPath, "settings", "", "Flock settings asset (.yaml or .toml); overrides the config")
	fl.BoolVar(&f.headless, "headless", false, "Run without graphics")
	fl.BoolVar(&f.logStats, "log-stats", false, "Output window stats via slog")
	fl.Float64Var(&f.statsWindow, "stats-window", 0, "Stats window size in seconds (0 = use config)")
	fl.StringVar(&f.snapshotDir, "snapshot-dir", "", "Directory for snapshot files")
	fl.StringVar(&f.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	fl.Int64Var(&f.seed, "seed", 0, "RNG seed (0 = config, then time-based)")
	fl.IntVar(&f.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	fl.IntVar(&f.stepsPerUpdate, "steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (empty = use config)")
	fl.StringVar(&f.logFormat, "log-format", "json", "Log format: json or text")
	fl.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <settings-file>...",
		Short: "Check flock settings assets for errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, path := range args {
				data, err := config.LoadSettings(path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%q, transition %.2fs, swaps %v)\n",
					path, data.Name, data.TransitionDuration, data.Settings.AllowSwapPositions)
			}
			return errors.Join(errs...)
		},
	}
}

func newPrintDefaultsCmd() *cobra.Command {
	var settings bool
	cmd := &cobra.Command{
		Use:   "print-defaults",
		Short: "Print the built-in configuration or settings asset as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			if settings {
				return enc.Encode(config.DefaultSettingsData())
			}
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			return enc.Encode(cfg)
		},
	}
	cmd.Flags().BoolVar(&settings, "settings", false, "Print the default flock settings asset instead of the config")
	return cmd
}

// newLogger builds the process logger from the format and level flags.
func newLogger(format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// serveMetrics exposes reg on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

func run(ctx context.Context, f runFlags) error {
	logger, err := newLogger(f.logFormat, f.logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(f.configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	cfg := config.Cfg()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := telemetry.NewMetrics(reg)

	metricsAddr := cfg.Telemetry.MetricsAddr
	if f.metricsAddr != "" {
		metricsAddr = f.metricsAddr
	}

	opts := game.Options{
		Seed:           f.seed,
		LogStats:       f.logStats,
		StatsWindowSec: f.statsWindow,
		SnapshotDir:    f.snapshotDir,
		OutputDir:      f.outputDir,
		Headless:       f.headless,
		StepsPerUpdate: f.stepsPerUpdate,
		SettingsPath:   f.settingsPath,
		Logger:         logger,
		Metrics:        metrics,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !f.headless {
		// raylib needs the window before the game builds its renderers
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Flock")
		defer rl.CloseWindow()
		rl.SetWindowState(rl.FlagWindowResizable)
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		logger.Error("failed to start simulation", "error", err)
		return err
	}
	defer g.Unload()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, egCtx := errgroup.WithContext(ctx)

	if w := g.Watcher(); w != nil {
		eg.Go(func() error { return w.Run(egCtx) })
	}
	if metricsAddr != "" {
		eg.Go(func() error { return serveMetrics(egCtx, metricsAddr, reg, logger) })
	}

	reachedMax := func() bool {
		return f.maxTicks > 0 && int(g.Tick()) >= f.maxTicks
	}

	if f.headless {
		logger.Info("starting headless simulation",
			"seed", f.seed,
			"max_ticks", f.maxTicks,
			"steps_per_update", f.stepsPerUpdate,
		)
		eg.Go(func() error {
			defer cancel()
			for egCtx.Err() == nil {
				g.UpdateHeadless()
				if reachedMax() {
					logger.Info("max ticks reached", "tick", g.Tick())
					return nil
				}
			}
			return nil
		})
	} else {
		// The window loop must stay on the main goroutine
		for !rl.WindowShouldClose() && egCtx.Err() == nil {
			g.Update()
			g.Draw()
			if reachedMax() {
				break
			}
		}
		cancel()
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulation stopped", "error", err)
		return err
	}
	return nil
}
