// Command ls-orrery is an interactive solar system orrery for the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-orrery/internal/bodies"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/facts"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/render"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/ui"
	"github.com/litescript/ls-orrery/internal/version"
)

const appName = "ls-orrery"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Interactive solar system orrery for the terminal",
		Long: `ls-orrery draws the Sun and eight planets orbiting in real time.

Scroll to zoom, drag to pan and click a planet to follow it. The selected
planet's panel shows a short generated fact when an API key is set in
LS_ORRERY_API_KEY or GEMINI_API_KEY.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	f := rootCmd.PersistentFlags()
	f.String("bodies", "", "YAML body table to load instead of the built-in solar system")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-file", "", "Write logs to this file")
	f.Float64("zoom", config.DefaultView().Zoom, "Initial zoom (0.1 to 5)")
	f.Int("pixel-width", config.DefaultPixelWidth, "Raster pixels per cell, horizontally")
	f.Int("pixel-height", config.DefaultPixelHeight, "Raster pixels per cell, vertically")
	f.Bool("no-orbits", false, "Hide orbit paths")
	f.Bool("no-stars", false, "Hide the background starfield")

	rf := rootCmd.Flags()
	rf.Int("fps", config.DefaultFPS, "Frames per second (1 to 60)")
	rf.Float64("speed", config.DefaultView().Speed, "Initial simulation speed (0 to 10)")
	rf.Bool("no-labels", false, "Start with body labels hidden")
	rf.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	rootCmd.AddCommand(newSnapshotCmd(), newBodiesCmd(), newVersionCmd())
	return rootCmd
}

// loadConfig reads the environment and lets flags that were set explicitly
// override it.
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := applyFlags(flags, &cfg); err != nil {
		return config.Config{}, err
	}
	cfg.View = cfg.View.Validate()
	return cfg, nil
}

func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var errs []error
	str := func(name string, dst *string) {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		v, err := flags.GetString(name)
		errs = append(errs, err)
		*dst = v
	}
	num := func(name string, dst *float64) {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		v, err := flags.GetFloat64(name)
		errs = append(errs, err)
		*dst = v
	}
	integer := func(name string, dst *int) {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		v, err := flags.GetInt(name)
		errs = append(errs, err)
		*dst = v
	}
	hide := func(name string, dst *bool) {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			return
		}
		v, err := flags.GetBool(name)
		errs = append(errs, err)
		*dst = !v
	}

	str("bodies", &cfg.BodiesFile)
	str("log-level", &cfg.LogLevel)
	str("log-file", &cfg.LogFile)
	str("metrics-addr", &cfg.MetricsAddr)
	num("zoom", &cfg.View.Zoom)
	num("speed", &cfg.View.Speed)
	integer("fps", &cfg.View.FPS)
	integer("pixel-width", &cfg.View.PixelWidth)
	integer("pixel-height", &cfg.View.PixelHeight)
	hide("no-orbits", &cfg.View.ShowOrbits)
	hide("no-stars", &cfg.View.ShowStars)
	hide("no-labels", &cfg.View.ShowLabels)

	return errors.Join(errs...)
}

// newLogger builds the process logger. The TUI owns the terminal, so
// without a log file logs are dropped there.
func newLogger(cfg config.Config, fallback io.Writer) (*logging.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile == "" {
		if fallback == nil {
			return logging.Discard(), io.NopCloser(nil), nil
		}
		return logging.New(level, fallback), io.NopCloser(nil), nil
	}
	f, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(level, f), f, nil
}

// loadRegistry returns the configured body table, or the built-in one.
func loadRegistry(path string, log *logging.Logger) (*bodies.Registry, error) {
	if path == "" {
		return bodies.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open body table: %w", err)
	}
	defer f.Close()

	reg, err := bodies.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range reg.Warnings() {
		log.Warn("%s: %s", path, w)
	}
	log.Debug("loaded %d bodies from %s", reg.Len(), path)
	return reg, nil
}

// newFactService answers with the missing-key fallback when no API key is
// set, without building a client.
func newFactService(cfg config.Facts, log *logging.Logger, m *metrics.Collector) *facts.Service {
	var gen facts.Generator = facts.Static{Err: facts.ErrNoAPIKey}
	if key := cfg.Key(); key != "" {
		gen = facts.NewLLM(key,
			facts.WithBaseURL(cfg.BaseURL),
			facts.WithModel(cfg.Model),
			facts.WithTimeout(cfg.Timeout),
		)
	}
	return facts.NewService(gen,
		facts.WithRate(rate.Limit(cfg.Rate), cfg.Burst),
		facts.WithCacheTTL(cfg.CacheTTL),
		facts.WithLogger(log),
		facts.WithMetrics(m),
	)
}

func sceneOptions(view config.View, log *logging.Logger, m *metrics.Collector) scene.Options {
	return scene.Options{
		Render: render.Options{
			ShowOrbits: view.ShowOrbits,
			ShowStars:  view.ShowStars,
		},
		Zoom:    view.Zoom,
		Speed:   view.Speed,
		Logger:  log,
		Metrics: m,
	}
}

func runTUI(ctx context.Context, cfg config.Config) error {
	log, closer, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg, err := loadRegistry(cfg.BodiesFile, log.Named("bodies"))
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		collector = newCollector()
	}
	if cfg.Facts.Key() == "" {
		log.Info("no API key set, body facts disabled")
	}

	svc := newFactService(cfg.Facts, log.Named("facts"), collector)
	sc := scene.New(reg, sceneOptions(cfg.View, log.Named("scene"), collector))

	g, ctx := errgroup.WithContext(ctx)
	model := ui.New(ctx, sc, svc, ui.Options{View: cfg.View, Logger: log.Named("ui")})
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	if collector != nil {
		log.Info("serving metrics on %s", cfg.MetricsAddr)
		g.Go(func() error {
			return collector.Serve(ctx, cfg.MetricsAddr)
		})
	}

	g.Go(func() error {
		final, err := p.Run()
		if m, ok := final.(ui.Model); ok {
			log.Debug("rendered %d frames", m.Scene().FrameCount())
		}
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run TUI: %w", err)
		}
		return errQuit
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	log.Debug("shutdown complete")
	return nil
}

// newCollector adds Go runtime and process metrics to the orrery metrics.
func newCollector() *metrics.Collector {
	c := metrics.NewCollector()
	c.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// errQuit ends the group when the user leaves the TUI so the metrics
// server shuts down with it.
var errQuit = errors.New("quit")

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version.Version)
		},
	}
}
