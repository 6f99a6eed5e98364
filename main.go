package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pthm-cable/dnagrid/config"
	"github.com/pthm-cable/dnagrid/game"
	"github.com/pthm-cable/dnagrid/server"
	"github.com/pthm-cable/dnagrid/telemetry"
	"github.com/pthm-cable/dnagrid/viewer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	serve := flag.Bool("serve", false, "Serve the websocket control protocol instead of opening a window")
	addr := flag.String("addr", "", "Listen address for -serve (empty = use config)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, snapshots and config")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	priority := flag.String("priority", "", `Seed every agent with a ranked genome, e.g. "food > empty > opposite"`)
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *priority != "" {
		cfg.Population.Priority = *priority
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config", "error", err)
	}

	opts := []game.Option{
		game.WithSeed(rngSeed),
		game.WithOutput(output),
		game.WithLogStats(*logStats),
	}
	if cfg.Telemetry.EventLog && output != nil {
		events := telemetry.NewEventLog(filepath.Join(output.Dir(), "events"))
		defer events.Close()
		opts = append(opts, game.WithEventLog(events))
	}

	switch {
	case *serve:
		err = runServer(cfg, opts)
	case *headless:
		err = runHeadless(cfg, opts, rngSeed, *maxTicks)
	default:
		err = runViewer(cfg, opts, *maxTicks)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func runHeadless(cfg *config.Config, opts []game.Option, seed int64, maxTicks int) error {
	w, err := game.NewFromConfig(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.FlushEvents(); err != nil {
			slog.Warn("failed to flush event log", "error", err)
		}
	}()

	slog.Info("starting headless simulation",
		"seed", seed,
		"width", w.Width(),
		"height", w.Height(),
		"agents", w.Population(),
		"max_ticks", maxTicks,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for ctx.Err() == nil {
		w.Tick()

		if w.Population() == 0 {
			slog.Info("population extinct", "tick", w.CurrentTick())
			return nil
		}
		if maxTicks > 0 && w.CurrentTick() >= uint64(maxTicks) {
			slog.Info("max ticks reached", "tick", w.CurrentTick(), "population", w.Population())
			return nil
		}
	}
	slog.Info("interrupted", "tick", w.CurrentTick())
	return nil
}

func runServer(cfg *config.Config, opts []game.Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := server.NewRunner(cfg, opts...)
	runErr := make(chan error, 1)
	go func() { runErr <- runner.Run(ctx) }()

	if err := server.New(runner).ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		stop()
		<-runErr
		return fmt.Errorf("serve: %w", err)
	}
	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runViewer(cfg *config.Config, opts []game.Option, maxTicks int) error {
	v, err := viewer.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := v.World().FlushEvents(); err != nil {
			slog.Warn("failed to flush event log", "error", err)
		}
	}()
	v.Run(maxTicks)
	return nil
}
