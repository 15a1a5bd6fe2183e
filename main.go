package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pthm-cable/ecosim/cli"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/ecology"
	"github.com/pthm-cable/ecosim/simulation"
	"github.com/pthm-cable/ecosim/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config value, then time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (empty = use config)")
	headless := flag.Bool("headless", false, "Run a batch simulation without the menu")
	generations := flag.Int("generations", 0, "Generations for headless runs (0 = use config)")
	safe := flag.Bool("safe", false, "Headless runs simulate a copy of the ecosystem")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *generations > 0 {
		cfg.Simulation.DefaultGenerations = *generations
	}
	if *safe {
		cfg.Simulation.Mode = "safe"
	}
	level := cfg.Derived.LogLevel
	if *logLevel != "" {
		level = config.ParseLogLevel(*logLevel)
	}

	// Logs go to stderr so the console stays readable.
	logger := cli.NewLogger(os.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if err := run(cfg, *headless, logger); err != nil {
		logger.Error("ecosim failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, headless bool, logger *slog.Logger) error {
	rng := ecology.NewRand(cfg.Simulation.Seed)
	eco, err := cli.BuildEcosystem(cfg, rng, logger)
	if err != nil {
		return err
	}

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}
	if out != nil {
		logger.Info("writing telemetry", "dir", out.Dir())
	}
	recorder := telemetry.NewRecorder(cfg.Telemetry, out, logger)

	if headless {
		err = runHeadless(cfg, eco, recorder, logger)
	} else {
		app := cli.NewApp(eco, os.Stdin, os.Stdout, cli.AppOptions{
			Config:   cfg,
			Logger:   logger,
			Rand:     rng,
			Observer: recorder,
			Echo:     !cli.IsTerminal(os.Stdin),
		})
		err = app.Run()
	}
	if err != nil {
		return err
	}
	return recorder.Finish()
}

func runHeadless(cfg *config.Config, eco *ecology.Ecosystem, recorder *telemetry.Recorder, logger *slog.Logger) error {
	mode := simulation.ModePermanent
	if cfg.SafeMode() {
		mode = simulation.ModeSafe
	}
	sim := simulation.Prepare(eco, mode)

	logger.Info("starting headless simulation",
		"run_id", recorder.RunID(),
		"seed", cfg.Simulation.Seed,
		"generations", cfg.Simulation.DefaultGenerations,
		"mode", mode.String(),
		"species", sim.Len(),
	)

	res, err := simulation.Simulate(sim, cfg.Simulation.DefaultGenerations, simulation.Options{
		Observer: recorder,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("simulating: %w", err)
	}

	cli.RenderResult(os.Stdout, res, sim)
	return nil
}
