package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/patterns"
	"github.com/sheikhrachel/go-life/utils"
)

const defaultConfigFile = "config.json"

func main() {
	configPath := flag.String("config", "", "Path to a JSON or YAML config (empty = config.json if present, else defaults)")
	headless := flag.Bool("headless", false, "Run in the terminal instead of opening a window")
	pattern := flag.String("pattern", "", "Starting pattern name (overrides config)")
	blank := flag.Bool("blank", false, "Start from an empty grid")
	maxGenerations := flag.Int("max-generations", -1, "Stop after N generations (-1 = use config, 0 = unlimited)")
	statsOut := flag.String("stats-out", "", "CSV file for per-generation stats")
	listPatterns := flag.Bool("list-patterns", false, "Print the available patterns and exit")

	flag.Parse()

	if *listPatterns {
		for _, name := range patterns.Names() {
			fmt.Println(name)
		}
		return
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *headless {
		config.Headless = true
	}
	if *pattern != "" {
		config.Pattern = *pattern
	}
	if *blank {
		config.Pattern = ""
	}
	if *maxGenerations >= 0 {
		config.MaxGenerations = *maxGenerations
	}
	if *statsOut != "" {
		config.StatsFile = *statsOut
	}

	if err := config.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(config)
	slog.SetDefault(logger)

	pop, patternIndex, err := initialPopulation(config)
	if err != nil {
		logger.Error("failed to create population", "pattern", config.Pattern, "error", err)
		os.Exit(1)
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Headless {
		err = runHeadless(ctx, config, pop, logger)
	} else {
		err = runWindow(ctx, config, pop, patternIndex, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads path, or config.json from the working directory when path is empty,
// falling back to defaults if that file does not exist
func loadConfig(path string) (utils.Config, error) {
	if path != "" {
		return utils.LoadConfig(path)
	}
	if _, err := os.Stat(defaultConfigFile); err != nil {
		return utils.DefaultConfig(), nil
	}
	return utils.LoadConfig(defaultConfigFile)
}

func newLogger(config utils.Config) *slog.Logger {
	// Validate has already rejected unknown levels
	level, _ := config.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if config.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
