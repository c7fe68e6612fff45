package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/patterns"
	"github.com/sheikhrachel/go-life/sim"
	"github.com/sheikhrachel/go-life/utils"
)

func TestInitialPopulation(t *testing.T) {
	config := utils.DefaultConfig()
	config.Pattern = "Toad (period 2 oscillator)"

	pop, i, err := initialPopulation(config)
	if err != nil {
		t.Fatalf("initialPopulation: %v", err)
	}
	if want, _ := patterns.Index(config.Pattern); i != want {
		t.Errorf("index = %d, want %d", i, want)
	}
	if pop.LivingCells() != 6 {
		t.Errorf("LivingCells() = %d, want 6", pop.LivingCells())
	}
}

func TestInitialPopulationBlank(t *testing.T) {
	config := utils.DefaultConfig()
	config.Pattern = ""
	config.Rows, config.Columns = 7, 9
	config.UseMemoryPool = false

	pop, i, err := initialPopulation(config)
	if err != nil {
		t.Fatalf("initialPopulation: %v", err)
	}
	if i != -1 || pop.Rows() != 7 || pop.Columns() != 9 || pop.LivingCells() != 0 {
		t.Errorf("got index %d, %dx%d with %d alive", i, pop.Rows(), pop.Columns(), pop.LivingCells())
	}
}

func TestInitialPopulationUnknownPattern(t *testing.T) {
	config := utils.DefaultConfig()
	config.Pattern = "Blinker"

	if _, _, err := initialPopulation(config); !errors.Is(err, patterns.ErrUnknownPattern) {
		t.Errorf("initialPopulation error = %v, want ErrUnknownPattern", err)
	}
}

func TestCheckStopConditions(t *testing.T) {
	config := utils.DefaultConfig()
	config.StagnationThreshold = 3

	tests := []struct {
		name          string
		stop          bool
		living        int
		stagnantCount int
		want          bool
		reason        string
	}{
		{"disabled", false, 0, 10, false, ""},
		{"active", true, 12, 0, false, ""},
		{"extinct", true, 0, 0, true, "extinction"},
		{"below threshold", true, 4, 2, false, ""},
		{"stagnant", true, 4, 3, true, "stagnation detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.StopOnStagnation = tt.stop
			got, reason := checkStopConditions(tt.living, tt.stagnantCount, config)
			if got != tt.want || reason != tt.reason {
				t.Errorf("checkStopConditions(%d, %d) = %v, %q, want %v, %q", tt.living, tt.stagnantCount, got, reason, tt.want, tt.reason)
			}
		})
	}
}

func TestGameStatus(t *testing.T) {
	tests := []struct {
		gc   sim.GenerationComplete
		want string
	}{
		{sim.GenerationComplete{Living: 0}, "Extinct"},
		{sim.GenerationComplete{Living: 4, Stagnant: true}, "Stagnant"},
		{sim.GenerationComplete{Living: 4}, "Active"},
	}

	for _, tt := range tests {
		if got := gameStatus(tt.gc); got != tt.want {
			t.Errorf("gameStatus(%+v) = %q, want %q", tt.gc, got, tt.want)
		}
	}
}

func headlessConfig(t *testing.T) utils.Config {
	t.Helper()
	config := utils.DefaultConfig()
	config.FrameRate = 0
	config.StatsFile = filepath.Join(t.TempDir(), "stats.csv")
	return config
}

func blockPopulation(t *testing.T) *model.Population {
	t.Helper()
	pop, err := model.FromPattern([]string{"----", "-##-", "-##-", "----"})
	if err != nil {
		t.Fatalf("FromPattern: %v", err)
	}
	return pop
}

func readStatsLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stats: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRunHeadlessStopsOnStagnation(t *testing.T) {
	config := headlessConfig(t)
	config.StopOnStagnation = true
	config.StagnationThreshold = 2

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runHeadless(context.Background(), config, blockPopulation(t), logger); err != nil {
		t.Fatalf("runHeadless() = %v, want nil", err)
	}

	// the history needs three generations before a block reads as stagnant
	lines := readStatsLines(t, config.StatsFile)
	if len(lines) != 5 {
		t.Fatalf("stats has %d lines, want header and 4 rows:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if lines[0] != "generation,living,density,duration_us,stagnant" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[4], "4,4,") || !strings.HasSuffix(lines[4], ",true") {
		t.Errorf("last row = %q, want generation 4 with 4 alive, stagnant", lines[4])
	}
}

func TestRunHeadlessStopsAtGenerationLimit(t *testing.T) {
	config := headlessConfig(t)
	config.MaxGenerations = 3

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runHeadless(context.Background(), config, blockPopulation(t), logger); err != nil {
		t.Fatalf("runHeadless() = %v, want nil", err)
	}
	if lines := readStatsLines(t, config.StatsFile); len(lines) != 4 {
		t.Errorf("stats has %d lines, want header and 3 rows", len(lines))
	}
}

func TestRunHeadlessStatsWriteError(t *testing.T) {
	// writes to /dev/full fail with ENOSPC
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	config := headlessConfig(t)
	config.StatsFile = "/dev/full"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := runHeadless(context.Background(), config, blockPopulation(t), logger)
	if err == nil || errors.Is(err, context.Canceled) {
		t.Errorf("runHeadless() = %v, want the stats write error", err)
	}
}

func TestRunHeadlessInterrupted(t *testing.T) {
	config := headlessConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := runHeadless(ctx, config, blockPopulation(t), logger); !errors.Is(err, context.Canceled) {
		t.Errorf("runHeadless() = %v, want context.Canceled", err)
	}
}
