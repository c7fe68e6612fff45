package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/patterns"
	"github.com/sheikhrachel/go-life/sim"
	"github.com/sheikhrachel/go-life/ui"
	"github.com/sheikhrachel/go-life/utils"
)

var (
	errStagnant     = errors.New("population stagnant")
	errLimitReached = errors.New("generation limit reached")
)

// populationOptions returns the model options implied by config
func populationOptions(config utils.Config) []model.Option {
	if !config.UseMemoryPool {
		return nil
	}
	return []model.Option{model.WithPool(model.NewCellPool())}
}

// initialPopulation builds the starting population: the configured pattern, or a blank
// Rows×Columns grid when no pattern is set. The returned index is the pattern's menu
// position, -1 for a blank grid.
func initialPopulation(config utils.Config) (*model.Population, int, error) {
	opts := populationOptions(config)
	if config.Pattern == "" {
		pop, err := model.NewPopulation(config.Rows, config.Columns, opts...)
		return pop, -1, err
	}

	i, err := patterns.Index(config.Pattern)
	if err != nil {
		return nil, -1, err
	}
	pop, err := patterns.LoadIndex(i, opts...)
	if err != nil {
		return nil, -1, err
	}
	return pop, i, nil
}

func simulatorOptions(config utils.Config, logger *slog.Logger, observer sim.Observer) []sim.Option {
	return []sim.Option{
		sim.WithDelay(config.FrameRate),
		sim.WithParallel(config.UseParallel),
		sim.WithMaxGenerations(config.MaxGenerations),
		sim.WithLogger(logger),
		sim.WithObserver(observer),
	}
}

// runWindow opens the raylib front end on the calling goroutine and runs the animation
// loop beside it
func runWindow(ctx context.Context, config utils.Config, pop *model.Population, patternIndex int, logger *slog.Logger) error {
	var app *ui.App
	observer := func(e sim.Event) {
		if _, ok := e.(sim.GenerationComplete); !ok {
			logger.Debug("simulator event", "generation", e.GenerationNumber(), "event", e.String())
		}
		app.Observe(e)
	}

	s := sim.New(pop, simulatorOptions(config, logger, observer)...)
	app = ui.NewApp(s, config.CellSize, patternIndex, logger, populationOptions(config)...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.Run(ctx)
	})

	err := app.Run(ctx)
	cancel()
	if werr := eg.Wait(); werr != nil && !errors.Is(werr, context.Canceled) {
		return werr
	}
	return err
}

// runHeadless animates the population in the terminal until interrupted, the generation
// limit is reached, or (when configured) the population stagnates
func runHeadless(ctx context.Context, config utils.Config, pop *model.Population, logger *slog.Logger) error {
	statsWriter, err := utils.NewStatsWriter(config.StatsFile)
	if err != nil {
		return err
	}
	defer statsWriter.Close()

	var (
		stats         = utils.NewStats()
		renderer      = &model.TerminalRenderer{}
		cells         = pop.Rows() * pop.Columns()
		stagnantCount = 0
		s             *sim.Simulator
	)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	observer := func(e sim.Event) {
		if sc, ok := e.(sim.StateChange); ok && sc.State == sim.Finished {
			cancel(errLimitReached)
			return
		}
		gc, ok := e.(sim.GenerationComplete)
		if !ok {
			return
		}

		if gc.Stagnant {
			stagnantCount++
		} else {
			stagnantCount = 0
		}
		stats.Update(gc.Generation, gc.Living, gc.Duration)

		renderer.Clear()
		displayGameStatus(gc, cells, stats)
		s.View(func(p *model.Population) {
			if err := renderer.Display(os.Stdout, p); err != nil {
				logger.Warn("failed to draw frame", "error", err)
			}
		})

		rec := utils.GenerationRecord{
			Generation: gc.Generation,
			Living:     gc.Living,
			Density:    float64(gc.Living) / float64(cells),
			DurationUS: gc.Duration.Microseconds(),
			Stagnant:   gc.Stagnant,
		}
		if err := statsWriter.Write(rec); err != nil {
			cancel(err)
			return
		}

		if stop, reason := checkStopConditions(gc.Living, stagnantCount, config); stop {
			logger.Info("stopping", "reason", reason, "generation", gc.Generation)
			cancel(errStagnant)
		}
	}

	s = sim.New(pop, simulatorOptions(config, logger, observer)...)
	displayGameInfo(config, pop)
	s.Start()

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.Run(gctx)
	})
	err = eg.Wait()

	logSummary(logger, stats.Summary())

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		if errors.Is(cause, errStagnant) || errors.Is(cause, errLimitReached) {
			return nil
		}
		return cause
	}
	return err
}

// displayGameInfo shows the initial game information
func displayGameInfo(config utils.Config, pop *model.Population) {
	fmt.Printf("Features: Memory Pool: %v, Parallel: %v\n", config.UseMemoryPool, config.UseParallel)
	fmt.Printf("Grid: %dx%d | Initial living cells: %d\n", pop.Rows(), pop.Columns(), pop.LivingCells())
	fmt.Println("Press Ctrl+C to exit gracefully")
	fmt.Println()
}

// gameStatus labels a generation for the status line
func gameStatus(gc sim.GenerationComplete) string {
	switch {
	case gc.Living == 0:
		return "Extinct"
	case gc.Stagnant:
		return "Stagnant"
	default:
		return "Active"
	}
}

// displayGameStatus shows the current game status
func displayGameStatus(gc sim.GenerationComplete, cells int, stats *utils.Stats) {
	density := float64(gc.Living) / float64(cells) * 100

	fmt.Printf("Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		gc.Generation, gc.Living, density, gameStatus(gc))
	fmt.Printf("Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		stats.GenerationsPerSecond, stats.AveragePopulation, time.Since(stats.StartTime).Seconds())
	fmt.Println()
}

// checkStopConditions determines if a headless run should end early
func checkStopConditions(livingCells, stagnantCount int, config utils.Config) (bool, string) {
	if !config.StopOnStagnation {
		return false, ""
	}
	if livingCells == 0 {
		return true, "extinction"
	}
	if stagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

func logSummary(logger *slog.Logger, sum utils.Summary) {
	logger.Info("run finished",
		"generations", sum.Generations,
		"runtime", sum.Runtime.Round(time.Millisecond),
		"gen_per_sec", fmt.Sprintf("%.1f", sum.GenerationsPerSec),
		"mean_population", fmt.Sprintf("%.1f", sum.MeanPopulation),
		"stddev_population", fmt.Sprintf("%.1f", sum.StdDevPopulation),
		"peak_population", sum.PeakPopulation,
		"final_population", sum.FinalPopulation,
	)
}
