// Package ui is the raylib front end: a toolbar, the cell grid and a status line. Clicks on
// the grid become toggle requests to the simulator; the grid is repainted from the
// population every frame.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/patterns"
	"github.com/sheikhrachel/go-life/sim"
	"github.com/sheikhrachel/go-life/ui/layout"
)

const (
	windowTitle = "go-life"
	targetFPS   = 60
)

// toolbar button positions
const (
	btnStart = iota
	btnStep
	btnPause
	btnClear
	btnPattern
)

var (
	colorLive = rl.NewColor(30, 30, 30, 255)
	colorGrid = rl.NewColor(220, 220, 220, 255)
)

// App is the interactive window. Run must be called from the main goroutine.
type App struct {
	sim      *sim.Simulator
	cellSize int
	opts     []model.Option
	logger   *slog.Logger

	grid    layout.Grid
	toolbar layout.Toolbar
	pattern int

	mu        sync.Mutex
	lastEvent string
}

// NewApp builds the window state around s. pattern is the menu index of the layout s was
// seeded with, or -1 for a blank grid; opts are applied to patterns loaded from the menu.
func NewApp(s *sim.Simulator, cellSize, pattern int, logger *slog.Logger, opts ...model.Option) *App {
	a := &App{
		sim:      s,
		cellSize: cellSize,
		opts:     opts,
		logger:   logger,
		pattern:  pattern,
		toolbar:  layout.Toolbar{Widths: []float32{70, 70, 70, 70, 260}},
	}
	a.resize()
	return a
}

// Observe records the latest simulator event for the status line. Register it with
// sim.WithObserver.
func (a *App) Observe(e sim.Event) {
	if _, ok := e.(sim.GenerationComplete); ok {
		return
	}
	a.mu.Lock()
	a.lastEvent = e.String()
	a.mu.Unlock()
}

func (a *App) resize() {
	a.sim.View(func(p *model.Population) {
		a.grid = layout.NewGrid(p.Rows(), p.Columns(), a.cellSize)
	})
}

// Run opens the window and blocks until it is closed or ctx is done
func (a *App) Run(ctx context.Context) error {
	w, h := a.grid.Window(a.toolbar)
	rl.InitWindow(int32(w), int32(h), windowTitle)
	defer rl.CloseWindow()
	rl.SetTargetFPS(targetFPS)

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.handleInput()

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)
		a.drawToolbar()
		a.drawGrid()
		a.drawStatus()
		rl.EndDrawing()
	}
	return nil
}

func (a *App) handleInput() {
	readInput(a.grid).apply(a.sim)
}

func (a *App) button(i int, label string) bool {
	r := a.toolbar.Button(i)
	return gui.Button(rl.Rectangle{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, label)
}

func (a *App) drawToolbar() {
	paused := a.sim.Paused()

	if a.button(btnStart, "START") && paused {
		a.sim.Start()
	}
	if a.button(btnStep, "STEP") && paused {
		a.sim.Step()
	}
	if a.button(btnPause, "PAUSE") && !paused {
		a.sim.Pause()
	}
	if a.button(btnClear, "CLEAR") && paused {
		a.sim.Clear()
	}
	if a.button(btnPattern, a.patternLabel()) {
		a.nextPattern()
	}
}

func (a *App) patternLabel() string {
	if a.pattern < 0 {
		return "Pattern: (none)"
	}
	return "Pattern: " + patterns.Names()[a.pattern]
}

// nextPattern loads the following menu entry. A pattern that fails to decode leaves the
// current population in place.
func (a *App) nextPattern() {
	next := (a.pattern + 1) % len(patterns.Names())
	pop, err := patterns.LoadIndex(next, a.opts...)
	if err != nil {
		a.logger.Error("failed to load pattern", "pattern", patterns.Names()[next], "error", err)
		return
	}
	a.pattern = next
	a.sim.Load(pop)
	a.resize()

	w, h := a.grid.Window(a.toolbar)
	rl.SetWindowSize(w, h)
}

func (a *App) drawGrid() {
	size := int32(a.grid.CellSize)
	a.sim.View(func(p *model.Population) {
		for row := 0; row < p.Rows(); row++ {
			for col := 0; col < p.Columns(); col++ {
				r := a.grid.CellRect(row, col)
				x, y := int32(r.X), int32(r.Y)
				if alive, _ := p.IsAlive(row, col); alive {
					rl.DrawRectangle(x, y, size, size, colorLive)
				}
				rl.DrawRectangleLines(x, y, size, size, colorGrid)
			}
		}
	})
}

func (a *App) drawStatus() {
	var gen, living int
	a.sim.View(func(p *model.Population) {
		gen, living = p.Generation(), p.LivingCells()
	})
	state := "running"
	if a.sim.Paused() {
		state = "paused"
	}

	a.mu.Lock()
	last := a.lastEvent
	a.mu.Unlock()

	x, y := a.grid.StatusOrigin()
	status := fmt.Sprintf("Gen: %d | Living: %d | %s", gen, living, state)
	if last != "" {
		status += " | " + last
	}
	rl.DrawText(status, int32(x), int32(y), 10, rl.DarkGray)
}
