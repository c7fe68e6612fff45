package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/sheikhrachel/go-life/sim"
	"github.com/sheikhrachel/go-life/ui/layout"
)

// input is what the keyboard and mouse asked for in one frame
type input struct {
	toggleRun bool
	step      bool
	clear     bool
	click     bool
	row, col  int
}

func readInput(grid layout.Grid) input {
	in := input{
		toggleRun: rl.IsKeyPressed(rl.KeySpace),
		step:      rl.IsKeyPressed(rl.KeyN),
		clear:     rl.IsKeyPressed(rl.KeyC),
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		pos := rl.GetMousePosition()
		in.row, in.col, in.click = grid.CellAt(pos.X, pos.Y)
	}
	return in
}

// apply forwards in to s. Step, clear and grid clicks only count while the animation is
// held, including in the frame that starts it.
func (in input) apply(s *sim.Simulator) {
	if in.toggleRun {
		if s.Paused() {
			s.Start()
			return
		}
		s.Pause()
	}
	if !s.Paused() {
		return
	}
	if in.step {
		s.Step()
	}
	if in.clear {
		s.Clear()
	}
	if in.click {
		s.Toggle(in.row, in.col)
	}
}
