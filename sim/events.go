package sim

import (
	"fmt"
	"time"
)

// State is a lifecycle stage of the simulator
type State int

const (
	Paused State = iota
	Running
	Cleared
	PatternLoaded
	Finished
)

func (s State) String() string {
	switch s {
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	case Cleared:
		return "Cleared"
	case PatternLoaded:
		return "Pattern Loaded"
	case Finished:
		return "Finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event is anything the simulator reports to its observer
type Event interface {
	fmt.Stringer
	GenerationNumber() int
}

// CellFlipped is sent when a toggle request actually changed a cell
type CellFlipped struct {
	Generation int
	Row, Col   int
	Alive      bool
}

// GenerationComplete is sent after every generation advance
type GenerationComplete struct {
	Generation int
	Living     int
	Duration   time.Duration
	// Stagnant is set when the new layout repeats one of the last few
	Stagnant bool
}

// StateChange is sent when the simulator is started, paused, cleared, reloaded or finishes
type StateChange struct {
	Generation int
	State      State
}

func (e CellFlipped) GenerationNumber() int        { return e.Generation }
func (e GenerationComplete) GenerationNumber() int { return e.Generation }
func (e StateChange) GenerationNumber() int        { return e.Generation }

func (e CellFlipped) String() string {
	if e.Alive {
		return fmt.Sprintf("cell (%d, %d) on", e.Row, e.Col)
	}
	return fmt.Sprintf("cell (%d, %d) off", e.Row, e.Col)
}

func (e GenerationComplete) String() string {
	return fmt.Sprintf("generation %d: %d alive", e.Generation, e.Living)
}

func (e StateChange) String() string {
	return e.State.String()
}
