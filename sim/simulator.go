// Package sim drives a population through time: it serialises edits and generation
// advances behind one lock, runs the animation loop with pause/resume, and reports what
// changed to an observer.
package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sheikhrachel/go-life/model"
)

// Observer receives events. It is called without the simulator lock held, so it may call
// back into the simulator.
type Observer func(Event)

// Simulator owns a population and is safe for concurrent use
type Simulator struct {
	mu      sync.Mutex
	pop     *model.Population
	history model.History
	paused  bool
	resume  chan struct{} // closed when leaving the paused state

	delay          time.Duration
	parallel       bool
	maxGenerations int
	observer       Observer
	logger         *slog.Logger
}

// Option configures a Simulator
type Option func(*Simulator)

// WithDelay sets the pause between generations while running. Zero runs flat out.
func WithDelay(d time.Duration) Option {
	return func(s *Simulator) { s.delay = d }
}

// WithObserver registers the event callback
func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observer = o }
}

// WithParallel evaluates generations over row bands concurrently
func WithParallel(parallel bool) Option {
	return func(s *Simulator) { s.parallel = parallel }
}

// WithMaxGenerations makes Run finish once the population reaches n generations; 0 means
// no limit
func WithMaxGenerations(n int) Option {
	return func(s *Simulator) { s.maxGenerations = n }
}

// WithLogger sets the logger; slog.Default() otherwise
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// New wraps pop. The simulator starts paused.
func New(pop *model.Population, opts ...Option) *Simulator {
	s := &Simulator{
		pop:    pop,
		paused: true,
		resume: make(chan struct{}),
		delay:  40 * time.Millisecond,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) emit(events ...Event) {
	if s.observer == nil {
		return
	}
	for _, e := range events {
		s.observer(e)
	}
}

// View calls fn with the population while holding the lock. fn must not keep the pointer
// or call back into the simulator.
func (s *Simulator) View(fn func(p *model.Population)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.pop)
}

// Generation returns the current generation number
func (s *Simulator) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pop.Generation()
}

// Paused reports whether the animation loop is held
func (s *Simulator) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Toggle flips the cell at (row, col). Off-grid coordinates are ignored.
func (s *Simulator) Toggle(row, col int) {
	s.edit(row, col, func(p *model.Population) { p.ToggleCell(row, col) })
}

// Animate brings the cell at (row, col) to life
func (s *Simulator) Animate(row, col int) {
	s.edit(row, col, func(p *model.Population) { p.AnimateCell(row, col) })
}

// Kill kills the cell at (row, col)
func (s *Simulator) Kill(row, col int) {
	s.edit(row, col, func(p *model.Population) { p.KillCell(row, col) })
}

func (s *Simulator) edit(row, col int, fn func(p *model.Population)) {
	s.mu.Lock()
	before, err := s.pop.IsAlive(row, col)
	if err != nil {
		s.mu.Unlock()
		return
	}
	fn(s.pop)
	after, _ := s.pop.IsAlive(row, col)
	gen := s.pop.Generation()
	if before != after {
		s.history.Reset()
	}
	s.mu.Unlock()

	if before != after {
		s.emit(CellFlipped{Generation: gen, Row: row, Col: col, Alive: after})
	}
}

// Step advances one generation
func (s *Simulator) Step() GenerationComplete {
	s.mu.Lock()
	start := time.Now()
	s.history.Record(s.pop)
	if s.parallel {
		s.pop.NextGenerationParallel(0)
	} else {
		s.pop.NextGeneration()
	}
	ev := GenerationComplete{
		Generation: s.pop.Generation(),
		Living:     s.pop.LivingCells(),
		Duration:   time.Since(start),
		Stagnant:   s.history.IsStagnant(s.pop),
	}
	s.mu.Unlock()

	s.emit(ev)
	return ev
}

// Start lets the animation loop run. It is a no-op when already running.
func (s *Simulator) Start() {
	s.mu.Lock()
	if !s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = false
	close(s.resume)
	gen := s.pop.Generation()
	s.mu.Unlock()

	s.logger.Info("simulation running", "generation", gen)
	s.emit(StateChange{Generation: gen, State: Running})
}

// Pause holds the animation loop before its next generation
func (s *Simulator) Pause() {
	s.mu.Lock()
	if !s.pauseLocked() {
		s.mu.Unlock()
		return
	}
	gen := s.pop.Generation()
	s.mu.Unlock()

	s.logger.Info("simulation paused", "generation", gen)
	s.emit(StateChange{Generation: gen, State: Paused})
}

func (s *Simulator) pauseLocked() bool {
	if s.paused {
		return false
	}
	s.paused = true
	s.resume = make(chan struct{})
	return true
}

// Clear kills every cell and resets the generation count
func (s *Simulator) Clear() {
	s.mu.Lock()
	s.pop.Clear()
	s.history.Reset()
	s.mu.Unlock()

	s.logger.Info("population cleared")
	s.emit(StateChange{Generation: 0, State: Cleared})
}

// Load swaps in a new population, e.g. a freshly decoded pattern, and pauses
func (s *Simulator) Load(pop *model.Population) {
	s.mu.Lock()
	s.pop = pop
	s.history.Reset()
	wasRunning := s.pauseLocked()
	s.mu.Unlock()

	s.logger.Info("population loaded", "rows", pop.Rows(), "columns", pop.Columns(), "living", pop.LivingCells())
	if wasRunning {
		s.emit(StateChange{Generation: pop.Generation(), State: Paused})
	}
	s.emit(StateChange{Generation: pop.Generation(), State: PatternLoaded})
}

// waitWhilePaused blocks until the simulator is running or ctx is done
func (s *Simulator) waitWhilePaused(ctx context.Context) error {
	for {
		s.mu.Lock()
		if !s.paused {
			s.mu.Unlock()
			return nil
		}
		resume := s.resume
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-resume:
		}
	}
}

// finishLocked pauses at the generation limit. Clear and Load start the count over, so a
// fresh layout animates again after the limit was hit.
func (s *Simulator) finishLocked() bool {
	if s.maxGenerations <= 0 || s.pop.Generation() < s.maxGenerations {
		return false
	}
	s.pauseLocked()
	return true
}

// Run is the animation loop. It advances one generation per tick while not paused and
// returns ctx.Err() once ctx is done. Reaching the generation limit pauses the loop and
// emits Finished; Run keeps waiting for the next Start.
func (s *Simulator) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if s.delay > 0 {
		ticker := time.NewTicker(s.delay)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if err := s.waitWhilePaused(ctx); err != nil {
			return err
		}

		s.mu.Lock()
		done := s.finishLocked()
		gen := s.pop.Generation()
		s.mu.Unlock()
		if done {
			s.logger.Info("generation limit reached", "generation", gen)
			s.emit(StateChange{Generation: gen, State: Finished})
			continue
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		// a pause may have arrived while waiting for the tick
		if s.Paused() {
			continue
		}
		s.Step()
	}
}
