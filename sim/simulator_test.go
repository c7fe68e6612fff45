package sim

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) states() []State {
	var states []State
	for _, e := range r.snapshot() {
		if sc, ok := e.(StateChange); ok {
			states = append(states, sc.State)
		}
	}
	return states
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSimulator(t *testing.T, pattern string, opts ...Option) (*Simulator, *recorder) {
	t.Helper()
	pop, err := model.FromPattern(strings.Split(strings.TrimSpace(pattern), "\n"))
	if err != nil {
		t.Fatalf("FromPattern: %v", err)
	}
	rec := &recorder{}
	opts = append([]Option{WithObserver(rec.observe), WithLogger(quietLogger())}, opts...)
	return New(pop, opts...), rec
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestToggleEmitsCellFlipped(t *testing.T) {
	s, rec := newTestSimulator(t, "---\n---\n---")

	s.Toggle(1, 1)
	s.Toggle(1, 1)
	s.Toggle(5, 5)

	want := []CellFlipped{
		{Row: 1, Col: 1, Alive: true},
		{Row: 1, Col: 1, Alive: false},
	}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestAnimateAndKillOnlyReportChanges(t *testing.T) {
	s, rec := newTestSimulator(t, "#--\n---\n---")

	s.Animate(0, 0)
	s.Kill(2, 2)
	if n := len(rec.snapshot()); n != 0 {
		t.Fatalf("got %d events for no-op edits, want 0", n)
	}

	s.Kill(0, 0)
	s.Animate(2, 2)
	if n := len(rec.snapshot()); n != 2 {
		t.Fatalf("got %d events, want 2", n)
	}

	s.View(func(p *model.Population) {
		if got, want := p.String(), "---\n---\n--#\n"; got != want {
			t.Errorf("layout = %q, want %q", got, want)
		}
	})
}

func TestStep(t *testing.T) {
	s, rec := newTestSimulator(t, "-----\n--#--\n--#--\n--#--\n-----", WithParallel(true))

	ev := s.Step()
	if ev.Generation != 1 || ev.Living != 3 {
		t.Errorf("Step() = %+v, want generation 1 with 3 alive", ev)
	}
	if s.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", s.Generation())
	}
	s.View(func(p *model.Population) {
		if got, want := p.String(), "-----\n-----\n-###-\n-----\n-----\n"; got != want {
			t.Errorf("layout = %q, want %q", got, want)
		}
	})

	events := rec.snapshot()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if _, ok := events[0].(GenerationComplete); !ok {
		t.Errorf("event = %#v, want GenerationComplete", events[0])
	}
}

func TestStepReportsStagnation(t *testing.T) {
	s, _ := newTestSimulator(t, "----\n-##-\n-##-\n----")

	var last GenerationComplete
	for i := 0; i < 4; i++ {
		last = s.Step()
	}
	if !last.Stagnant {
		t.Error("block should be reported stagnant")
	}

	// an edit starts the history over
	s.Toggle(0, 0)
	if s.Step().Stagnant {
		t.Error("stagnant straight after an edit")
	}
}

func TestRunPauseResume(t *testing.T) {
	s, rec := newTestSimulator(t, "-----\n--#--\n--#--\n--#--\n-----", WithDelay(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	if gen := s.Generation(); gen != 0 {
		t.Fatalf("generation advanced to %d while paused", gen)
	}

	s.Start()
	waitFor(t, "generations to advance", func() bool { return s.Generation() >= 3 })

	s.Pause()
	held := s.Generation()
	time.Sleep(20 * time.Millisecond)
	// at most the step that was in flight when Pause was called
	if gen := s.Generation(); gen > held+1 {
		t.Errorf("generation advanced from %d to %d while paused", held, gen)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	states := rec.states()
	if len(states) != 2 || states[0] != Running || states[1] != Paused {
		t.Errorf("states = %v, want [Running Paused]", states)
	}
}

func (r *recorder) finishedCount() int {
	n := 0
	for _, st := range r.states() {
		if st == Finished {
			n++
		}
	}
	return n
}

func runInBackground(t *testing.T, s *Simulator) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Run() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
}

func TestRunPausesAtMaxGenerations(t *testing.T) {
	s, rec := newTestSimulator(t, "----\n-##-\n-##-\n----", WithDelay(0), WithMaxGenerations(5))
	s.Start()
	runInBackground(t, s)

	waitFor(t, "Finished", func() bool { return rec.finishedCount() == 1 })
	if gen := s.Generation(); gen != 5 {
		t.Errorf("Generation() = %d, want 5", gen)
	}
	if !s.Paused() {
		t.Error("simulator should be paused after finishing")
	}
	states := rec.states()
	if states[len(states)-1] != Finished {
		t.Errorf("states = %v, want trailing Finished", states)
	}
}

func TestRunAnimatesAgainAfterLimit(t *testing.T) {
	blinker := "-----\n--#--\n--#--\n--#--\n-----"
	s, rec := newTestSimulator(t, blinker, WithDelay(0), WithMaxGenerations(2))
	s.Start()
	runInBackground(t, s)
	waitFor(t, "first Finished", func() bool { return rec.finishedCount() == 1 })

	// still at the limit: starting again finishes straight away
	s.Start()
	waitFor(t, "second Finished", func() bool { return rec.finishedCount() == 2 })
	if gen := s.Generation(); gen != 2 {
		t.Errorf("Generation() = %d after restart at the limit, want 2", gen)
	}

	s.Clear()
	s.Toggle(1, 1)
	s.Start()
	waitFor(t, "Clear then Start to finish", func() bool { return rec.finishedCount() == 3 })
	if gen := s.Generation(); gen != 2 {
		t.Errorf("Generation() = %d after Clear and Start, want 2", gen)
	}

	pop, err := model.FromPattern(strings.Split(blinker, "\n"))
	if err != nil {
		t.Fatalf("FromPattern: %v", err)
	}
	s.Load(pop)
	s.Start()
	waitFor(t, "Load then Start to finish", func() bool { return rec.finishedCount() == 4 })
	if gen := s.Generation(); gen != 2 {
		t.Errorf("Generation() = %d after Load and Start, want 2", gen)
	}
}

func TestRunCancelledWhilePaused(t *testing.T) {
	s, _ := newTestSimulator(t, "#")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestLoadPausesAndReplaces(t *testing.T) {
	s, rec := newTestSimulator(t, "##\n##")
	s.Start()

	next, err := model.NewPopulation(3, 4)
	if err != nil {
		t.Fatalf("NewPopulation: %v", err)
	}
	s.Load(next)

	if !s.Paused() {
		t.Error("Load should pause the simulator")
	}
	s.View(func(p *model.Population) {
		if p != next {
			t.Error("View did not see the loaded population")
		}
	})
	states := rec.states()
	want := []State{Running, Paused, PatternLoaded}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("states = %v, want %v", states, want)
			break
		}
	}
}

func TestClear(t *testing.T) {
	s, rec := newTestSimulator(t, "###\n###")
	s.Step()
	s.Clear()

	s.View(func(p *model.Population) {
		if p.LivingCells() != 0 || p.Generation() != 0 {
			t.Errorf("after Clear: living %d, generation %d", p.LivingCells(), p.Generation())
		}
	})
	if states := rec.states(); len(states) != 1 || states[0] != Cleared {
		t.Errorf("states = %v, want [Cleared]", states)
	}
}

func TestStartPauseAreIdempotent(t *testing.T) {
	s, rec := newTestSimulator(t, "#")

	s.Pause()
	s.Start()
	s.Start()
	s.Pause()
	s.Pause()

	states := rec.states()
	if len(states) != 2 || states[0] != Running || states[1] != Paused {
		t.Errorf("states = %v, want [Running Paused]", states)
	}
}

func TestStateString(t *testing.T) {
	if got := PatternLoaded.String(); got != "Pattern Loaded" {
		t.Errorf("PatternLoaded.String() = %q", got)
	}
	if got := State(42).String(); got != "State(42)" {
		t.Errorf("State(42).String() = %q", got)
	}
}
