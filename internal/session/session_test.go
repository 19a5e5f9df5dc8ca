package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/colormemory/internal/game"
	"github.com/robalobadob/colormemory/internal/gate"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Step(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func fastTimings() *game.Timings {
	return &game.Timings{
		LeadIn:     time.Millisecond,
		Gap:        time.Millisecond,
		Hold:       time.Millisecond,
		Feedback:   time.Millisecond,
		RoundPause: 5 * time.Millisecond,
		Restart:    time.Millisecond,
	}
}

func newTestSession(t *testing.T, opts Options) (*Session, *testClock, <-chan Event) {
	t.Helper()
	clk := &testClock{t: time.Unix(1700000000, 0)}
	opts.Now = clk.Now
	if opts.Timings == nil {
		opts.Timings = fastTimings()
	}
	if opts.Source == nil {
		opts.Source = game.NewFixedSource(game.Red)
	}
	s := New(opts)
	events, _ := s.Subscribe()
	t.Cleanup(s.Close)
	return s, clk, events
}

func waitFor(t *testing.T, ch <-chan Event, typ string) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed waiting for %s", typ)
			}
			if ev.Type == typ {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", typ)
		}
	}
}

func mustOK(t *testing.T, ok bool, err error, what string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", what, err)
	}
	if !ok {
		t.Fatalf("%s: rejected", what)
	}
}

func TestStartRequiresHumanSignal(t *testing.T) {
	s, clk, events := newTestSession(t, Options{})

	ok, err := s.Start()
	if err != nil || ok {
		t.Fatalf("start before gesture: ok=%v err=%v", ok, err)
	}
	if err := s.Gesture(gate.SignalPointerMove); err != nil {
		t.Fatal(err)
	}
	ok, err = s.Start()
	mustOK(t, ok, err, "start")
	waitFor(t, events, "ready")

	clk.Step(time.Second)
	ok, err = s.Press(game.Red)
	mustOK(t, ok, err, "press")
	ev := waitFor(t, events, "correct")
	if ev.Score != 1 || ev.Message != "Correct! Score: 1" {
		t.Fatalf("unexpected correct event %+v", ev)
	}
}

func TestRateLimitDropsQuickSecondPress(t *testing.T) {
	s, clk, events := newTestSession(t, Options{})
	_ = s.Gesture(gate.SignalTouchStart)
	ok, err := s.Start()
	mustOK(t, ok, err, "start")
	waitFor(t, events, "ready")

	clk.Step(time.Second)
	ok, err = s.Press(game.Red)
	mustOK(t, ok, err, "round 1 press")
	waitFor(t, events, "correct")
	waitFor(t, events, "ready")

	clk.Step(time.Second)
	ok, err = s.Press(game.Red)
	mustOK(t, ok, err, "round 2 first press")

	clk.Step(50 * time.Millisecond)
	ok, err = s.Press(game.Red)
	if err != nil || ok {
		t.Fatalf("press 50ms later should be dropped: ok=%v err=%v", ok, err)
	}
	snap, _ := s.Snapshot()
	if snap.Entered != 1 || snap.Score != 1 {
		t.Fatalf("engine changed by rejected press: %+v", snap)
	}

	clk.Step(100 * time.Millisecond)
	ok, err = s.Press(game.Red)
	mustOK(t, ok, err, "round 2 second press")
	if ev := waitFor(t, events, "correct"); ev.Score != 2 {
		t.Fatalf("expected score 2, got %d", ev.Score)
	}
}

func TestKeysSubmitAndEscapeCloses(t *testing.T) {
	var results []Result
	var mu sync.Mutex
	s, clk, events := newTestSession(t, Options{
		Owner: "tester",
		OnGameOver: func(r Result) {
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		},
	})

	// A key press is itself a human signal, but an unmapped key does nothing.
	ok, err := s.Key("x")
	if err != nil || ok {
		t.Fatalf("unmapped key: ok=%v err=%v", ok, err)
	}
	ok, err = s.Start()
	mustOK(t, ok, err, "start")
	waitFor(t, events, "ready")

	clk.Step(time.Second)
	ok, err = s.Key("Q")
	mustOK(t, ok, err, "key q")
	waitFor(t, events, "ready")

	clk.Step(time.Second)
	ok, err = s.Key("w") // blue, wrong
	mustOK(t, ok, err, "key w")
	over := waitFor(t, events, "game_over")
	if over.Score != 1 || !over.NewRecord || over.Best != 1 {
		t.Fatalf("unexpected game over %+v", over)
	}

	mu.Lock()
	if len(results) != 1 || results[0].Owner != "tester" || results[0].Score != 1 {
		t.Fatalf("unexpected results %+v", results)
	}
	mu.Unlock()

	ok, err = s.Key("Escape")
	mustOK(t, ok, err, "escape")
	waitFor(t, events, "idle")
	snap, _ := s.Snapshot()
	if snap.Phase != game.PhaseIdle {
		t.Fatalf("expected idle, got %s", snap.Phase)
	}
}

func TestKeyIgnoredWhilePresenting(t *testing.T) {
	slow := fastTimings()
	slow.LeadIn = time.Hour
	s, clk, _ := newTestSession(t, Options{Timings: slow})
	_ = s.Gesture(gate.SignalKeyPress)
	ok, err := s.Start()
	mustOK(t, ok, err, "start")

	clk.Step(time.Second)
	ok, err = s.Key("q")
	if err != nil || ok {
		t.Fatalf("key during presentation: ok=%v err=%v", ok, err)
	}
	ok, err = s.Press(game.Red)
	if err != nil || ok {
		t.Fatalf("press during presentation: ok=%v err=%v", ok, err)
	}
}

type fakeSpeaker struct {
	mu    sync.Mutex
	on    bool
	tones []float64
}

func (f *fakeSpeaker) PlayTone(hz float64) {
	f.mu.Lock()
	f.tones = append(f.tones, hz)
	f.mu.Unlock()
}
func (f *fakeSpeaker) Toggle() bool  { f.on = !f.on; return f.on }
func (f *fakeSpeaker) Enabled() bool { return f.on }

func TestSoundToggleGatesTones(t *testing.T) {
	sp := &fakeSpeaker{on: true}
	s, _, events := newTestSession(t, Options{Speaker: sp})
	_ = s.Gesture(gate.SignalKeyPress)
	ok, err := s.Start()
	mustOK(t, ok, err, "start")
	if ev := waitFor(t, events, "tone"); ev.Hz != game.Red.Tone() {
		t.Fatalf("unexpected tone %v", ev.Hz)
	}
	waitFor(t, events, "ready")

	on, err := s.ToggleSound()
	if err != nil || on {
		t.Fatalf("expected sound off, got %v %v", on, err)
	}
	if ev := waitFor(t, events, "sound"); ev.Sound == nil || *ev.Sound {
		t.Fatalf("unexpected sound event %+v", ev)
	}

	sp.mu.Lock()
	n := len(sp.tones)
	sp.mu.Unlock()
	if n != 1 {
		t.Fatalf("expected one tone on the speaker, got %d", n)
	}
	if s.SoundOn() {
		t.Fatal("session should report sound off")
	}
}

type countingScores struct {
	mu   sync.Mutex
	best int
}

func (c *countingScores) Load(context.Context) int { return c.best }
func (c *countingScores) Record(_ context.Context, final int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if final > c.best {
		c.best = final
		return final, true
	}
	return c.best, false
}

func TestRestartStartsFreshGame(t *testing.T) {
	sc := &countingScores{best: 3}
	s, clk, events := newTestSession(t, Options{Scores: sc})
	_ = s.Gesture(gate.SignalKeyPress)
	ok, err := s.Start()
	mustOK(t, ok, err, "start")
	waitFor(t, events, "ready")

	clk.Step(time.Second)
	ok, err = s.Press(game.Green)
	mustOK(t, ok, err, "wrong press")
	over := waitFor(t, events, "game_over")
	if over.Best != 3 || over.NewRecord {
		t.Fatalf("unexpected game over %+v", over)
	}

	if err := s.Restart(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, events, "idle")
	waitFor(t, events, "ready")
	snap, _ := s.Snapshot()
	if snap.Round != 1 || snap.Score != 0 || snap.Phase != game.PhaseCollecting {
		t.Fatalf("expected fresh game, got %+v", snap)
	}
}

func TestClosedSessionRejectsInput(t *testing.T) {
	s := New(Options{Timings: fastTimings()})
	events, _ := s.Subscribe()
	s.Close()

	if _, err := s.Press(game.Red); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, ok := <-events; ok {
		t.Fatal("subscriber channel should be closed")
	}
	if s.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestPressDuringRoundPauseEndsGame(t *testing.T) {
	timings := fastTimings()
	timings.RoundPause = time.Hour
	s, clk, events := newTestSession(t, Options{Timings: timings})
	_ = s.Gesture(gate.SignalPointerMove)
	ok, err := s.Start()
	mustOK(t, ok, err, "start")
	waitFor(t, events, "ready")

	clk.Step(time.Second)
	ok, err = s.Press(game.Red)
	mustOK(t, ok, err, "winning press")
	waitFor(t, events, "correct")

	clk.Step(time.Second)
	ok, err = s.Key("q")
	mustOK(t, ok, err, "press during pause")
	if ev := waitFor(t, events, "game_over"); ev.Score != 1 {
		t.Fatalf("expected game over with score 1, got %+v", ev)
	}

	// The loop survived and still answers.
	snap, err := s.Snapshot()
	if err != nil || snap.Phase != game.PhaseOver {
		t.Fatalf("snapshot after miss: %+v %v", snap, err)
	}
}
