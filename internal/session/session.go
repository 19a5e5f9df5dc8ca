// internal/session/session.go
//
// A Session is one player's live game.
// Responsibilities:
//   - Own the engine, its event loop and its input gate.
//   - Route raw interactions (presses, keys, gestures, lifecycle buttons)
//     through the gate and onto the loop.
//   - Fan engine intents out to subscribers (websocket clients, terminal).
//   - Report finished games to an optional hook for persistence.
//
// Everything that touches the engine or gate runs on the session loop, so a
// Session itself is safe for concurrent use.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormemory/internal/game"
	"github.com/robalobadob/colormemory/internal/gate"
	"github.com/robalobadob/colormemory/internal/sched"
)

// ErrClosed is returned for interactions with a closed session.
var ErrClosed = errors.New("session closed")

// Mode distinguishes free play from the daily challenge.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeDaily   Mode = "daily"
)

// Speaker is an optional local audio device.
type Speaker interface {
	PlayTone(hz float64)
	Toggle() bool
	Enabled() bool
}

// Result describes a finished game.
type Result struct {
	SessionID string
	Owner     string
	Mode      Mode
	Date      string
	Score     int
	Best      int
	NewRecord bool
	Elapsed   time.Duration
}

// Options configures a new Session.
type Options struct {
	ID          string // uuid if empty
	Owner       string
	Mode        Mode // ModeClassic if empty
	Date        string
	Source      game.Source
	NewSource   func() game.Source // fresh source per game; overrides Source
	Scores      game.Scores
	Timings     *game.Timings
	MinInterval time.Duration    // gate.DefaultMinInterval if zero
	Now         func() time.Time // gate clock; time.Now if nil
	Speaker     Speaker
	OnGameOver  func(Result) // called on the session loop
}

// Session is a running game bound to its own loop goroutine.
type Session struct {
	ID      string
	Owner   string
	Mode    Mode
	Date    string
	Created time.Time

	loop   *sched.Loop
	cancel context.CancelFunc
	engine *game.Engine
	gate   *gate.Gate
	now    func() time.Time

	speaker    Speaker
	soundOn    bool
	startedAt  time.Time
	onGameOver func(Result)

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// New starts a session loop. Call Close to stop it.
func New(opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Mode == "" {
		opts.Mode = ModeClassic
	}
	if opts.MinInterval == 0 {
		opts.MinInterval = gate.DefaultMinInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:         opts.ID,
		Owner:      opts.Owner,
		Mode:       opts.Mode,
		Date:       opts.Date,
		Created:    opts.Now(),
		loop:       sched.NewLoop(0),
		cancel:     cancel,
		gate:       gate.NewWithClock(opts.MinInterval, opts.Now),
		now:        opts.Now,
		speaker:    opts.Speaker,
		soundOn:    true,
		onGameOver: opts.OnGameOver,
		subs:       make(map[int]chan Event),
	}
	if s.speaker != nil {
		s.soundOn = s.speaker.Enabled()
	}
	s.engine = game.New(game.Options{
		Context:   ctx,
		Sink:      (*fanout)(s),
		Scheduler: s.loop,
		Source:    opts.Source,
		NewSource: opts.NewSource,
		Scores:    opts.Scores,
		Timings:   opts.Timings,
	})
	go s.loop.Run(ctx)
	log.Debug().Str("gameId", s.ID).Str("owner", s.Owner).Str("mode", string(s.Mode)).Msg("session started")
	return s
}

// Close stops the loop; pending timers are dropped and subscribers closed.
func (s *Session) Close() {
	s.cancel()
	<-s.loop.Done()
	s.subMu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.subMu.Unlock()
}

// Done is closed once the session has stopped.
func (s *Session) Done() <-chan struct{} { return s.loop.Done() }

// do runs fn on the loop and waits for it.
func (s *Session) do(fn func()) error {
	if err := s.loop.Do(fn); err != nil {
		return ErrClosed
	}
	return nil
}

// Gesture records a human-origin signal.
func (s *Session) Gesture(sig gate.Signal) error {
	return s.do(func() { s.gate.Observe(sig) })
}

// Start begins a new game if the gate admits the click.
func (s *Session) Start() (bool, error) {
	var ok bool
	err := s.do(func() {
		if !s.gate.Allow() {
			return
		}
		s.engine.StartGame()
		ok = true
	})
	return ok, err
}

// Press is a pointer click (or Enter/Space on a focused button) on cue c.
// It reports whether the engine accepted the input.
func (s *Session) Press(c game.Cue) (bool, error) {
	var ok bool
	err := s.do(func() {
		if !c.Valid() || !s.gate.Allow() {
			return
		}
		ok = s.engine.SubmitInput(c)
	})
	return ok, err
}

// Key is a document-level key press. Any key counts as a human signal;
// Escape closes the overlay; mapped letters/digits submit a cue.
func (s *Session) Key(key string) (bool, error) {
	var ok bool
	err := s.do(func() {
		s.gate.Observe(gate.SignalKeyPress)
		act, c := gate.ResolveKey(key)
		switch act {
		case gate.ActionClose:
			ok = s.engine.CloseOverlay()
		case gate.ActionCue:
			if s.engine.Phase() != game.PhaseCollecting {
				return
			}
			if !s.gate.Allow() {
				return
			}
			ok = s.engine.SubmitInput(c)
		}
	})
	return ok, err
}

// CloseOverlay dismisses the game-over overlay.
func (s *Session) CloseOverlay() (bool, error) {
	var ok bool
	err := s.do(func() { ok = s.engine.CloseOverlay() })
	return ok, err
}

// Restart is the "play again" button.
func (s *Session) Restart() error {
	return s.do(func() { s.engine.Restart() })
}

// ToggleSound flips tone output and returns the new state.
func (s *Session) ToggleSound() (bool, error) {
	var on bool
	err := s.do(func() {
		if s.speaker != nil {
			s.soundOn = s.speaker.Toggle()
		} else {
			s.soundOn = !s.soundOn
		}
		on = s.soundOn
		s.broadcast(Event{Type: TypeSound, Sound: &on})
	})
	return on, err
}

// Snapshot returns the current engine state.
func (s *Session) Snapshot() (game.Snapshot, error) {
	var snap game.Snapshot
	err := s.do(func() { snap = s.engine.Snapshot() })
	return snap, err
}

// SoundOn reports the current sound setting.
func (s *Session) SoundOn() bool {
	var on bool
	_ = s.do(func() { on = s.soundOn })
	return on
}
