// internal/gate/gate.go
//
// Input gate for player interactions.
// Responsibilities:
//   - Gesture gate: refuse everything until a human-origin signal was seen.
//   - Rate limit: refuse events closer than MinInterval to the last accepted one.
//   - Sanitize and map free-text / keyboard input onto the cue alphabet.
//
// These are UX heuristics, not a security boundary.

package gate

import (
	"strings"
	"time"

	"github.com/robalobadob/colormemory/internal/game"
)

// DefaultMinInterval is the minimum spacing between accepted events.
const DefaultMinInterval = 100 * time.Millisecond

// Signal is a human-origin interaction that opens the gesture gate.
type Signal string

const (
	SignalPointerMove Signal = "pointermove"
	SignalTouchStart  Signal = "touchstart"
	SignalKeyPress    Signal = "keypress"
)

// Valid reports whether s is a recognised signal.
func (s Signal) Valid() bool {
	switch s {
	case SignalPointerMove, SignalTouchStart, SignalKeyPress:
		return true
	}
	return false
}

// Gate filters raw events before they reach the engine.
// Not safe for concurrent use; a session touches it from its loop only.
type Gate struct {
	MinInterval time.Duration

	now      func() time.Time
	verified bool
	last     time.Time
	accepted bool
}

// New returns a closed gate using the wall clock.
func New(minInterval time.Duration) *Gate {
	return NewWithClock(minInterval, time.Now)
}

// NewWithClock returns a closed gate reading time from now.
func NewWithClock(minInterval time.Duration, now func() time.Time) *Gate {
	if minInterval < 0 {
		minInterval = 0
	}
	return &Gate{MinInterval: minInterval, now: now}
}

// Observe records a human-origin signal. The first valid one opens the gate
// for the rest of the gate's life.
func (g *Gate) Observe(s Signal) {
	if s.Valid() {
		g.verified = true
	}
}

// Verified reports whether a human signal has been seen.
func (g *Gate) Verified() bool { return g.verified }

// Allow reports whether an event arriving now may pass. Accepted events
// become the new rate-limit reference; rejected ones leave it untouched.
func (g *Gate) Allow() bool {
	if !g.verified {
		return false
	}
	t := g.now()
	if g.accepted && t.Sub(g.last) < g.MinInterval {
		return false
	}
	g.last = t
	g.accepted = true
	return true
}

// Sanitize strips < > ' " & from strings; any other value yields "".
func Sanitize(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '\'', '"', '&':
			return -1
		}
		return r
	}, s)
}

// ParseCue sanitizes free text and matches it against the alphabet.
func ParseCue(v any) (game.Cue, bool) {
	c := game.Cue(strings.ToLower(strings.TrimSpace(Sanitize(v))))
	return c, c.Valid()
}
