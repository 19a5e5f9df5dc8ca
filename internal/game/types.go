// internal/game/types.go
//
// Core type definitions for the Color Memory game engine.
// Defines:
//   - Cue: one symbol of the four-color alphabet and its tone.
//   - Phase: coarse lifecycle position of a session.
//   - Event: notifications the engine emits besides highlight/tone intents.
//   - Sink: the render/audio collaborator the engine drives.
//   - Snapshot: a copy of session state for transport and rendering.

package game

import (
	"strconv"
	"time"
)

// Cue is one symbol the player must reproduce.
type Cue string

const (
	Red    Cue = "red"
	Blue   Cue = "blue"
	Green  Cue = "green"
	Yellow Cue = "yellow"
)

// Cues is the fixed alphabet in button order.
var Cues = []Cue{Red, Blue, Green, Yellow}

// Tone returns the cue's tone frequency in Hz (0 for unknown cues).
func (c Cue) Tone() float64 {
	switch c {
	case Red:
		return 329.63
	case Blue:
		return 261.63
	case Green:
		return 392.00
	case Yellow:
		return 523.25
	}
	return 0
}

// Valid reports whether c belongs to the alphabet.
func (c Cue) Valid() bool { return c.Tone() != 0 }

// Phase is the session's position in the round state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePresenting Phase = "presenting"
	PhaseCollecting Phase = "collecting"
	PhaseOver       Phase = "over"
)

// EventKind names an engine notification.
type EventKind string

const (
	EventPresenting EventKind = "presenting" // "Watch the sequence..."
	EventReady      EventKind = "ready"      // "Repeat the sequence!"
	EventCorrect    EventKind = "correct"    // round won
	EventGameOver   EventKind = "game_over"  // mismatch
	EventIdle       EventKind = "idle"       // overlay closed
)

// Event is a notification emitted alongside highlight/tone intents.
type Event struct {
	Kind      EventKind `json:"kind"`
	Score     int       `json:"score"`
	Best      int       `json:"best"`
	Round     int       `json:"round"`
	NewRecord bool      `json:"newRecord,omitempty"`
}

// Message is the status line shown to the player for an event.
func (e Event) Message() string {
	switch e.Kind {
	case EventPresenting:
		return "Watch the sequence..."
	case EventReady:
		return "Repeat the sequence!"
	case EventCorrect:
		return "Correct! Score: " + strconv.Itoa(e.Score)
	case EventGameOver:
		if e.NewRecord {
			return "New High Score! " + strconv.Itoa(e.Score)
		}
		return "Game Over! Score: " + strconv.Itoa(e.Score)
	case EventIdle:
		return "Click Start to Begin!"
	}
	return ""
}

// Sink receives fire-and-forget intents from the engine.
type Sink interface {
	Activate(c Cue)
	Deactivate(c Cue)
	PlayTone(hz float64)
	Notify(e Event)
}

// Timings holds every pacing delay used by the engine.
type Timings struct {
	LeadIn     time.Duration // before the first cue of a presentation
	Gap        time.Duration // before each cue
	Hold       time.Duration // cue highlight duration
	Feedback   time.Duration // highlight on player input
	RoundPause time.Duration // after a won round, before the next
	Restart    time.Duration // between closing the overlay and a new game
}

// DefaultTimings mirrors the pacing of the browser game.
func DefaultTimings() Timings {
	return Timings{
		LeadIn:     500 * time.Millisecond,
		Gap:        200 * time.Millisecond,
		Hold:       600 * time.Millisecond,
		Feedback:   200 * time.Millisecond,
		RoundPause: 1000 * time.Millisecond,
		Restart:    100 * time.Millisecond,
	}
}

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	Phase       Phase `json:"phase"`
	Score       int   `json:"score"`
	Best        int   `json:"best"`
	Round       int   `json:"round"`
	Entered     int   `json:"entered"`
	IsPlaying   bool  `json:"isPlaying"`
	Presenting  bool  `json:"isPresenting"`
	OverlayOpen bool  `json:"overlayOpen"`
	Sequence    []Cue `json:"-"`
	Input       []Cue `json:"-"`
}
