package session

import (
	"github.com/robalobadob/colormemory/internal/game"
)

// Event types pushed to subscribers.
const (
	TypeActivate   = "activate"
	TypeDeactivate = "deactivate"
	TypeTone       = "tone"
	TypeSound      = "sound"
)

// Event is one intent or notification, shaped for JSON clients.
// Notification types reuse game.EventKind values.
type Event struct {
	Type      string   `json:"type"`
	Cue       game.Cue `json:"cue,omitempty"`
	Hz        float64  `json:"hz,omitempty"`
	Message   string   `json:"message,omitempty"`
	Score     int      `json:"score"`
	Best      int      `json:"best"`
	Round     int      `json:"round"`
	NewRecord bool     `json:"newRecord,omitempty"`
	Sound     *bool    `json:"sound,omitempty"`
}

// subscriberBuffer bounds how far a subscriber may lag before events drop.
const subscriberBuffer = 128

// Subscribe registers a listener. The returned func unsubscribes; the
// channel is closed on unsubscribe or session close.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

func (s *Session) broadcast(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// fanout adapts a Session to game.Sink. Its methods run on the loop.
type fanout Session

func (f *fanout) Activate(c game.Cue) {
	(*Session)(f).broadcast(Event{Type: TypeActivate, Cue: c})
}

func (f *fanout) Deactivate(c game.Cue) {
	(*Session)(f).broadcast(Event{Type: TypeDeactivate, Cue: c})
}

func (f *fanout) PlayTone(hz float64) {
	s := (*Session)(f)
	if !s.soundOn {
		return
	}
	if s.speaker != nil {
		s.speaker.PlayTone(hz)
	}
	s.broadcast(Event{Type: TypeTone, Hz: hz})
}

func (f *fanout) Notify(e game.Event) {
	s := (*Session)(f)
	if e.Kind == game.EventPresenting && e.Round == 1 {
		s.startedAt = s.now()
	}
	// Persist before subscribers learn the game is over.
	if e.Kind == game.EventGameOver && s.onGameOver != nil {
		s.onGameOver(Result{
			SessionID: s.ID,
			Owner:     s.Owner,
			Mode:      s.Mode,
			Date:      s.Date,
			Score:     e.Score,
			Best:      e.Best,
			NewRecord: e.NewRecord,
			Elapsed:   s.now().Sub(s.startedAt),
		})
	}
	s.broadcast(Event{
		Type:      string(e.Kind),
		Message:   e.Message(),
		Score:     e.Score,
		Best:      e.Best,
		Round:     e.Round,
		NewRecord: e.NewRecord,
	})
}
