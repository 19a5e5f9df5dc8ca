// internal/game/engine.go
//
// Core game engine for a single Color Memory session.
// Responsibilities:
//   - Start games and extend the cue sequence by one cue per round.
//   - Hand each new sequence to the presenter (presenter.go).
//   - Accept player input only while collecting; compare it position by
//     position against the sequence.
//   - Track transitions: idle → presenting → collecting → presenting | over.
//   - Report the final score to the best-score collaborator on game over.
//
// Notes:
//   - Engine is not safe for concurrent use. All calls, including scheduler
//     continuations, must run on one logical thread (see internal/sched.Loop).
//   - Cue generation is pluggable (Source) so tests and the daily challenge
//     can fix the sequence.
package game

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormemory/internal/sched"
)

// Scores is the best-score collaborator.
type Scores interface {
	// Load returns the persisted best score, 0 if unavailable.
	Load(ctx context.Context) int
	// Record offers a final score; it returns the resulting best and whether
	// final set a new record.
	Record(ctx context.Context, final int) (best int, newRecord bool)
}

// Options wires an Engine to its collaborators.
type Options struct {
	Context   context.Context // used for score calls; Background if nil
	Sink      Sink            // required
	Scheduler sched.Scheduler // required
	Source    Source          // RandomSource() if nil
	Scores    Scores          // optional; best score stays in memory if nil
	Timings   *Timings        // DefaultTimings() if nil

	// NewSource, if set, supplies a fresh source for every StartGame so each
	// game replays the same stream (daily challenge).
	NewSource func() Source
}

// Engine is the sequence engine plus presenter for one player.
type Engine struct {
	ctx     context.Context
	sink    Sink
	sched   sched.Scheduler
	source  Source
	fresh   func() Source
	scores  Scores
	timings Timings

	sequence   []Cue
	input      []Cue
	score      int
	best       int
	playing    bool
	presenting bool
	over       bool // game-over overlay visible
	gen        int  // bumped by StartGame; stale continuations compare against it
}

// New constructs an idle engine and reads the best score once.
func New(opts Options) *Engine {
	g := &Engine{
		ctx:     opts.Context,
		sink:    opts.Sink,
		sched:   opts.Scheduler,
		source:  opts.Source,
		fresh:   opts.NewSource,
		scores:  opts.Scores,
		timings: DefaultTimings(),
	}
	if g.ctx == nil {
		g.ctx = context.Background()
	}
	if g.source == nil {
		g.source = RandomSource()
	}
	if opts.Timings != nil {
		g.timings = *opts.Timings
	}
	if g.scores != nil {
		g.best = g.scores.Load(g.ctx)
	}
	return g
}

// StartGame resets the session and begins the first round.
func (g *Engine) StartGame() {
	g.gen++
	if g.fresh != nil {
		g.source = g.fresh()
	}
	g.sequence = g.sequence[:0]
	g.input = g.input[:0]
	g.score = 0
	g.playing = true
	g.presenting = false
	g.over = false
	g.NextRound()
}

// NextRound clears the player's input, appends one cue and presents the
// whole sequence.
func (g *Engine) NextRound() {
	if !g.playing {
		return
	}
	g.input = g.input[:0]
	g.sequence = append(g.sequence, g.source.Next())
	g.present(append([]Cue(nil), g.sequence...))
}

// SubmitInput applies one player input. It reports false, changing nothing,
// unless the engine is collecting.
func (g *Engine) SubmitInput(c Cue) bool {
	if !g.playing || g.presenting {
		return false
	}

	g.sink.Activate(c)
	g.sink.PlayTone(c.Tone())
	g.sched.After(g.timings.Feedback, func() { g.sink.Deactivate(c) })

	g.input = append(g.input, c)
	i := len(g.input) - 1
	// Input past the end of the sequence (during the round pause) is a miss.
	if i >= len(g.sequence) || g.input[i] != g.sequence[i] {
		g.gameOver()
		return true
	}

	if len(g.input) == len(g.sequence) {
		g.score++
		g.notify(EventCorrect)
		gen := g.gen
		g.sched.After(g.timings.RoundPause, func() {
			if gen == g.gen {
				g.NextRound()
			}
		})
	}
	return true
}

// gameOver ends the session and records the final score.
func (g *Engine) gameOver() {
	g.playing = false
	g.over = true

	newRecord := false
	if g.score > g.best {
		if g.scores != nil {
			g.best, newRecord = g.scores.Record(g.ctx, g.score)
		} else {
			g.best, newRecord = g.score, true
		}
	}
	log.Debug().Int("score", g.score).Int("best", g.best).Bool("newRecord", newRecord).Msg("game over")

	g.sink.Notify(Event{
		Kind:      EventGameOver,
		Score:     g.score,
		Best:      g.best,
		Round:     len(g.sequence),
		NewRecord: newRecord,
	})
}

// CloseOverlay dismisses the game-over overlay and returns to idle.
// It is a no-op when the overlay is not showing.
func (g *Engine) CloseOverlay() bool {
	if !g.over {
		return false
	}
	g.over = false
	g.notify(EventIdle)
	return true
}

// Restart closes the overlay and starts a new game after a short delay.
func (g *Engine) Restart() {
	g.CloseOverlay()
	gen := g.gen
	g.sched.After(g.timings.Restart, func() {
		if gen == g.gen {
			g.StartGame()
		}
	})
}

// Phase reports the coarse state-machine position.
func (g *Engine) Phase() Phase {
	switch {
	case g.playing && g.presenting:
		return PhasePresenting
	case g.playing:
		return PhaseCollecting
	case g.over:
		return PhaseOver
	}
	return PhaseIdle
}

// Snapshot copies the session state.
func (g *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:       g.Phase(),
		Score:       g.score,
		Best:        g.best,
		Round:       len(g.sequence),
		Entered:     len(g.input),
		IsPlaying:   g.playing,
		Presenting:  g.presenting,
		OverlayOpen: g.over,
		Sequence:    append([]Cue(nil), g.sequence...),
		Input:       append([]Cue(nil), g.input...),
	}
}

func (g *Engine) notify(k EventKind) {
	g.sink.Notify(Event{Kind: k, Score: g.score, Best: g.best, Round: len(g.sequence)})
}
