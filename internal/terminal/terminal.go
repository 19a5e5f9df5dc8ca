// Package terminal is a line-oriented front end for a local game.
//
// Each input line is a run of key presses: q w a s or 1 2 3 4 for the cues
// (several may be typed together, e.g. "qwa"), esc to close the game-over
// overlay, and the words start, restart, sound and quit. Highlights and
// messages are printed; tones go to the session speaker.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormemory/internal/game"
	"github.com/robalobadob/colormemory/internal/gate"
	"github.com/robalobadob/colormemory/internal/session"
)

// Options configures Run.
type Options struct {
	In      io.Reader
	Out     io.Writer
	Scores  game.Scores
	Speaker session.Speaker // nil: no audio
	Muted   bool
	Source  game.Source
	Timings *game.Timings
	// MinInterval is the gate rate limit; keys on one line are paced by it.
	MinInterval time.Duration
}

const help = `Color Memory
  start          begin a game
  q w a s / 1-4  red blue green yellow (e.g. "qwa")
  esc            close the game-over overlay
  restart        play again
  sound          toggle sound
  quit           exit`

// Run plays until quit, EOF or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if opts.MinInterval <= 0 {
		opts.MinInterval = gate.DefaultMinInterval
	}
	sess := session.New(session.Options{
		Owner:       "local",
		Source:      opts.Source,
		Scores:      opts.Scores,
		Timings:     opts.Timings,
		MinInterval: opts.MinInterval,
		Speaker:     opts.Speaker,
	})
	events, _ := sess.Subscribe()

	fmt.Fprintln(opts.Out, help)
	if snap, err := sess.Snapshot(); err == nil {
		fmt.Fprintf(opts.Out, "Best: %d\n", snap.Best)
	}
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for ev := range events {
			printEvent(opts.Out, ev)
		}
	}()
	if opts.Muted {
		_, _ = sess.ToggleSound()
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(opts.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	err := loop(ctx, sess, lines, opts.MinInterval)
	sess.Close()
	<-printed
	return err
}

func loop(ctx context.Context, sess *session.Session, lines <-chan string, pace time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := handleLine(sess, line, pace)
			if err != nil || quit {
				return err
			}
		}
	}
}

// handleLine applies one input line and reports whether the player quit.
func handleLine(sess *session.Session, line string, pace time.Duration) (bool, error) {
	for _, tok := range strings.Fields(strings.ToLower(line)) {
		var err error
		switch tok {
		case "quit", "exit":
			return true, nil
		case "start":
			if err = sess.Gesture(gate.SignalKeyPress); err == nil {
				_, err = sess.Start()
			}
		case "restart":
			err = sess.Restart()
		case "sound":
			_, err = sess.ToggleSound()
		case "esc", "escape":
			_, err = sess.Key("escape")
		default:
			for i, r := range tok {
				if i > 0 {
					time.Sleep(pace)
				}
				if _, err = sess.Key(string(r)); err != nil {
					break
				}
			}
		}
		if err != nil {
			return false, err
		}
		time.Sleep(pace)
	}
	return false, nil
}

func printEvent(w io.Writer, ev session.Event) {
	switch ev.Type {
	case session.TypeActivate:
		fmt.Fprintf(w, "  * %s\n", strings.ToUpper(string(ev.Cue)))
	case session.TypeDeactivate, session.TypeTone:
	case session.TypeSound:
		state := "off"
		if ev.Sound != nil && *ev.Sound {
			state = "on"
		}
		fmt.Fprintf(w, "Sound %s\n", state)
	case string(game.EventGameOver):
		fmt.Fprintf(w, "%s  (best %d) - type restart, or esc to close\n", ev.Message, ev.Best)
	default:
		if ev.Message != "" {
			fmt.Fprintln(w, ev.Message)
		} else {
			log.Debug().Str("type", ev.Type).Msg("unhandled event")
		}
	}
}
