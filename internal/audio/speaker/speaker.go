// Package speaker plays cue tones on the local audio device via oto.
//
// Audio is optional: if the device cannot be opened the speaker stays
// disabled and every call is a no-op, so gameplay continues silently.
package speaker

import (
	"bytes"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormemory/internal/audio"
)

// Speaker renders tones to the default output device.
type Speaker struct {
	mu      sync.Mutex
	ctx     *oto.Context
	enabled bool
	players []*oto.Player
}

// New opens the audio device. Failure yields a disabled speaker, never an error.
func New() *Speaker {
	s := &Speaker{}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		log.Info().Err(err).Msg("audio not supported, sound disabled")
		return s
	}
	<-ready
	s.ctx = ctx
	s.enabled = true
	return s
}

// Available reports whether an audio device was opened.
func (s *Speaker) Available() bool { return s.ctx != nil }

// Enabled reports whether tones are currently played.
func (s *Speaker) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Toggle flips sound on or off and returns the new state. Without a
// device sound stays off.
func (s *Speaker) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = !s.enabled && s.ctx != nil
	if s.enabled {
		_ = s.ctx.Resume()
	}
	return s.enabled
}

// PlayTone starts a tone at hz without waiting for it to finish.
// Playback errors are logged and ignored.
func (s *Speaker) PlayTone(hz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.ctx == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Interface("panic", r).Msg("audio playback failed")
		}
	}()
	_ = s.ctx.Resume()

	// drop players that have finished
	live := s.players[:0]
	for _, p := range s.players {
		if p.IsPlaying() {
			live = append(live, p)
		} else {
			_ = p.Close()
		}
	}
	s.players = live

	p := s.ctx.NewPlayer(bytes.NewReader(audio.Tone(hz, audio.SampleRate)))
	p.Play()
	if err := p.Err(); err != nil {
		log.Debug().Err(err).Msg("audio playback failed")
		return
	}
	s.players = append(s.players, p)
}
