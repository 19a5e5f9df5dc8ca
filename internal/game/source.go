package game

import (
	"math/rand"
	"time"
)

// Source supplies the cue appended at the start of each round.
type Source interface {
	Next() Cue
}

// randSource draws uniformly from Cues.
type randSource struct{ r *rand.Rand }

func (s *randSource) Next() Cue { return Cues[s.r.Intn(len(Cues))] }

// RandomSource returns a time-seeded uniform source.
func RandomSource() Source {
	return &randSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// SeededSource returns a deterministic uniform source; the same seed always
// yields the same cue sequence.
func SeededSource(seed int64) Source {
	return &randSource{r: rand.New(rand.NewSource(seed))}
}

// FixedSource replays cues in order, wrapping around when exhausted.
// An empty script yields Red forever.
type FixedSource struct {
	cues []Cue
	pos  int
}

// NewFixedSource builds a scripted source.
func NewFixedSource(cues ...Cue) *FixedSource {
	return &FixedSource{cues: append([]Cue(nil), cues...)}
}

func (f *FixedSource) Next() Cue {
	if len(f.cues) == 0 {
		return Red
	}
	c := f.cues[f.pos%len(f.cues)]
	f.pos++
	return c
}
