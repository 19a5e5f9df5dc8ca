// internal/score/score.go
//
// Best-score persistence.
// Responsibilities:
//   - Store: load/save/record a single best score under one key.
//   - KV: the key-value backend contract (memory, JSON file, SQLite).
//
// Persistence is best effort. Read failures look like "no best score",
// write failures are logged and swallowed; neither reaches the player.

package score

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultKey is the storage key for the best score.
const DefaultKey = "colorMemoryBestScore"

// KV is a durable string key-value store.
type KV interface {
	// Get returns the value for key; ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
}

// Store reads and writes one best score.
type Store struct {
	kv  KV
	key string
}

// New returns a Store over kv using DefaultKey.
func New(kv KV) *Store { return &Store{kv: kv, key: DefaultKey} }

// ForOwner returns a Store whose key is scoped to owner.
func ForOwner(kv KV, owner string) *Store {
	if owner == "" {
		return New(kv)
	}
	return &Store{kv: kv, key: DefaultKey + ":" + owner}
}

// Key reports the storage key.
func (s *Store) Key() string { return s.key }

// Load returns the persisted best score, or 0 if it is absent, corrupt,
// negative or the backend fails.
func (s *Store) Load(ctx context.Context) int {
	v, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("load best score")
		return 0
	}
	if !ok {
		return 0
	}
	return parseScore(v)
}

// Save persists v. Failures are logged, not returned.
func (s *Store) Save(ctx context.Context, v int) {
	if v < 0 {
		v = 0
	}
	if err := s.kv.Set(ctx, s.key, strconv.Itoa(v)); err != nil {
		log.Warn().Err(err).Str("key", s.key).Int("score", v).Msg("could not save best score")
	}
}

// Record compares final against the stored best and saves it if higher.
// It returns the resulting best and whether final is a new record.
func (s *Store) Record(ctx context.Context, final int) (int, bool) {
	prev := s.Load(ctx)
	if final <= prev {
		return prev, false
	}
	s.Save(ctx, final)
	return final, true
}

// parseScore reads leading decimal digits after optional whitespace and
// sign, the way the browser's parseInt did. Anything unusable is 0.
func parseScore(v string) int {
	v = strings.TrimSpace(v)
	neg := false
	if v != "" && (v[0] == '+' || v[0] == '-') {
		neg = v[0] == '-'
		v = v[1:]
	}
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 || neg {
		return 0
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}
