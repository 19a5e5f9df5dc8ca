// Package daily derives the shared cue sequence of the daily challenge.
//
// Every player gets the same sequence on a given UTC date: the date key is
// HMAC'd with a server salt and the digest seeds the cue source.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/colormemory/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for a date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes, sign bit cleared
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}

// Source returns the cue source for the challenge on date.
func Source(date time.Time, salt string) game.Source {
	return game.SeededSource(Seed(date, salt))
}
