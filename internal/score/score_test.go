package score_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/robalobadob/colormemory/internal/db"
	"github.com/robalobadob/colormemory/internal/score"
)

type failingKV struct{ sets int }

func (f *failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}
func (f *failingKV) Set(context.Context, string, string) error {
	f.sets++
	return errors.New("quota exceeded")
}

func TestLoadParsesLikeParseInt(t *testing.T) {
	ctx := context.Background()
	cases := map[string]int{
		"12":    12,
		" 7 ":   7,
		"15abc": 15,
		"abc":   0,
		"":      0,
		"-4":    0,
		"+3":    3,
	}
	for raw, want := range cases {
		kv := score.NewMemoryKV()
		_ = kv.Set(ctx, score.DefaultKey, raw)
		if got := score.New(kv).Load(ctx); got != want {
			t.Fatalf("Load(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestLoadMissingIsZero(t *testing.T) {
	if got := score.New(score.NewMemoryKV()).Load(context.Background()); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{}
	s := score.New(kv)
	if got := s.Load(ctx); got != 0 {
		t.Fatalf("expected 0 on read failure, got %d", got)
	}
	s.Save(ctx, 9)
	best, rec := s.Record(ctx, 3)
	if best != 3 || !rec {
		t.Fatalf("record should still report the in-game result, got %d %v", best, rec)
	}
	if kv.sets != 2 {
		t.Fatalf("expected 2 attempted writes, got %d", kv.sets)
	}
}

func TestRecordKeepsMax(t *testing.T) {
	ctx := context.Background()
	s := score.New(score.NewMemoryKV())

	if best, rec := s.Record(ctx, 4); best != 4 || !rec {
		t.Fatalf("first record: %d %v", best, rec)
	}
	if best, rec := s.Record(ctx, 2); best != 4 || rec {
		t.Fatalf("lower score: %d %v", best, rec)
	}
	if best, rec := s.Record(ctx, 4); best != 4 || rec {
		t.Fatalf("equal score: %d %v", best, rec)
	}
	if best, rec := s.Record(ctx, 6); best != 6 || !rec {
		t.Fatalf("higher score: %d %v", best, rec)
	}
	if got := s.Load(ctx); got != 6 {
		t.Fatalf("persisted %d", got)
	}
}

func TestSaveOfLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := score.NewMemoryKV()
	_ = kv.Set(ctx, score.DefaultKey, "11")
	s := score.New(kv)

	s.Save(ctx, s.Load(ctx))
	v, ok, _ := kv.Get(ctx, score.DefaultKey)
	if !ok || v != "11" {
		t.Fatalf("round trip changed value to %q", v)
	}
}

func TestForOwnerScopesKeys(t *testing.T) {
	ctx := context.Background()
	kv := score.NewMemoryKV()
	a := score.ForOwner(kv, "alice")
	b := score.ForOwner(kv, "bob")
	a.Save(ctx, 5)
	if b.Load(ctx) != 0 || a.Load(ctx) != 5 {
		t.Fatal("owners share a key")
	}
	if score.ForOwner(kv, "").Key() != score.DefaultKey {
		t.Fatal("empty owner should use the default key")
	}
}

func TestFileKVPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "home", "best.json")

	score.New(score.NewFileKV(path)).Save(ctx, 8)
	if got := score.New(score.NewFileKV(path)).Load(ctx); got != 8 {
		t.Fatalf("expected 8 after reopen, got %d", got)
	}
}

func TestFileKVCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "best.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := score.New(score.NewFileKV(path))
	if got := s.Load(ctx); got != 0 {
		t.Fatalf("corrupt file should load as 0, got %d", got)
	}
	s.Save(ctx, 2)
	if got := s.Load(ctx); got != 2 {
		t.Fatalf("save should recover the file, got %d", got)
	}
}

func TestSQLKV(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	s := score.ForOwner(score.NewSQLKV(conn), "u1")
	if s.Load(ctx) != 0 {
		t.Fatal("expected empty")
	}
	s.Record(ctx, 3)
	s.Record(ctx, 7)
	s.Record(ctx, 5)
	if got := s.Load(ctx); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}
