package daily_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/colormemory/internal/daily"
	"github.com/robalobadob/colormemory/internal/db"
)

func TestSeedIsStablePerDay(t *testing.T) {
	morning := time.Date(2025, 3, 14, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)
	next := time.Date(2025, 3, 15, 1, 0, 0, 0, time.UTC)

	if daily.Seed(morning, "s") != daily.Seed(evening, "s") {
		t.Fatal("same day should share a seed")
	}
	if daily.Seed(morning, "s") == daily.Seed(next, "s") {
		t.Fatal("different days should differ")
	}
	if daily.Seed(morning, "s") == daily.Seed(morning, "t") {
		t.Fatal("salt should change the seed")
	}
	if daily.Seed(morning, "s") < 0 {
		t.Fatal("seed should be non-negative")
	}
}

func TestSourceRepeatsForSameDate(t *testing.T) {
	day := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	a := daily.Source(day, "salt")
	b := daily.Source(day, "salt")
	for i := 0; i < 20; i++ {
		if ca, cb := a.Next(), b.Next(); ca != cb {
			t.Fatalf("cue %d differs: %s vs %s", i, ca, cb)
		}
	}
}

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("east", 10*3600)
	local := time.Date(2025, 1, 2, 5, 0, 0, 0, loc)
	if got := daily.DateKey(local); got != "2025-01-01" {
		t.Fatalf("got %s", got)
	}
}

func TestStoreLeaderboard(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	s := daily.NewStore(conn)

	results := []daily.Result{
		{OwnerID: "a", Date: "2025-01-01", Score: 4, ElapsedMs: 9000},
		{OwnerID: "b", Date: "2025-01-01", Score: 7, ElapsedMs: 20000},
		{OwnerID: "c", Date: "2025-01-01", Score: 4, ElapsedMs: 5000},
		{OwnerID: "a", Date: "2025-01-02", Score: 9, ElapsedMs: 1000},
	}
	for _, r := range results {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	// Second attempt on the same day is ignored.
	if err := s.InsertResult(ctx, daily.Result{OwnerID: "a", Date: "2025-01-01", Score: 99}); err != nil {
		t.Fatalf("duplicate insert: %v", err)
	}

	played, err := s.AlreadyPlayed(ctx, "a", "2025-01-01")
	if err != nil || !played {
		t.Fatalf("expected played, got %v %v", played, err)
	}
	played, _ = s.AlreadyPlayed(ctx, "b", "2025-01-02")
	if played {
		t.Fatal("b did not play on the 2nd")
	}

	top, err := s.Leaderboard(ctx, "2025-01-01", 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	want := []string{"b", "c", "a"}
	if len(top) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(top))
	}
	for i, id := range want {
		if top[i].OwnerID != id {
			t.Fatalf("rank %d: want %s, got %s", i, id, top[i].OwnerID)
		}
	}
	if top[2].Score != 4 {
		t.Fatalf("duplicate insert overwrote score: %d", top[2].Score)
	}
}
