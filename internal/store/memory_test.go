package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/colormemory/internal/session"
)

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := session.New(session.Options{})

	if err := st.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("get: %v %v", got, err)
	}
	if st.Len() != 1 {
		t.Fatalf("len %d", st.Len())
	}

	if err := st.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("deleted session still running")
	}
}

func TestExpireRemovesOldSessions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	base := time.Unix(1700000000, 0)

	old := session.New(session.Options{Now: func() time.Time { return base }})
	fresh := session.New(session.Options{Now: func() time.Time { return base.Add(time.Hour) }})
	_ = st.Save(ctx, old)
	_ = st.Save(ctx, fresh)
	defer fresh.Close()

	if n := st.Expire(ctx, base.Add(30*time.Minute)); n != 1 {
		t.Fatalf("expected 1 expired, got %d", n)
	}
	if _, err := st.Get(ctx, old.ID); err == nil {
		t.Fatal("old session still present")
	}
	if _, err := st.Get(ctx, fresh.ID); err != nil {
		t.Fatalf("fresh session removed: %v", err)
	}
}
