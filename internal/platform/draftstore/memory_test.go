package draftstore

import (
	"context"
	"testing"
	"time"
)

func newTestStore(now time.Time) (*memoryStore, *time.Time) {
	clock := now
	s := &memoryStore{
		drafts: make(map[string]Draft),
		now:    func() time.Time { return clock },
	}
	return s, &clock
}

func TestMemory_PutGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Now())

	d := &Draft{ID: "d1", Etapa: 2, Payload: []byte(`{"familia":"Fabaceae"}`), ExpiresAt: time.Now().Add(time.Hour)}
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Etapa != 2 || string(got.Payload) != `{"familia":"Fabaceae"}` {
		t.Fatalf("unexpected draft: %+v", got)
	}
}

func TestMemory_GetMissing(t *testing.T) {
	s, _ := newTestStore(time.Now())
	if _, err := s.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_ExpiredDraftIsGone(t *testing.T) {
	ctx := context.Background()
	start := time.Now()
	s, clock := newTestStore(start)

	d := &Draft{ID: "d1", ExpiresAt: start.Add(time.Hour)}
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("put: %v", err)
	}

	*clock = start.Add(2 * time.Hour)
	if _, err := s.Get(ctx, "d1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestMemory_SweepExpired(t *testing.T) {
	ctx := context.Background()
	start := time.Now()
	s, clock := newTestStore(start)

	_ = s.Put(ctx, &Draft{ID: "live", ExpiresAt: start.Add(time.Hour)})
	_ = s.Put(ctx, &Draft{ID: "old1", ExpiresAt: start.Add(time.Minute)})
	_ = s.Put(ctx, &Draft{ID: "old2", ExpiresAt: start.Add(time.Minute)})

	*clock = start.Add(30 * time.Minute)
	removed, err := s.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, err := s.Get(ctx, "live"); err != nil {
		t.Fatalf("live draft should survive sweep: %v", err)
	}
}

func TestMemory_CountSkipsExpired(t *testing.T) {
	ctx := context.Background()
	start := time.Now()
	s, clock := newTestStore(start)

	_ = s.Put(ctx, &Draft{ID: "a", ExpiresAt: start.Add(time.Hour)})
	_ = s.Put(ctx, &Draft{ID: "b", ExpiresAt: start.Add(time.Minute)})

	*clock = start.Add(10 * time.Minute)
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 live draft, got %d", n)
	}
}

func TestMemory_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(time.Now())
	_ = s.Put(ctx, &Draft{ID: "d", ExpiresAt: time.Now().Add(time.Hour)})
	if err := s.Delete(ctx, "d"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "d"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
