package draftstore

import (
	"context"
	"sync"
	"time"
)

// memoryStore is the default backend: a guarded map, good enough for a
// single-instance deployment and for tests.
type memoryStore struct {
	mu     sync.Mutex
	drafts map[string]Draft
	now    func() time.Time
}

func NewMemory() Store {
	return &memoryStore{
		drafts: make(map[string]Draft),
		now:    time.Now,
	}
}

func (s *memoryStore) Put(_ context.Context, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = *d
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if d.Expired(s.now()) {
		delete(s.drafts, id)
		return nil, ErrNotFound
	}
	out := d
	return &out, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

func (s *memoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for _, d := range s.drafts {
		if !d.Expired(now) {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) SweepExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, d := range s.drafts {
		if d.Expired(now) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed, nil
}
