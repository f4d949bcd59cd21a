package draft

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process draft store for local/dev use.
type InMemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{drafts: make(map[string]Draft)}
}

func (s *InMemoryStore) Save(_ context.Context, d Draft) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = now
	} else if existing, ok := s.drafts[d.ID]; ok {
		d.CreatedAt = existing.CreatedAt
	} else if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	s.drafts[d.ID] = d
	return d, nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return d, nil
}

func (s *InMemoryStore) List(_ context.Context, userID string, limit int) ([]Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Draft, 0, len(s.drafts))
	for _, d := range s.drafts {
		if userID == "" || d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return ErrNotFound
	}
	delete(s.drafts, id)
	return nil
}

func (s *InMemoryStore) Close() error { return nil }
