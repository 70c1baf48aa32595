// Package memory keeps the console audit trail in a bounded in-memory ring.
// The default for deployments without a Postgres URL configured.
package memory

import (
	"context"
	"sync"

	"betelgeuse-console/internal/audit"
)

const defaultCapacity = 1000

type InMemoryStore struct {
	mu       sync.RWMutex
	events   []audit.Event
	capacity int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{capacity: defaultCapacity}
}

// WithCapacity overrides the ring size, for tests.
func (s *InMemoryStore) WithCapacity(n int) *InMemoryStore {
	s.capacity = n
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if len(s.events) > s.capacity {
		s.events = s.events[len(s.events)-s.capacity:]
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]audit.Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
