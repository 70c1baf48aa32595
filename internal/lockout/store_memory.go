package lockout

import (
	"context"
	"sync"
	"time"
)

// failureWindow is how far back failures still count toward a lockout.
const failureWindow = 30 * time.Minute

// InMemoryStore keeps lockout records in process memory. Lockout state is
// per-replica, which is acceptable: a brute-force attempt hammering one
// replica still gets throttled there.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*Record)}
}

func (s *InMemoryStore) RecordFailure(_ context.Context, identifier string, now time.Time) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identifier]
	if !ok || now.Sub(rec.LastFailure) > failureWindow {
		rec = &Record{Identifier: identifier}
		s.records[identifier] = rec
	}
	rec.Failures++
	rec.LastFailure = now

	copied := *rec
	return &copied, nil
}

func (s *InMemoryStore) Get(_ context.Context, identifier string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identifier]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (s *InMemoryStore) Update(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *rec
	s.records[rec.Identifier] = &copied
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identifier)
	return nil
}
