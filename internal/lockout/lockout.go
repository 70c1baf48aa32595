// Package lockout throttles repeated failed console logins. The backend is
// the authority on credentials; this layer just refuses to relay an obvious
// brute-force attempt against it.
package lockout

import (
	"context"
	"log/slog"
	"time"
)

// Record tracks failed login attempts for one identifier (username).
type Record struct {
	Identifier  string
	Failures    int
	LastFailure time.Time
	LockedUntil time.Time
}

// Store persists lockout records.
type Store interface {
	RecordFailure(ctx context.Context, identifier string, now time.Time) (*Record, error)
	Get(ctx context.Context, identifier string) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Clear(ctx context.Context, identifier string) error
}

// Metrics records lockout activity.
type Metrics interface {
	ObserveLoginFailure()
	ObserveLockout()
}

// Service applies the threshold policy on top of a store.
type Service struct {
	store     Store
	threshold int
	duration  time.Duration
	logger    *slog.Logger
	metrics   Metrics
	now       func() time.Time
}

type Option func(*Service)

func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store Store, threshold int, duration time.Duration, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		threshold: threshold,
		duration:  duration,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsLocked reports whether the identifier is currently locked and until when.
func (s *Service) IsLocked(ctx context.Context, identifier string) (bool, time.Time, error) {
	rec, err := s.store.Get(ctx, identifier)
	if err != nil {
		return false, time.Time{}, err
	}
	if rec == nil {
		return false, time.Time{}, nil
	}
	if rec.LockedUntil.After(s.now()) {
		return true, rec.LockedUntil, nil
	}
	return false, time.Time{}, nil
}

// RecordFailure registers a failed login. Crossing the threshold locks the
// identifier for the configured duration; the returned bool reports whether
// this failure triggered the lock.
func (s *Service) RecordFailure(ctx context.Context, identifier string) (bool, error) {
	now := s.now()
	rec, err := s.store.RecordFailure(ctx, identifier, now)
	if err != nil {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveLoginFailure()
	}
	if rec.Failures < s.threshold {
		return false, nil
	}
	rec.LockedUntil = now.Add(s.duration)
	if err := s.store.Update(ctx, rec); err != nil {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveLockout()
	}
	s.logger.WarnContext(ctx, "login identifier locked",
		"identifier", identifier,
		"failures", rec.Failures,
		"locked_until", rec.LockedUntil,
	)
	return true, nil
}

// Clear resets the failure count after a successful login.
func (s *Service) Clear(ctx context.Context, identifier string) error {
	return s.store.Clear(ctx, identifier)
}
