// Package poller implements the poll-refreshed view controller: fetch a data
// set on start and again on a fixed interval, exposing the latest snapshot to
// handlers. "Live" console views are pollers reading through the backend
// client; there is no push channel.
//
// Invariants:
//   - at most one in-flight fetch per poller (ticks during a fetch are ignored)
//   - stopping the poller cancels the timer and discards any in-flight result
//   - a failed fetch keeps the last-known-good data and notifies exactly once
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"betelgeuse-console/pkg/platform/circuit"
)

// Notifier receives one message per failed fetch cycle.
type Notifier interface {
	Failure(ctx context.Context, source, message string)
}

// Metrics records fetch outcomes. Implemented by the console metrics package;
// kept an interface so poller tests need no prometheus registry.
type Metrics interface {
	ObservePollFetch(name string, success bool)
	ObservePollSkippedTick(name string)
}

// Snapshot is the state a view renders: the last data, the last error, and
// whether a first load is still pending. After the first successful fetch,
// Data always holds the last-known-good value even while Err is set.
type Snapshot[T any] struct {
	Data      T
	Err       error
	LastFetch time.Time
	Loading   bool
	HasData   bool
}

// FetchFunc produces one fresh data set.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Poller drives a FetchFunc at a fixed interval.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	notifier Notifier
	logger   *slog.Logger
	metrics  Metrics
	breaker  *circuit.Breaker

	mu   sync.RWMutex
	snap Snapshot[T]

	refreshCh chan chan struct{}
}

// Option configures a Poller.
type Option[T any] func(*Poller[T])

func WithNotifier[T any](n Notifier) Option[T] {
	return func(p *Poller[T]) { p.notifier = n }
}

func WithMetrics[T any](m Metrics) Option[T] {
	return func(p *Poller[T]) { p.metrics = m }
}

// New builds a poller. It does nothing until Run is called.
func New[T any](name string, interval time.Duration, fetch FetchFunc[T], logger *slog.Logger, opts ...Option[T]) *Poller[T] {
	p := &Poller[T]{
		name:      name,
		interval:  interval,
		fetch:     fetch,
		logger:    logger,
		snap:      Snapshot[T]{Loading: true},
		refreshCh: make(chan chan struct{}, 1),
		breaker:   circuit.New(name, circuit.WithFailureThreshold(1)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches immediately, then on every interval tick or manual refresh,
// until ctx is cancelled. All fetches happen on this goroutine, which is what
// guarantees at most one in-flight fetch: a tick that fires mid-fetch is
// simply not being listened for and is dropped by the ticker.
func (p *Poller[T]) Run(ctx context.Context) error {
	p.runFetch(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.runFetch(ctx)
		case done := <-p.refreshCh:
			p.runFetch(ctx)
			if done != nil {
				close(done)
			}
		}
	}
}

// Refresh schedules an immediate fetch, short-circuiting the interval wait.
// Non-blocking: if a refresh is already queued behind an in-flight fetch, the
// two coalesce.
func (p *Poller[T]) Refresh() {
	select {
	case p.refreshCh <- nil:
	default:
		if p.metrics != nil {
			p.metrics.ObservePollSkippedTick(p.name)
		}
	}
}

// RefreshWait schedules an immediate fetch and blocks until it completes or
// ctx is cancelled. Used by the action dispatcher so a mutation's response is
// only sent once the view data reflects it.
func (p *Poller[T]) RefreshWait(ctx context.Context) {
	done := make(chan struct{})
	select {
	case p.refreshCh <- done:
	case <-ctx.Done():
		return
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Snapshot returns the current view state.
func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

func (p *Poller[T]) runFetch(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	data, err := p.fetch(ctx)
	if ctx.Err() != nil {
		// The poller was stopped while the fetch was outstanding; its result
		// must not be written into state.
		return
	}

	p.mu.Lock()
	p.snap.LastFetch = time.Now()
	p.snap.Loading = false
	if err != nil {
		p.snap.Err = err
	} else {
		p.snap.Data = data
		p.snap.Err = nil
		p.snap.HasData = true
	}
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.ObservePollFetch(p.name, err == nil)
	}
	if err == nil {
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.logger.InfoContext(ctx, "poll fetch recovered", "poller", p.name)
		}
		return
	}

	// Every failed cycle notifies, but repeat failures while the circuit is
	// open drop to debug so an outage does not flood the warn log.
	_, change := p.breaker.RecordFailure()
	if change.Opened {
		p.logger.WarnContext(ctx, "poll fetch failed",
			"poller", p.name,
			"error", err,
		)
	} else {
		p.logger.DebugContext(ctx, "poll fetch still failing",
			"poller", p.name,
			"error", err,
		)
	}
	if p.notifier != nil {
		p.notifier.Failure(ctx, p.name, err.Error())
	}
}
