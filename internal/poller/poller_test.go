package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type PollerSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestPollerSuite(t *testing.T) {
	suite.Run(t, new(PollerSuite))
}

func (s *PollerSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingNotifier collects failure notifications.
type recordingNotifier struct {
	mu       sync.Mutex
	failures []string
}

func (n *recordingNotifier) Failure(_ context.Context, source, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, source+": "+message)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.failures)
}

func (s *PollerSuite) TestInitialFetchAndSnapshot() {
	fetched := make(chan struct{}, 1)
	p := New("test", time.Hour, func(ctx context.Context) (int, error) {
		select {
		case fetched <- struct{}{}:
		default:
		}
		return 42, nil
	}, s.logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		s.FailNow("initial fetch never ran")
	}

	s.Eventually(func() bool {
		snap := p.Snapshot()
		return snap.HasData && snap.Data == 42 && !snap.Loading
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	s.ErrorIs(<-done, context.Canceled)
}

func (s *PollerSuite) TestFailureKeepsLastKnownGood() {
	var calls atomic.Int32
	notifier := &recordingNotifier{}

	p := New("dashboard", time.Hour, func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "good", nil
		}
		return "", errors.New("backend unreachable")
	}, s.logger, WithNotifier[string](notifier))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	s.Eventually(func() bool { return p.Snapshot().HasData }, 2*time.Second, 10*time.Millisecond)

	rctx, rcancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer rcancel()
	p.RefreshWait(rctx)

	snap := p.Snapshot()
	s.Equal("good", snap.Data, "stale data must survive a failed fetch")
	s.Error(snap.Err)
	s.True(snap.HasData)
	s.Equal(1, notifier.count(), "exactly one notification per failed cycle")
}

func (s *PollerSuite) TestStopDiscardsInFlightResult() {
	started := make(chan struct{})
	release := make(chan struct{})

	p := New("slow", time.Hour, func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 99, nil
	}, s.logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	<-started
	cancel()
	close(release)
	<-done

	// The fetch completed after cancellation; its result must not appear.
	snap := p.Snapshot()
	s.False(snap.HasData)
	s.True(snap.Loading)
}

func (s *PollerSuite) TestRefreshCoalesces() {
	var calls atomic.Int32
	block := make(chan struct{})

	p := New("coalesce", time.Hour, func(ctx context.Context) (int, error) {
		n := int(calls.Add(1))
		if n == 1 {
			<-block
		}
		return n, nil
	}, s.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	// While the first fetch is blocked, pile on refresh requests. The buffered
	// channel holds one; the rest coalesce into it.
	for i := 0; i < 10; i++ {
		p.Refresh()
	}
	close(block)

	s.Eventually(func() bool { return p.Snapshot().HasData }, 2*time.Second, 10*time.Millisecond)

	// Allow the queued refresh to drain, then confirm the burst produced at
	// most one extra fetch.
	s.Eventually(func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	s.LessOrEqual(calls.Load(), int32(3))
}

func (s *PollerSuite) TestRefreshWaitReturnsAfterFetch() {
	var calls atomic.Int32
	p := New("wait", time.Hour, func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}, s.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	s.Eventually(func() bool { return p.Snapshot().HasData }, 2*time.Second, 10*time.Millisecond)
	before := p.Snapshot().Data

	rctx, rcancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer rcancel()
	p.RefreshWait(rctx)

	s.Greater(p.Snapshot().Data, before)
}
