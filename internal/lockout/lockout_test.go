package lockout

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type LockoutSuite struct {
	suite.Suite
	clock   time.Time
	service *Service
}

func TestLockoutSuite(t *testing.T) {
	suite.Run(t, new(LockoutSuite))
}

func (s *LockoutSuite) SetupTest() {
	s.clock = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(NewInMemoryStore(), 3, 15*time.Minute, logger,
		WithClock(func() time.Time { return s.clock }))
}

func (s *LockoutSuite) TestThresholdTriggersLock() {
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		triggered, err := s.service.RecordFailure(ctx, "admin")
		s.Require().NoError(err)
		s.False(triggered)

		locked, _, err := s.service.IsLocked(ctx, "admin")
		s.Require().NoError(err)
		s.False(locked)
	}

	triggered, err := s.service.RecordFailure(ctx, "admin")
	s.Require().NoError(err)
	s.True(triggered, "third failure crosses the threshold")

	locked, until, err := s.service.IsLocked(ctx, "admin")
	s.Require().NoError(err)
	s.True(locked)
	s.Equal(s.clock.Add(15*time.Minute), until)
}

func (s *LockoutSuite) TestLockExpires() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.service.RecordFailure(ctx, "admin")
		s.Require().NoError(err)
	}

	s.clock = s.clock.Add(16 * time.Minute)

	locked, _, err := s.service.IsLocked(ctx, "admin")
	s.Require().NoError(err)
	s.False(locked)
}

func (s *LockoutSuite) TestClearResetsCount() {
	ctx := context.Background()
	_, err := s.service.RecordFailure(ctx, "admin")
	s.Require().NoError(err)
	_, err = s.service.RecordFailure(ctx, "admin")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Clear(ctx, "admin"))

	// After a successful login the counter starts over.
	triggered, err := s.service.RecordFailure(ctx, "admin")
	s.Require().NoError(err)
	s.False(triggered)
}

func (s *LockoutSuite) TestIdentifiersAreIndependent() {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.service.RecordFailure(ctx, "admin")
		s.Require().NoError(err)
	}

	locked, _, err := s.service.IsLocked(ctx, "other")
	s.Require().NoError(err)
	s.False(locked)
}

func (s *LockoutSuite) TestStaleFailuresExpire() {
	ctx := context.Background()
	_, err := s.service.RecordFailure(ctx, "admin")
	s.Require().NoError(err)
	_, err = s.service.RecordFailure(ctx, "admin")
	s.Require().NoError(err)

	// Outside the counting window the record resets.
	s.clock = s.clock.Add(failureWindow + time.Minute)

	triggered, err := s.service.RecordFailure(ctx, "admin")
	s.Require().NoError(err)
	s.False(triggered, "stale failures must not count toward the threshold")
}
