package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"betelgeuse-console/pkg/requestcontext"
)

type PublisherSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func (s *PublisherSuite) TestEnrichmentFromContext() {
	p := NewPublisher(4, s.logger)

	ctx := requestcontext.WithRequestID(context.Background(), "req-1")
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.9", chromeUA)

	p.Publish(ctx, Event{Action: ActionLogin, Actor: "admin"})

	select {
	case ev := <-p.Inbox():
		s.Equal("req-1", ev.RequestID)
		s.Equal("203.0.113.9", ev.ClientIP)
		s.Equal(chromeUA, ev.UserAgent)
		s.Contains(ev.Browser, "Chrome")
		s.Equal("Windows 10", ev.OS)
		s.Equal(CategorySecurity, ev.Category)
		s.False(ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		s.FailNow("event never reached the inbox")
	}
}

func (s *PublisherSuite) TestCategoryDerivedFromAction() {
	p := NewPublisher(4, s.logger)

	p.Publish(context.Background(), Event{Action: ActionOperatorPaused, Actor: "admin"})

	ev := <-p.Inbox()
	s.Equal(CategoryOperations, ev.Category)
}

func (s *PublisherSuite) TestFullInboxDropsInsteadOfBlocking() {
	p := NewPublisher(1, s.logger)

	p.Publish(context.Background(), Event{Action: ActionLogin, Actor: "first"})
	// Inbox is full; this must return immediately instead of blocking the
	// request goroutine.
	done := make(chan struct{})
	go func() {
		p.Publish(context.Background(), Event{Action: ActionLogin, Actor: "second"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.FailNow("publish blocked on a full inbox")
	}

	ev := <-p.Inbox()
	s.Equal("first", ev.Actor)
}

func (s *PublisherSuite) TestExplicitFieldsPreserved() {
	p := NewPublisher(4, s.logger)
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	p.Publish(context.Background(), Event{
		Action:    ActionSystemPaused,
		Actor:     "admin",
		Timestamp: at,
		ClientIP:  "198.51.100.4",
	})

	ev := <-p.Inbox()
	s.Equal(at, ev.Timestamp)
	s.Equal("198.51.100.4", ev.ClientIP)
}
