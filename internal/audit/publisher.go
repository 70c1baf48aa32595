package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/mssola/useragent"

	"betelgeuse-console/pkg/requestcontext"
)

// Publisher enqueues audit events for the background worker. Publishing never
// blocks a request: if the inbox is full the event is dropped with a log line,
// because an audit backlog must not make the console unresponsive.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Inbox exposes the event channel for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Publish enriches the event from the request context and enqueues it.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}
	if event.UserAgent != "" && event.Browser == "" {
		ua := useragent.New(event.UserAgent)
		name, version := ua.Browser()
		if name != "" {
			event.Browser = name
			if version != "" {
				event.Browser += " " + version
			}
		}
		event.OS = ua.OS()
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit inbox full, dropping event",
			"action", event.Action,
			"actor", event.Actor,
		)
	}
}
