// Package notify is the console's toast channel. Mutations and background
// pollers push transient notifications; the browser drains them on its next
// poll of /api/console/notifications. Request-scoped outcomes land in the
// acting session's queue; background failures (pollers run under no session)
// go to a shared system feed that every session sees once.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"betelgeuse-console/internal/session"
)

// Level distinguishes success toasts from failure toasts.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient toast. Never persisted.
type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

const (
	maxQueued = 50
	maxSystem = 100
)

type systemNotice struct {
	seq uint64
	n   Notification
}

// Center holds undelivered notifications in memory.
type Center struct {
	mu       sync.Mutex
	sessions map[string][]Notification
	system   []systemNotice
	seq      uint64
	cursors  map[string]uint64
	now      func() time.Time
}

func NewCenter() *Center {
	return &Center{
		sessions: make(map[string][]Notification),
		cursors:  make(map[string]uint64),
		now:      time.Now,
	}
}

// Success queues a success toast for the session in ctx.
func (c *Center) Success(ctx context.Context, title, message string) {
	c.push(ctx, Notification{Level: LevelSuccess, Title: title, Message: message})
}

// Failure queues a failure toast for the session in ctx, or the system feed
// when no session is attached (background pollers).
func (c *Center) Failure(ctx context.Context, title, message string) {
	c.push(ctx, Notification{Level: LevelError, Title: title, Message: message})
}

// Drain returns and clears the session's pending toasts plus any system
// notices this session has not seen yet.
func (c *Center) Drain(sessionID string) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.sessions[sessionID]
	delete(c.sessions, sessionID)

	cursor := c.cursors[sessionID]
	for _, notice := range c.system {
		if notice.seq > cursor {
			out = append(out, notice.n)
			cursor = notice.seq
		}
	}
	c.cursors[sessionID] = cursor
	return out
}

// Forget drops all state for a session. Called on logout.
func (c *Center) Forget(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
	delete(c.cursors, sessionID)
}

func (c *Center) push(ctx context.Context, n Notification) {
	n.ID = uuid.NewString()
	n.At = c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if sess := session.FromContext(ctx); sess != nil {
		key := sess.ID.String()
		queue := append(c.sessions[key], n)
		if len(queue) > maxQueued {
			queue = queue[len(queue)-maxQueued:]
		}
		c.sessions[key] = queue
		return
	}

	c.seq++
	c.system = append(c.system, systemNotice{seq: c.seq, n: n})
	if len(c.system) > maxSystem {
		c.system = c.system[len(c.system)-maxSystem:]
	}
}
