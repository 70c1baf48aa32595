package session

import (
	"context"

	"github.com/google/uuid"
)

// Store persists console sessions between requests. Implementations return
// sentinel.ErrNotFound when the session does not exist and sentinel.ErrExpired
// when it exists but has outlived its TTL.
type Store interface {
	Create(ctx context.Context, sess *Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
