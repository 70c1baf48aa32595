package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Context key for the resolved session.
type contextKeySession struct{}

// ContextKeySession is exported for tests that build contexts directly.
var ContextKeySession = contextKeySession{}

// FromContext returns the resolved session, or nil when the request is
// anonymous. Callers treat nil as "not authenticated"; they never see an error
// for malformed or expired cookies.
func FromContext(ctx context.Context) *Session {
	sess, ok := ctx.Value(ContextKeySession).(*Session)
	if !ok {
		return nil
	}
	return sess
}

// WithSession injects a session into a context. Used by the resolve middleware
// and by handler tests.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ContextKeySession, sess)
}

// Manager owns the session lifecycle: establish at login, resolve per request,
// clear at logout. It is the only writer of the session store; every other
// component reads sessions through the request context.
type Manager struct {
	store  Store
	codec  *TokenCodec
	ttl    time.Duration
	logger *slog.Logger
	secure bool
}

func NewManager(store Store, codec *TokenCodec, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		codec:  codec,
		ttl:    ttl,
		logger: logger,
		secure: true,
	}
}

// WithInsecureCookies disables the Secure cookie attribute for plain-HTTP dev
// setups.
func (m *Manager) WithInsecureCookies() *Manager {
	m.secure = false
	return m
}

// Establish creates a session for the user and sets the signed cookie.
func (m *Manager) Establish(ctx context.Context, w http.ResponseWriter, user User, backendCookie string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:            uuid.New(),
		User:          user,
		BackendCookie: backendCookie,
		CreatedAt:     now,
		ExpiresAt:     now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	cookieValue, err := m.codec.Encode(sess.ID, sess.ExpiresAt)
	if err != nil {
		_ = m.store.Delete(ctx, sess.ID)
		return nil, err
	}
	http.SetCookie(w, m.cookie(cookieValue, sess.ExpiresAt))
	return sess, nil
}

// Clear removes the session (if any) and expires the cookie. Idempotent: a
// logout with no live session still clears the cookie.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if id, err := m.codec.Decode(cookie.Value); err == nil {
			if err := m.store.Delete(ctx, id); err != nil {
				m.logger.WarnContext(ctx, "failed to delete session on logout",
					"error", err,
					"session_id", id,
				)
			}
		}
	}
	expired := m.cookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(w, expired)
}

// Resolve is middleware that loads the session named by the cookie into the
// request context. Any failure (missing cookie, bad signature, unknown or
// expired session, corrupt stored state) resolves to an anonymous request;
// the guard layer decides what anonymous means per route.
func (m *Manager) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		id, err := m.codec.Decode(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := m.store.FindByID(r.Context(), id)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
