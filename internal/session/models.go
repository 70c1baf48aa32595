// Package session holds the console's server-side session model: who is
// logged in to this browser, with which role, and which backend cookie the
// console replays on their behalf.
package session

import (
	"time"

	dErrors "betelgeuse-console/pkg/domain-errors"

	"github.com/google/uuid"
)

// Role is the closed set of console roles. Keeping this a tagged type (rather
// than free-form strings) makes guard matching exhaustive: a role outside this
// set cannot be represented, so an unrecognized backend role fails at parse
// time instead of silently falling through redirect branches.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// ParseRole validates a backend-provided role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleOperator:
		return Role(s), nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown role: "+s)
	}
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOperator
}

// User is the authenticated identity as returned by the backend login
// endpoint. PersonID is nil for operator accounts that have not been linked to
// an operator record yet; views must treat that as "configuration pending",
// not as an error.
type User struct {
	Username                string `json:"username"`
	FullName                string `json:"full_name,omitempty"`
	Role                    Role   `json:"role"`
	PersonID                *int   `json:"person_id,omitempty"`
	CanAccessOperatorView   bool   `json:"can_access_operator_view,omitempty"`
	CanAccessDeviceAnalysis bool   `json:"can_access_device_analysis,omitempty"`
}

// Session is one browser's authenticated state. BackendCookie is the Set-Cookie
// value received from the backend at login; the API client replays it so the
// backend sees the same authenticated session the user established.
type Session struct {
	ID            uuid.UUID `json:"id"`
	User          User      `json:"user"`
	BackendCookie string    `json:"backend_cookie"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
