// Package guard decides, per navigation, whether the current session may reach
// a requested view and where to send it otherwise. The decision logic is a
// pure function over (session, required role) so the redirect truth table is
// directly testable; the middleware in this package applies it to routes.
package guard

import (
	"betelgeuse-console/internal/session"
)

// Route targets for redirects. The console serves the SPA shell at these
// paths; the JSON API mirrors them in the redirect_to field.
const (
	PathLogin        = "/login"
	PathAdminHome    = "/"
	PathOperatorHome = "/operator"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allow      bool
	RedirectTo string
}

var allow = Decision{Allow: true}

// ForRole gates a protected view. requiredRole may be empty ("any
// authenticated user"). The role match is exhaustive over the closed Role
// type: a session whose role is neither admin nor operator cannot exist past
// login, so there is no "unrecognized role" fallback branch.
func ForRole(sess *session.Session, requiredRole session.Role) Decision {
	if sess == nil {
		return Decision{RedirectTo: PathLogin}
	}
	if requiredRole == "" || sess.User.Role == requiredRole {
		return allow
	}
	switch sess.User.Role {
	case session.RoleOperator:
		return Decision{RedirectTo: PathOperatorHome}
	default:
		// An admin hitting an operator-only route goes home.
		return Decision{RedirectTo: PathAdminHome}
	}
}

// ForPublic gates the login view: an authenticated session is sent to its home
// instead of seeing the public page again.
func ForPublic(sess *session.Session) Decision {
	if sess == nil {
		return allow
	}
	if sess.User.Role == session.RoleOperator {
		return Decision{RedirectTo: PathOperatorHome}
	}
	return Decision{RedirectTo: PathAdminHome}
}

// HomeFor returns the role-appropriate home route, used by the login handler
// to tell the client where to navigate after a successful login.
func HomeFor(role session.Role) string {
	if role == session.RoleOperator {
		return PathOperatorHome
	}
	return PathAdminHome
}
