package guard

import (
	"log/slog"
	"net/http"

	"betelgeuse-console/internal/session"
	dErrors "betelgeuse-console/pkg/domain-errors"
	"betelgeuse-console/pkg/platform/httputil"
	request "betelgeuse-console/pkg/platform/middleware/request"
)

// deniedResponse tells an API caller where the SPA should navigate. Role
// mismatches are silent redirects by design, so the body carries a route, not
// an error message.
type deniedResponse struct {
	Error      string `json:"error"`
	RedirectTo string `json:"redirect_to"`
}

// RequireRole blocks API routes for sessions that fail the role check.
// Unauthenticated requests get 401, role mismatches 403; both carry the
// redirect target the client-side router should follow.
func RequireRole(requiredRole session.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			decision := ForRole(sess, requiredRole)
			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			if sess == nil {
				logger.WarnContext(ctx, "unauthenticated access denied",
					"path", r.URL.Path,
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, deniedResponse{
					Error:      string(dErrors.CodeUnauthorized),
					RedirectTo: decision.RedirectTo,
				})
				return
			}
			httputil.WriteJSON(w, http.StatusForbidden, deniedResponse{
				Error:      string(dErrors.CodeForbidden),
				RedirectTo: decision.RedirectTo,
			})
		})
	}
}

// RequireAuth admits any authenticated session regardless of role.
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole("", logger)
}

// PublicOnly inverts the check for the login endpoints: an authenticated
// session is redirected to its home instead of re-running the public flow.
func PublicOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := ForPublic(session.FromContext(r.Context()))
			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}
			httputil.WriteJSON(w, http.StatusConflict, deniedResponse{
				Error:      "already_authenticated",
				RedirectTo: decision.RedirectTo,
			})
		})
	}
}

// RequireCapability gates feature routes behind a per-user capability flag,
// e.g. device analysis access. Admins pass implicitly.
func RequireCapability(capability func(session.User) bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			if sess == nil {
				httputil.WriteJSON(w, http.StatusUnauthorized, deniedResponse{
					Error:      string(dErrors.CodeUnauthorized),
					RedirectTo: PathLogin,
				})
				return
			}
			if sess.User.Role != session.RoleAdmin && !capability(sess.User) {
				logger.WarnContext(r.Context(), "capability denied",
					"path", r.URL.Path,
					"username", sess.User.Username,
					"request_id", request.GetRequestID(r.Context()),
				)
				httputil.WriteJSON(w, http.StatusForbidden, deniedResponse{
					Error:      string(dErrors.CodeForbidden),
					RedirectTo: HomeFor(sess.User.Role),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
