package web

import (
	"net/http"
	"time"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/guard"
	"betelgeuse-console/internal/session"
	dErrors "betelgeuse-console/pkg/domain-errors"
	"betelgeuse-console/pkg/platform/httputil"
	request "betelgeuse-console/pkg/platform/middleware/request"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message    string       `json:"message"`
	User       session.User `json:"user"`
	RedirectTo string       `json:"redirect_to"`
}

// HandleLogin relays credentials to the backend and establishes the console
// session on success. The lockout check runs first so a locked identifier
// never reaches the backend.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := requireBody[loginRequest](w, r, h)
	if !ok {
		return
	}
	if req.Username == "" || req.Password == "" {
		badRequest(w, "username and password are required")
		return
	}

	locked, until, err := h.lockout.IsLocked(ctx, req.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "lockout check failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "login unavailable", err))
		return
	}
	if locked {
		httputil.WriteJSON(w, http.StatusTooManyRequests, opErrorBody{
			Error:            string(dErrors.CodeRateLimited),
			ErrorDescription: "too many failed attempts, try again at " + until.UTC().Format(time.RFC3339),
		})
		return
	}

	result, err := h.backend.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.recordLoginFailure(w, r, req.Username, err)
		return
	}

	role, err := session.ParseRole(result.User.Role)
	if err != nil {
		// The backend vouched for the user but handed us a role the console
		// has no routes for. Refuse the session rather than guessing.
		h.logger.ErrorContext(ctx, "login rejected: unknown role",
			"username", req.Username,
			"role", result.User.Role,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "account role is not supported by this console"))
		return
	}

	user := session.User{
		Username:                result.User.Username,
		FullName:                result.User.FullName,
		Role:                    role,
		PersonID:                result.User.PersonID,
		CanAccessOperatorView:   result.User.CanAccessOperatorView,
		CanAccessDeviceAnalysis: result.User.CanAccessDeviceAnalysis,
	}

	sess, err := h.sessions.Establish(ctx, w, user, result.BackendCookie)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to establish session",
			"error", err,
			"username", req.Username,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "could not establish session", err))
		return
	}

	if err := h.lockout.Clear(ctx, req.Username); err != nil {
		h.logger.WarnContext(ctx, "failed to clear lockout record",
			"error", err,
			"username", req.Username,
		)
	}

	h.auditor.Publish(ctx, audit.Event{
		Action: audit.ActionLogin,
		Actor:  user.Username,
	})
	h.logger.InfoContext(ctx, "login succeeded",
		"username", user.Username,
		"role", user.Role,
		"session_id", sess.ID,
		"request_id", requestID,
	)

	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Message:    "Login successful",
		User:       user,
		RedirectTo: guard.HomeFor(user.Role),
	})
}

// recordLoginFailure distinguishes bad credentials (counted against the
// lockout threshold) from backend outages (not counted, surfaced as-is).
func (h *Handlers) recordLoginFailure(w http.ResponseWriter, r *http.Request, username string, loginErr error) {
	ctx := r.Context()

	status := backend.StatusOf(loginErr)
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		h.logger.ErrorContext(ctx, "login relay failed",
			"error", loginErr,
			"username", username,
			"request_id", request.GetRequestID(ctx),
		)
		writeOpError(w, loginErr)
		return
	}

	triggered, err := h.lockout.RecordFailure(ctx, username)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to record login failure",
			"error", err,
			"username", username,
		)
	}

	action := audit.ActionLoginFailed
	if triggered {
		action = audit.ActionLoginLocked
	}
	h.auditor.Publish(ctx, audit.Event{
		Action: action,
		Actor:  username,
	})

	writeOpError(w, loginErr)
}

// HandleLogout tears down both sessions: ours and the backend's. Backend
// logout failures are logged but never block clearing the console session.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	if err := h.backend.Logout(ctx); err != nil {
		h.logger.WarnContext(ctx, "backend logout failed",
			"error", err,
			"username", sess.User.Username,
			"request_id", request.GetRequestID(ctx),
		)
	}

	h.notify.Forget(sess.ID.String())
	h.sessions.Clear(ctx, w, r)

	h.auditor.Publish(ctx, audit.Event{
		Action: audit.ActionLogout,
		Actor:  sess.User.Username,
	})

	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Logged out"})
}

// HandleMe returns the session's user without a backend round-trip. The
// session is the console's source of truth between logins.
func (h *Handlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"user": sess.User,
		"home": guard.HomeFor(sess.User.Role),
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleChangePassword relays a self-service password change.
func (h *Handlers) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := requireBody[changePasswordRequest](w, r, h)
	if !ok {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		badRequest(w, "current_password and new_password are required")
		return
	}

	if err := h.backend.ChangePassword(ctx, req.CurrentPassword, req.NewPassword); err != nil {
		writeOpError(w, err)
		return
	}

	h.auditor.Publish(ctx, audit.Event{
		Action: audit.ActionPasswordChanged,
		Actor:  actor(r),
	})
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Password changed"})
}
