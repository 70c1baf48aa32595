// Package web is the console's HTTP surface: the JSON API the browser app
// talks to. Handlers stay thin; reads go through the backend client or a
// poller snapshot, mutations go through the dispatcher.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/dispatch"
	"betelgeuse-console/internal/lockout"
	"betelgeuse-console/internal/notify"
	"betelgeuse-console/internal/poller"
	"betelgeuse-console/internal/session"
	dErrors "betelgeuse-console/pkg/domain-errors"
	"betelgeuse-console/pkg/platform/httputil"
	request "betelgeuse-console/pkg/platform/middleware/request"
)

// Handlers carries every dependency the HTTP layer needs. Constructed once in
// main and mounted by NewRouter.
type Handlers struct {
	backend    *backend.Client
	sessions   *session.Manager
	lockout    *lockout.Service
	notify     *notify.Center
	dispatcher *dispatch.Dispatcher
	auditor    *audit.Publisher
	trail      audit.Store
	logger     *slog.Logger

	dashboard *poller.Poller[*backend.DashboardStats]
	status    *poller.Poller[*backend.SystemStatus]
	operators *poller.Poller[[]backend.Operator]
}

// Config groups the Handlers dependencies so the constructor stays readable.
type Config struct {
	Backend    *backend.Client
	Sessions   *session.Manager
	Lockout    *lockout.Service
	Notify     *notify.Center
	Dispatcher *dispatch.Dispatcher
	Auditor    *audit.Publisher
	Trail      audit.Store
	Logger     *slog.Logger

	Dashboard *poller.Poller[*backend.DashboardStats]
	Status    *poller.Poller[*backend.SystemStatus]
	Operators *poller.Poller[[]backend.Operator]
}

func NewHandlers(cfg Config) *Handlers {
	return &Handlers{
		backend:    cfg.Backend,
		sessions:   cfg.Sessions,
		lockout:    cfg.Lockout,
		notify:     cfg.Notify,
		dispatcher: cfg.Dispatcher,
		auditor:    cfg.Auditor,
		trail:      cfg.Trail,
		logger:     cfg.Logger,
		dashboard:  cfg.Dashboard,
		status:     cfg.Status,
		operators:  cfg.Operators,
	}
}

// viewPayload is how poll-refreshed view state crosses to the browser. Data is
// the last-known-good value and stays populated even while Error is set, so a
// transient backend outage degrades to stale data instead of a blank screen.
type viewPayload struct {
	Data      any    `json:"data"`
	Error     string `json:"error,omitempty"`
	Loading   bool   `json:"loading"`
	FetchedAt string `json:"fetched_at,omitempty"`
}

func view[T any](snap poller.Snapshot[T]) viewPayload {
	p := viewPayload{Loading: snap.Loading}
	if snap.HasData {
		p.Data = snap.Data
	}
	if snap.Err != nil {
		p.Error = backend.UserMessage(snap.Err)
	}
	if !snap.LastFetch.IsZero() {
		p.FetchedAt = snap.LastFetch.UTC().Format(time.RFC3339)
	}
	return p
}

// successBody is the plain acknowledgement for mutations, mirroring the
// backend's own envelope.
type successBody struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type opErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// writeOpError shapes a failed operation. Backend failures pass through with
// the backend's status and message; coded errors use the shared envelope.
func writeOpError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		httputil.WriteJSON(w, status, opErrorBody{
			Error:            "backend_error",
			ErrorDescription: apiErr.Message,
		})
		return
	}
	httputil.WriteError(w, err)
}

// actor returns the username behind the request. Guarded routes always have a
// session; the fallback covers tests that skip the middleware.
func actor(r *http.Request) string {
	if sess := session.FromContext(r.Context()); sess != nil {
		return sess.User.Username
	}
	return ""
}

func requireBody[T any](w http.ResponseWriter, r *http.Request, h *Handlers) (T, bool) {
	return httputil.Decode[T](w, r, h.logger, request.GetRequestID(r.Context()))
}

// badRequest writes a coded validation failure.
func badRequest(w http.ResponseWriter, description string) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, description))
}
