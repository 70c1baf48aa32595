package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"betelgeuse-console/internal/guard"
	"betelgeuse-console/internal/session"
	"betelgeuse-console/pkg/platform/httputil"
	request "betelgeuse-console/pkg/platform/middleware/request"
)

// NewRouter mounts the full console API. Route groups mirror the guard rules:
// public login endpoints, any-authenticated endpoints, admin-only endpoints,
// and capability-gated feature endpoints.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Middleware)
	r.Use(h.sessions.Resolve)

	r.Get("/healthz", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(guard.PublicOnly())
		r.Post("/api/auth/login", h.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth(h.logger))
		r.Post("/api/auth/logout", h.HandleLogout)
		r.Get("/api/auth/me", h.HandleMe)
		r.Post("/api/auth/change-password", h.HandleChangePassword)
		r.Get("/api/console/notifications", h.HandleNotifications)
		r.Get("/api/console/route", h.HandleRoute)
		r.Get("/api/system/status", h.HandleSystemStatus)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireCapability(func(u session.User) bool { return u.CanAccessOperatorView }, h.logger))
		r.Get("/api/operator-view", h.HandleOperatorView)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireCapability(func(u session.User) bool { return u.CanAccessDeviceAnalysis }, h.logger))
		r.Route("/api/device-analysis", func(r chi.Router) {
			r.Post("/analyze", h.HandleAnalyzeDevice)
			r.Get("/history", h.HandleDeviceHistory)
			r.Get("/stats", h.HandleDeviceStats)
			r.Post("/feedback", h.HandleDeviceFeedback)
			r.Get("/logs", h.HandleDeviceLogs)
			r.Get("/logs/stats", h.HandleDeviceLogStats)
			r.Delete("/logs", h.HandleClearDeviceLogs)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireRole(session.RoleAdmin, h.logger))

		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/dashboard", h.HandleDashboard)
			r.Get("/metrics", h.HandleBackendMetrics)
			r.Get("/incidents", h.HandleIncidents)
			r.Get("/reassignments", h.HandleReassignments)

			r.Get("/operators", h.HandleListOperators)
			r.Post("/operators", h.HandleCreateOperator)
			r.Get("/operators/{personID}", h.HandleGetOperator)
			r.Put("/operators/{personID}", h.HandleUpdateOperator)
			r.Post("/operators/{personID}/pause", h.HandlePauseOperator)
			r.Post("/operators/{personID}/resume", h.HandleResumeOperator)
			r.Patch("/operators/{personID}/config", h.HandlePatchOperatorConfig)
			r.Get("/operators/{personID}/metrics", h.HandleOperatorMetrics)

			r.Post("/schedules", h.HandleCreateSchedule)
			r.Put("/schedules/{scheduleID}", h.HandleUpdateSchedule)
			r.Delete("/schedules/{scheduleID}", h.HandleDeleteSchedule)

			r.Get("/assignments/stats", h.HandleAssignmentStats)
			r.Post("/assignments/reset", h.HandleResetCounters)

			r.Get("/config", h.HandleListConfig)
			r.Get("/config/{key}", h.HandleGetConfig)
			r.Put("/config/{key}", h.HandleUpdateConfig)

			r.Get("/audit-logs", h.HandleAuditLogs)
			r.Get("/console-audit", h.HandleConsoleAudit)

			r.Get("/users", h.HandleListUsers)
			r.Post("/users", h.HandleCreateUser)
			r.Put("/users/{userID}", h.HandleUpdateUser)
			r.Delete("/users/{userID}", h.HandleDeleteUser)
			r.Post("/users/{userID}/reset-password", h.HandleResetUserPassword)
			r.Patch("/users/{userID}/permissions", h.HandlePatchUserPermissions)

			r.Get("/tickets/audit", h.HandleListAuditTickets)
			r.Put("/tickets/{ticketID}/threshold", h.HandleUpdateTicketThreshold)
			r.Delete("/tickets/{ticketID}", h.HandleDeleteTicket)
			r.Post("/tickets/{ticketID}/audit", h.HandleRequestTicketAudit)
			r.Post("/tickets/{ticketID}/audit/approve", h.HandleApproveTicketAudit)
			r.Post("/tickets/{ticketID}/audit/reject", h.HandleRejectTicketAudit)
			r.Delete("/tickets/{ticketID}/audit", h.HandleDeleteTicketAudit)
			r.Post("/tickets/{ticketID}/audit/notified", h.HandleMarkTicketAuditNotified)
		})

		r.Post("/api/system/pause", h.HandlePauseSystem)
		r.Post("/api/system/resume", h.HandleResumeSystem)
	})

	return r
}

// HandleHealth is the liveness probe.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleRoute tells the browser app where the current session belongs, using
// the same decision table the guard middleware enforces.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"home": guard.HomeFor(sess.User.Role),
	})
}

// pathInt parses a numeric chi URL parameter, writing a bad_request envelope
// on failure.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v == 0 {
		badRequest(w, name+" must be a positive integer")
		return 0, false
	}
	return v, true
}
