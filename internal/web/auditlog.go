package web

import (
	"net/http"
	"time"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/pkg/platform/httputil"
	request "betelgeuse-console/pkg/platform/middleware/request"
)

// HandleAuditLogs lists the backend's authoritative audit trail.
func (h *Handlers) HandleAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := backend.AuditLogQuery{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entity_type"),
		EntityID:   r.URL.Query().Get("entity_id"),
		Limit:      queryInt(r, "limit"),
	}
	logs, err := h.backend.ListAuditLogs(r.Context(), q)
	if err != nil {
		writeOpError(w, err)
		return
	}
	if logs == nil {
		logs = []backend.AuditLogEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"audit_logs": logs})
}

// consoleAuditRow is the wire shape of one console trail event.
type consoleAuditRow struct {
	At         string `json:"at"`
	Category   string `json:"category"`
	Action     string `json:"action"`
	Actor      string `json:"actor"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	ClientIP   string `json:"client_ip,omitempty"`
	Browser    string `json:"browser,omitempty"`
	OS         string `json:"os,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// HandleConsoleAudit lists the console's own action trail. Separate from the
// backend trail: this records what went through this service, including
// security events the backend never sees (lockouts, failed logins).
func (h *Handlers) HandleConsoleAudit(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit")
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	events, err := h.trail.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "console audit listing failed",
			"error", err,
			"request_id", request.GetRequestID(r.Context()),
		)
		writeOpError(w, err)
		return
	}

	rows := make([]consoleAuditRow, 0, len(events))
	for _, ev := range events {
		rows = append(rows, toConsoleAuditRow(ev))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": rows})
}

func toConsoleAuditRow(ev audit.Event) consoleAuditRow {
	return consoleAuditRow{
		At:         ev.Timestamp.UTC().Format(time.RFC3339),
		Category:   string(ev.Category),
		Action:     string(ev.Action),
		Actor:      ev.Actor,
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		Detail:     ev.Detail,
		ClientIP:   ev.ClientIP,
		Browser:    ev.Browser,
		OS:         ev.OS,
		RequestID:  ev.RequestID,
	}
}
