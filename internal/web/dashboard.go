package web

import (
	"net/http"
	"strconv"

	"betelgeuse-console/internal/backend"
	"betelgeuse-console/pkg/platform/httputil"
)

// HandleDashboard serves the dashboard from the poller snapshot. The browser
// polls this endpoint; the console polls the backend on its own clock, so a
// burst of browser tabs costs the backend nothing extra.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, view(h.dashboard.Snapshot()))
}

// HandleBackendMetrics proxies the backend's raw metrics blob.
func (h *Handlers) HandleBackendMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.backend.GetMetrics(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"metrics": metrics})
}

// HandleIncidents lists detected ticket incidents with optional filters.
func (h *Handlers) HandleIncidents(w http.ResponseWriter, r *http.Request) {
	q := backend.IncidentQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  queryInt(r, "limit"),
	}
	q.AssignedTo = queryInt(r, "assigned_to")

	incidents, err := h.backend.ListIncidents(r.Context(), q)
	if err != nil {
		writeOpError(w, err)
		return
	}
	if incidents == nil {
		incidents = []backend.Incident{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"incidents": incidents})
}

// HandleReassignments lists recent ticket reassignments.
func (h *Handlers) HandleReassignments(w http.ResponseWriter, r *http.Request) {
	history, err := h.backend.GetReassignmentHistory(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	if history == nil {
		history = []backend.ReassignmentRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"reassignments": history})
}

// HandleOperatorMetrics returns one operator's performance window.
func (h *Handlers) HandleOperatorMetrics(w http.ResponseWriter, r *http.Request) {
	personID, ok := pathInt(w, r, "personID")
	if !ok {
		return
	}
	days := queryInt(r, "days")
	if days == 0 {
		days = 7
	}

	metrics, err := h.backend.GetOperatorMetrics(r.Context(), personID, days)
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"metrics": metrics})
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}
