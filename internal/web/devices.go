package web

import (
	"context"
	"net/http"
	"net/netip"
	"strconv"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/dispatch"
	"betelgeuse-console/pkg/platform/httputil"
)

type analyzeDeviceRequest struct {
	IPAddress string `json:"ip_address"`
}

// HandleAnalyzeDevice runs a device analysis for an IP address.
func (h *Handlers) HandleAnalyzeDevice(w http.ResponseWriter, r *http.Request) {
	req, ok := requireBody[analyzeDeviceRequest](w, r, h)
	if !ok {
		return
	}
	if _, err := netip.ParseAddr(req.IPAddress); err != nil {
		badRequest(w, "ip_address must be a valid IP address")
		return
	}
	by := actor(r)

	analysis, err := h.backend.AnalyzeDevice(r.Context(), req.IPAddress, by)
	if err != nil {
		writeOpError(w, err)
		return
	}

	h.auditor.Publish(r.Context(), audit.Event{
		Action:     audit.ActionDeviceAnalyzed,
		Actor:      by,
		EntityType: "device",
		EntityID:   req.IPAddress,
	})
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"analysis": analysis})
}

// HandleDeviceHistory lists past analyses.
func (h *Handlers) HandleDeviceHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.backend.GetDeviceHistory(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	if history == nil {
		history = []backend.DeviceAnalysis{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"history": history})
}

// HandleDeviceStats returns analysis aggregates.
func (h *Handlers) HandleDeviceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.backend.GetDeviceStats(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

type deviceFeedbackRequest struct {
	AnalysisID int    `json:"analysis_id"`
	Accurate   bool   `json:"accurate"`
	Comment    string `json:"comment"`
}

// HandleDeviceFeedback records whether an analysis result was accurate.
func (h *Handlers) HandleDeviceFeedback(w http.ResponseWriter, r *http.Request) {
	req, ok := requireBody[deviceFeedbackRequest](w, r, h)
	if !ok {
		return
	}
	if req.AnalysisID == 0 {
		badRequest(w, "analysis_id is required")
		return
	}

	if err := h.backend.SubmitDeviceFeedback(r.Context(), req.AnalysisID, req.Accurate, req.Comment); err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Feedback recorded"})
}

// HandleDeviceLogs lists analysis log entries with optional filters.
func (h *Handlers) HandleDeviceLogs(w http.ResponseWriter, r *http.Request) {
	q := backend.DeviceLogQuery{
		Level: r.URL.Query().Get("level"),
		Limit: queryInt(r, "limit"),
	}
	logs, err := h.backend.GetDeviceLogs(r.Context(), q)
	if err != nil {
		writeOpError(w, err)
		return
	}
	if logs == nil {
		logs = []backend.DeviceLogEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

// HandleDeviceLogStats returns log volume aggregates.
func (h *Handlers) HandleDeviceLogStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.backend.GetDeviceLogStats(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// HandleClearDeviceLogs wipes the analysis log. Destructive; confirmation
// travels in the query string since DELETE bodies are unreliable.
func (h *Handlers) HandleClearDeviceLogs(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirmed"))

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "clear_device_logs",
		SuccessMessage: "Device analysis logs cleared.",
		Destructive:    true,
		Confirmed:      confirmed,
		Audit: &audit.Event{
			Action:     audit.ActionDeviceLogsWipe,
			Actor:      actor(r),
			EntityType: "device_logs",
		},
		Call: func(ctx context.Context) error {
			return h.backend.ClearDeviceLogs(ctx)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Logs cleared"})
}
