package web

import (
	"context"
	"net/http"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/dispatch"
	"betelgeuse-console/pkg/platform/httputil"
)

// refreshGroup fans a refresh out to every view a mutation touches.
type refreshGroup []dispatch.Refresher

func (g refreshGroup) Refresh() {
	for _, r := range g {
		r.Refresh()
	}
}

// HandleSystemStatus serves the global pause state from the fast poller. Any
// authenticated session may read it; the operator view shows the banner too.
func (h *Handlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, view(h.status.Snapshot()))
}

type pauseSystemRequest struct {
	Reason    string `json:"reason"`
	Confirmed bool   `json:"confirmed"`
}

// HandlePauseSystem halts all automatic ticket assignment. Requires explicit
// confirmation since every operator stops receiving work.
func (h *Handlers) HandlePauseSystem(w http.ResponseWriter, r *http.Request) {
	req, ok := requireBody[pauseSystemRequest](w, r, h)
	if !ok {
		return
	}
	if req.Reason == "" {
		badRequest(w, "reason is required")
		return
	}
	by := actor(r)

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "pause_system",
		SuccessMessage: "Assignment system paused.",
		Destructive:    true,
		Confirmed:      req.Confirmed,
		Owner:          refreshGroup{h.status, h.dashboard},
		Audit: &audit.Event{
			Action:     audit.ActionSystemPaused,
			Actor:      by,
			EntityType: "system",
			Detail:     req.Reason,
		},
		Call: func(ctx context.Context) error {
			return h.backend.PauseSystem(ctx, req.Reason, by)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "System paused"})
}

// HandleResumeSystem restarts automatic assignment.
func (h *Handlers) HandleResumeSystem(w http.ResponseWriter, r *http.Request) {
	by := actor(r)

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "resume_system",
		SuccessMessage: "Assignment system resumed.",
		Owner:          refreshGroup{h.status, h.dashboard},
		Audit: &audit.Event{
			Action:     audit.ActionSystemResumed,
			Actor:      by,
			EntityType: "system",
		},
		Call: func(ctx context.Context) error {
			return h.backend.ResumeSystem(ctx, by)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "System resumed"})
}
