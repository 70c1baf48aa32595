package web

import (
	"context"
	"net/http"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/dispatch"
	"betelgeuse-console/pkg/platform/httputil"

	"github.com/go-chi/chi/v5"
)

func ticketID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "ticketID")
	if id == "" {
		badRequest(w, "ticket_id is required")
		return "", false
	}
	return id, true
}

// HandleListAuditTickets lists tickets flagged for manual review.
func (h *Handlers) HandleListAuditTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.backend.ListAuditTickets(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	if tickets == nil {
		tickets = []backend.AuditTicket{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tickets": tickets})
}

type thresholdRequest struct {
	ThresholdMinutes int `json:"threshold_minutes"`
}

// HandleUpdateTicketThreshold overrides the response-time threshold for one
// ticket.
func (h *Handlers) HandleUpdateTicketThreshold(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketID(w, r)
	if !ok {
		return
	}
	req, ok := requireBody[thresholdRequest](w, r, h)
	if !ok {
		return
	}
	if req.ThresholdMinutes <= 0 {
		badRequest(w, "threshold_minutes must be positive")
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "update_ticket_threshold",
		SuccessMessage: "Ticket threshold updated.",
		Audit: &audit.Event{
			Action:     audit.ActionTicketEdited,
			Actor:      actor(r),
			EntityType: "ticket",
			EntityID:   id,
		},
		Call: func(ctx context.Context) error {
			return h.backend.UpdateTicketThreshold(ctx, id, req.ThresholdMinutes)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Threshold updated"})
}

// HandleDeleteTicket removes a ticket from tracking. Destructive.
func (h *Handlers) HandleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketID(w, r)
	if !ok {
		return
	}
	req, ok := requireBody[confirmRequest](w, r, h)
	if !ok {
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "delete_ticket",
		SuccessMessage: "Ticket deleted.",
		Destructive:    true,
		Confirmed:      req.Confirmed,
		Owner:          h.dashboard,
		Audit: &audit.Event{
			Action:     audit.ActionTicketDeleted,
			Actor:      actor(r),
			EntityType: "ticket",
			EntityID:   id,
		},
		Call: func(ctx context.Context) error {
			return h.backend.DeleteTicket(ctx, id)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Ticket deleted"})
}

type requestAuditRequest struct {
	Reason string `json:"reason"`
}

// HandleRequestTicketAudit flags a ticket for administrator review.
func (h *Handlers) HandleRequestTicketAudit(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketID(w, r)
	if !ok {
		return
	}
	req, ok := requireBody[requestAuditRequest](w, r, h)
	if !ok {
		return
	}
	by := actor(r)

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "request_ticket_audit",
		SuccessMessage: "Audit requested for ticket " + id + ".",
		Audit: &audit.Event{
			Action:     audit.ActionAuditReviewed,
			Actor:      by,
			EntityType: "ticket",
			EntityID:   id,
			Detail:     "requested: " + req.Reason,
		},
		Call: func(ctx context.Context) error {
			return h.backend.RequestTicketAudit(ctx, id, by, req.Reason)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Audit requested"})
}

// HandleApproveTicketAudit marks a flagged ticket as reviewed and justified.
func (h *Handlers) HandleApproveTicketAudit(w http.ResponseWriter, r *http.Request) {
	h.reviewTicketAudit(w, r, "approve_ticket_audit", "Audit approved.", "approved",
		h.backend.ApproveTicketAudit)
}

// HandleRejectTicketAudit marks a flagged ticket as reviewed and rejected.
func (h *Handlers) HandleRejectTicketAudit(w http.ResponseWriter, r *http.Request) {
	h.reviewTicketAudit(w, r, "reject_ticket_audit", "Audit rejected.", "rejected",
		h.backend.RejectTicketAudit)
}

func (h *Handlers) reviewTicketAudit(w http.ResponseWriter, r *http.Request, name, message, outcome string, call func(context.Context, string) error) {
	id, ok := ticketID(w, r)
	if !ok {
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           name,
		SuccessMessage: message,
		Audit: &audit.Event{
			Action:     audit.ActionAuditReviewed,
			Actor:      actor(r),
			EntityType: "ticket",
			EntityID:   id,
			Detail:     outcome,
		},
		Call: func(ctx context.Context) error {
			return call(ctx, id)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: message})
}

// HandleDeleteTicketAudit withdraws an audit request. Destructive.
func (h *Handlers) HandleDeleteTicketAudit(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketID(w, r)
	if !ok {
		return
	}
	req, ok := requireBody[confirmRequest](w, r, h)
	if !ok {
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "delete_ticket_audit",
		SuccessMessage: "Audit request removed.",
		Destructive:    true,
		Confirmed:      req.Confirmed,
		Audit: &audit.Event{
			Action:     audit.ActionAuditReviewed,
			Actor:      actor(r),
			EntityType: "ticket",
			EntityID:   id,
			Detail:     "withdrawn",
		},
		Call: func(ctx context.Context) error {
			return h.backend.DeleteTicketAudit(ctx, id)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Audit request removed"})
}

// HandleMarkTicketAuditNotified records that the customer was contacted about
// an audited ticket.
func (h *Handlers) HandleMarkTicketAuditNotified(w http.ResponseWriter, r *http.Request) {
	id, ok := ticketID(w, r)
	if !ok {
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "mark_ticket_audit_notified",
		SuccessMessage: "Ticket marked as notified.",
		Audit: &audit.Event{
			Action:     audit.ActionAuditReviewed,
			Actor:      actor(r),
			EntityType: "ticket",
			EntityID:   id,
			Detail:     "notified",
		},
		Call: func(ctx context.Context) error {
			return h.backend.MarkTicketAuditNotified(ctx, id)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Marked as notified"})
}
