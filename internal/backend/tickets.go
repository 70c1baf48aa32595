package backend

import (
	"context"
	"net/url"

	dErrors "betelgeuse-console/pkg/domain-errors"
)

// UpdateTicketThreshold edits the alert threshold for one ticket.
func (c *Client) UpdateTicketThreshold(ctx context.Context, ticketID string, thresholdMinutes int) error {
	if ticketID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "ticket_id is required")
	}
	body := map[string]int{"threshold_minutes": thresholdMinutes}
	return c.put(ctx, "update_ticket_threshold", "/api/admin/tickets/"+url.PathEscape(ticketID)+"/threshold", body, nil)
}

// DeleteTicket removes a ticket from incident tracking.
func (c *Client) DeleteTicket(ctx context.Context, ticketID string) error {
	if ticketID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "ticket_id is required")
	}
	return c.delete(ctx, "delete_ticket", "/api/admin/tickets/"+url.PathEscape(ticketID), nil)
}

// RequestTicketAudit flags a ticket for administrator manual review.
func (c *Client) RequestTicketAudit(ctx context.Context, ticketID, requestedBy, reason string) error {
	if ticketID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "ticket_id is required")
	}
	body := map[string]string{
		"requested_by": requestedBy,
		"reason":       reason,
	}
	return c.post(ctx, "request_ticket_audit", "/api/admin/tickets/"+url.PathEscape(ticketID)+"/request-audit", body, nil)
}

// ListAuditTickets returns tickets flagged for manual review.
func (c *Client) ListAuditTickets(ctx context.Context) ([]AuditTicket, error) {
	var out struct {
		Tickets []AuditTicket `json:"tickets"`
		Total   int           `json:"total"`
	}
	if err := c.get(ctx, "list_audit_tickets", "/api/admin/audit-tickets", nil, &out); err != nil {
		return nil, err
	}
	return out.Tickets, nil
}

// ApproveTicketAudit approves a flagged ticket and resets its alert counters.
func (c *Client) ApproveTicketAudit(ctx context.Context, ticketID string) error {
	if ticketID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "ticket_id is required")
	}
	return c.post(ctx, "approve_ticket_audit", "/api/admin/tickets/"+url.PathEscape(ticketID)+"/approve-audit", nil, nil)
}

// RejectTicketAudit rejects a flagged ticket.
func (c *Client) RejectTicketAudit(ctx context.Context, ticketID string) error {
	if ticketID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "ticket_id is required")
	}
	return c.post(ctx, "reject_ticket_audit", "/api/admin/tickets/"+url.PathEscape(ticketID)+"/reject-audit", nil, nil)
}

// DeleteTicketAudit removes the audit request from a ticket.
func (c *Client) DeleteTicketAudit(ctx context.Context, ticketID string) error {
	if ticketID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "ticket_id is required")
	}
	return c.delete(ctx, "delete_ticket_audit", "/api/admin/tickets/"+url.PathEscape(ticketID)+"/delete-audit", nil)
}

// MarkTicketAuditNotified records that the admin saw the audit request.
func (c *Client) MarkTicketAuditNotified(ctx context.Context, ticketID string) error {
	if ticketID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "ticket_id is required")
	}
	return c.post(ctx, "mark_ticket_audit_notified", "/api/admin/tickets/"+url.PathEscape(ticketID)+"/mark-audit-notified", nil, nil)
}
