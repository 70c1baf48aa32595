package backend

import (
	"context"
	"net/url"
	"strconv"
)

// AuditLogQuery filters the backend audit trail. Zero values are omitted.
type AuditLogQuery struct {
	Action     string
	EntityType string
	EntityID   string
	Limit      int
}

// ListAuditLogs returns recent audit rows, filterable by action or entity.
func (c *Client) ListAuditLogs(ctx context.Context, q AuditLogQuery) ([]AuditLogEntry, error) {
	query := url.Values{}
	if q.Action != "" {
		query.Set("action", q.Action)
	}
	if q.EntityType != "" {
		query.Set("entity_type", q.EntityType)
	}
	if q.EntityID != "" {
		query.Set("entity_id", q.EntityID)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	var out struct {
		Logs []AuditLogEntry `json:"logs"`
	}
	if err := c.get(ctx, "list_audit_logs", "/api/admin/audit", query, &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}
