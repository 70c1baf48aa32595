package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	dErrors "betelgeuse-console/pkg/domain-errors"
)

// GetDashboardStats returns the aggregate dashboard block.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out struct {
		Stats DashboardStats `json:"stats"`
	}
	if err := c.get(ctx, "dashboard_stats", "/api/admin/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

// GetOperatorMetrics returns per-operator metrics over the last N days.
func (c *Client) GetOperatorMetrics(ctx context.Context, personID, days int) (*OperatorMetrics, error) {
	if personID == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "person_id is required")
	}
	query := url.Values{}
	if days > 0 {
		query.Set("days", strconv.Itoa(days))
	}
	var out struct {
		Metrics OperatorMetrics `json:"metrics"`
	}
	if err := c.get(ctx, "operator_metrics", fmt.Sprintf("/api/admin/metrics/operator/%d", personID), query, &out); err != nil {
		return nil, err
	}
	return &out.Metrics, nil
}

// GetMetrics returns the global metrics block as the backend shapes it. The
// console renders this structure without reinterpreting it, so it stays a
// generic map.
func (c *Client) GetMetrics(ctx context.Context) (map[string]any, error) {
	var out struct {
		Metrics map[string]any `json:"metrics"`
	}
	if err := c.get(ctx, "metrics", "/api/admin/metrics", nil, &out); err != nil {
		return nil, err
	}
	return out.Metrics, nil
}

// IncidentQuery filters the incidents listing.
type IncidentQuery struct {
	Status     string
	AssignedTo int
	Limit      int
}

// ListIncidents returns detected ticket incidents.
func (c *Client) ListIncidents(ctx context.Context, q IncidentQuery) ([]Incident, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.AssignedTo != 0 {
		query.Set("assigned_to", strconv.Itoa(q.AssignedTo))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	var out struct {
		Incidents []Incident `json:"incidents"`
	}
	if err := c.get(ctx, "list_incidents", "/api/admin/incidents", query, &out); err != nil {
		return nil, err
	}
	return out.Incidents, nil
}

// GetReassignmentHistory returns the ticket reassignment trail.
func (c *Client) GetReassignmentHistory(ctx context.Context, limit int) ([]ReassignmentRecord, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		History []ReassignmentRecord `json:"history"`
	}
	if err := c.get(ctx, "reassignment_history", "/api/admin/reassignment-history", query, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}
