package backend

import (
	"context"
	"fmt"

	dErrors "betelgeuse-console/pkg/domain-errors"
)

// ScheduleRequest creates or updates one schedule row. A schedule belongs to
// one operator, one day-of-week, one type.
type ScheduleRequest struct {
	PersonID     int          `json:"person_id"`
	DayOfWeek    int          `json:"day_of_week"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	ScheduleType ScheduleType `json:"schedule_type"`
	IsActive     bool         `json:"is_active"`
}

// CreateSchedule adds a schedule row for an operator.
func (c *Client) CreateSchedule(ctx context.Context, req ScheduleRequest) error {
	return c.post(ctx, "create_schedule", "/api/admin/schedules", req, nil)
}

// UpdateSchedule edits an existing schedule row.
func (c *Client) UpdateSchedule(ctx context.Context, scheduleID int, req ScheduleRequest) error {
	if scheduleID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "schedule_id is required")
	}
	return c.put(ctx, "update_schedule", fmt.Sprintf("/api/admin/schedules/%d", scheduleID), req, nil)
}

// DeleteSchedule removes a schedule row.
func (c *Client) DeleteSchedule(ctx context.Context, scheduleID int) error {
	if scheduleID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "schedule_id is required")
	}
	return c.delete(ctx, "delete_schedule", fmt.Sprintf("/api/admin/schedules/%d", scheduleID), nil)
}

// GetAssignmentStats returns the per-operator assignment counters.
func (c *Client) GetAssignmentStats(ctx context.Context) (*AssignmentStats, error) {
	var out struct {
		Stats AssignmentStats `json:"stats"`
	}
	if err := c.get(ctx, "assignment_stats", "/api/admin/assignment/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

// ResetAssignmentCounters zeroes assignment counters; personID nil resets all.
func (c *Client) ResetAssignmentCounters(ctx context.Context, personID *int, resetBy string) error {
	body := map[string]any{"reset_by": resetBy}
	if personID != nil {
		body["person_id"] = *personID
	}
	return c.post(ctx, "reset_assignment_counters", "/api/admin/assignment/reset", body, nil)
}
