package backend

import "context"

// GetSystemStatus returns the global assignment-pause state.
func (c *Client) GetSystemStatus(ctx context.Context) (*SystemStatus, error) {
	var out SystemStatus
	if err := c.get(ctx, "system_status", "/api/system/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PauseSystem pauses assignment globally with a reason and actor.
func (c *Client) PauseSystem(ctx context.Context, reason, pausedBy string) error {
	body := map[string]string{
		"reason":    reason,
		"paused_by": pausedBy,
	}
	return c.post(ctx, "system_pause", "/api/system/pause", body, nil)
}

// ResumeSystem resumes global assignment.
func (c *Client) ResumeSystem(ctx context.Context, resumedBy string) error {
	body := map[string]string{
		"resumed_by": resumedBy,
	}
	return c.post(ctx, "system_resume", "/api/system/resume", body, nil)
}
