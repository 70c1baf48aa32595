package backend

import (
	"context"
	"net/url"
	"strconv"

	dErrors "betelgeuse-console/pkg/domain-errors"
)

// AnalyzeDevice triggers a probe of one customer device by IP address.
func (c *Client) AnalyzeDevice(ctx context.Context, ipAddress, analyzedBy string) (*DeviceAnalysis, error) {
	if ipAddress == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "ip_address is required")
	}
	body := map[string]string{
		"ip_address":  ipAddress,
		"analyzed_by": analyzedBy,
	}
	var out struct {
		Analysis DeviceAnalysis `json:"analysis"`
	}
	if err := c.post(ctx, "analyze_device", "/api/device-analysis/analyze", body, &out); err != nil {
		return nil, err
	}
	return &out.Analysis, nil
}

// GetDeviceHistory returns past analyses, newest first.
func (c *Client) GetDeviceHistory(ctx context.Context, limit int) ([]DeviceAnalysis, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		History []DeviceAnalysis `json:"history"`
	}
	if err := c.get(ctx, "device_history", "/api/device-analysis/history", query, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// GetDeviceStats aggregates analysis outcomes.
func (c *Client) GetDeviceStats(ctx context.Context) (*DeviceStats, error) {
	var out struct {
		Stats DeviceStats `json:"stats"`
	}
	if err := c.get(ctx, "device_stats", "/api/device-analysis/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

// SubmitDeviceFeedback records whether a diagnosis was accurate, feeding the
// analysis pipeline's tuning.
func (c *Client) SubmitDeviceFeedback(ctx context.Context, analysisID int, accurate bool, comment string) error {
	if analysisID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "analysis_id is required")
	}
	body := map[string]any{
		"analysis_id": analysisID,
		"accurate":    accurate,
		"comment":     comment,
	}
	return c.post(ctx, "device_feedback", "/api/device-analysis/feedback", body, nil)
}

// DeviceLogQuery filters the device-analysis log listing.
type DeviceLogQuery struct {
	Level string
	Limit int
}

// GetDeviceLogs returns pipeline log lines.
func (c *Client) GetDeviceLogs(ctx context.Context, q DeviceLogQuery) ([]DeviceLogEntry, error) {
	query := url.Values{}
	if q.Level != "" {
		query.Set("level", q.Level)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	var out struct {
		Logs []DeviceLogEntry `json:"logs"`
	}
	if err := c.get(ctx, "device_logs", "/api/device-analysis/logs", query, &out); err != nil {
		return nil, err
	}
	return out.Logs, nil
}

// GetDeviceLogStats aggregates log counts by level.
func (c *Client) GetDeviceLogStats(ctx context.Context) (*DeviceLogStats, error) {
	var out struct {
		Stats DeviceLogStats `json:"stats"`
	}
	if err := c.get(ctx, "device_log_stats", "/api/device-analysis/logs/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out.Stats, nil
}

// ClearDeviceLogs truncates the pipeline log.
func (c *Client) ClearDeviceLogs(ctx context.Context) error {
	return c.post(ctx, "clear_device_logs", "/api/device-analysis/logs/clear", nil, nil)
}
