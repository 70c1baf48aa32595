package backend

import (
	"context"
	"net/url"

	dErrors "betelgeuse-console/pkg/domain-errors"
)

// UpdateConfigRequest writes one typed key of the backend config store.
type UpdateConfigRequest struct {
	Value       string `json:"value"`
	ValueType   string `json:"value_type,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	UpdatedBy   string `json:"updated_by,omitempty"`
}

// ListConfig returns all config entries, optionally filtered by category.
func (c *Client) ListConfig(ctx context.Context, category string) ([]ConfigEntry, error) {
	var query url.Values
	if category != "" {
		query = url.Values{"category": []string{category}}
	}
	var out struct {
		Configs []ConfigEntry `json:"configs"`
	}
	if err := c.get(ctx, "list_config", "/api/admin/config", query, &out); err != nil {
		return nil, err
	}
	return out.Configs, nil
}

// GetConfig returns one config entry by key.
func (c *Client) GetConfig(ctx context.Context, key string) (*ConfigEntry, error) {
	if key == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "config key is required")
	}
	var out struct {
		Config ConfigEntry `json:"config"`
	}
	if err := c.get(ctx, "get_config", "/api/admin/config/"+url.PathEscape(key), nil, &out); err != nil {
		return nil, err
	}
	return &out.Config, nil
}

// UpdateConfig creates or updates a config entry.
func (c *Client) UpdateConfig(ctx context.Context, key string, req UpdateConfigRequest) error {
	if key == "" {
		return dErrors.New(dErrors.CodeBadRequest, "config key is required")
	}
	return c.put(ctx, "update_config", "/api/admin/config/"+url.PathEscape(key), req, nil)
}
