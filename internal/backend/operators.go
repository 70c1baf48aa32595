package backend

import (
	"context"
	"fmt"

	dErrors "betelgeuse-console/pkg/domain-errors"
)

// CreateOperatorRequest registers a new operator in the backend.
type CreateOperatorRequest struct {
	PersonID       int    `json:"person_id"`
	Name           string `json:"name"`
	WhatsappNumber string `json:"whatsapp_number,omitempty"`
}

// UpdateOperatorRequest edits mutable operator fields. Pointer fields are
// omitted when nil so partial edits do not clobber unrelated state.
type UpdateOperatorRequest struct {
	Name                 *string `json:"name,omitempty"`
	WhatsappNumber       *string `json:"whatsapp_number,omitempty"`
	IsActive             *bool   `json:"is_active,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
}

// PauseOperatorRequest pauses one operator with an audit trail.
type PauseOperatorRequest struct {
	Reason   string `json:"reason,omitempty"`
	PausedBy string `json:"paused_by,omitempty"`
}

// OperatorConfigPatch toggles per-operator assignment behavior.
type OperatorConfigPatch struct {
	AssignmentPaused     *bool `json:"assignment_paused,omitempty"`
	NotificationsEnabled *bool `json:"notifications_enabled,omitempty"`
}

// ListOperators returns all operators with their nested schedules.
func (c *Client) ListOperators(ctx context.Context) ([]Operator, error) {
	var out struct {
		Operators []Operator `json:"operators"`
	}
	if err := c.get(ctx, "list_operators", "/api/admin/operators", nil, &out); err != nil {
		return nil, err
	}
	return out.Operators, nil
}

// GetOperator returns one operator by person ID.
func (c *Client) GetOperator(ctx context.Context, personID int) (*Operator, error) {
	if personID == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "person_id is required")
	}
	var out struct {
		Operator Operator `json:"operator"`
	}
	if err := c.get(ctx, "get_operator", fmt.Sprintf("/api/admin/operators/%d", personID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Operator, nil
}

// CreateOperator registers a new operator.
func (c *Client) CreateOperator(ctx context.Context, req CreateOperatorRequest) error {
	return c.post(ctx, "create_operator", "/api/admin/operators/create", req, nil)
}

// UpdateOperator edits an operator.
func (c *Client) UpdateOperator(ctx context.Context, personID int, req UpdateOperatorRequest) error {
	if personID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "person_id is required")
	}
	return c.put(ctx, "update_operator", fmt.Sprintf("/api/admin/operators/%d", personID), req, nil)
}

// PauseOperator pauses assignment for one operator.
func (c *Client) PauseOperator(ctx context.Context, personID int, req PauseOperatorRequest) error {
	if personID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "person_id is required")
	}
	return c.post(ctx, "pause_operator", fmt.Sprintf("/api/admin/operators/%d/pause", personID), req, nil)
}

// ResumeOperator resumes assignment for one operator.
func (c *Client) ResumeOperator(ctx context.Context, personID int) error {
	if personID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "person_id is required")
	}
	return c.post(ctx, "resume_operator", fmt.Sprintf("/api/admin/operators/%d/resume", personID), nil, nil)
}

// PatchOperatorConfig toggles per-operator assignment flags.
func (c *Client) PatchOperatorConfig(ctx context.Context, personID int, patch OperatorConfigPatch) error {
	if personID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "person_id is required")
	}
	return c.patch(ctx, "patch_operator_config", fmt.Sprintf("/api/admin/operators/%d/config", personID), patch, nil)
}
