package backend

import (
	"context"
	"fmt"
	"net/url"

	dErrors "betelgeuse-console/pkg/domain-errors"
)

// CreateUserRequest provisions a console login account.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
	PersonID *int   `json:"person_id,omitempty"`
}

// UpdateUserRequest edits mutable account fields.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
	PersonID *int    `json:"person_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// PermissionsPatch toggles per-user capability flags.
type PermissionsPatch struct {
	CanAccessOperatorView   *bool `json:"can_access_operator_view,omitempty"`
	CanAccessDeviceAnalysis *bool `json:"can_access_device_analysis,omitempty"`
}

// ListUsers returns all console accounts. Admin-only on the backend side.
func (c *Client) ListUsers(ctx context.Context) ([]UserAccount, error) {
	var out struct {
		Users []UserAccount `json:"users"`
	}
	if err := c.get(ctx, "list_users", "/api/auth/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// ListUsersByRole returns accounts filtered by role.
func (c *Client) ListUsersByRole(ctx context.Context, role string) ([]UserAccount, error) {
	if role == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "role is required")
	}
	var out struct {
		Users []UserAccount `json:"users"`
	}
	if err := c.get(ctx, "list_users_by_role", "/api/auth/users/by-role/"+url.PathEscape(role), nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// CreateUser provisions an account.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) error {
	return c.post(ctx, "create_user", "/api/auth/users", req, nil)
}

// UpdateUser edits an account.
func (c *Client) UpdateUser(ctx context.Context, userID int, req UpdateUserRequest) error {
	if userID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}
	return c.put(ctx, "update_user", fmt.Sprintf("/api/auth/users/%d", userID), req, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, userID int) error {
	if userID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}
	return c.delete(ctx, "delete_user", fmt.Sprintf("/api/auth/users/%d", userID), nil)
}

// ResetUserPassword sets a new password for an account.
func (c *Client) ResetUserPassword(ctx context.Context, userID int, newPassword string) error {
	if userID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}
	body := map[string]string{"new_password": newPassword}
	return c.post(ctx, "reset_user_password", fmt.Sprintf("/api/auth/users/%d/reset-password", userID), body, nil)
}

// PatchUserPermissions toggles capability flags on an account.
func (c *Client) PatchUserPermissions(ctx context.Context, userID int, patch PermissionsPatch) error {
	if userID == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}
	return c.patch(ctx, "patch_user_permissions", fmt.Sprintf("/api/auth/users/%d/permissions", userID), patch, nil)
}
