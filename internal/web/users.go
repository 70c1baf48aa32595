package web

import (
	"context"
	"net/http"
	"strconv"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/dispatch"
	"betelgeuse-console/internal/session"
	"betelgeuse-console/pkg/platform/httputil"
)

// HandleListUsers returns all console accounts, optionally filtered by role.
func (h *Handlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	var (
		users []backend.UserAccount
		err   error
	)
	if role := r.URL.Query().Get("role"); role != "" {
		users, err = h.backend.ListUsersByRole(r.Context(), role)
	} else {
		users, err = h.backend.ListUsers(r.Context())
	}
	if err != nil {
		writeOpError(w, err)
		return
	}
	if users == nil {
		users = []backend.UserAccount{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	PersonID *int   `json:"person_id"`
}

// HandleCreateUser provisions a console account. The role must be one the
// console can route, even though the backend stores it.
func (h *Handlers) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	req, ok := requireBody[createUserRequest](w, r, h)
	if !ok {
		return
	}
	if req.Username == "" || req.Password == "" {
		badRequest(w, "username and password are required")
		return
	}
	if _, err := session.ParseRole(req.Role); err != nil {
		httputil.WriteError(w, err)
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "create_user",
		SuccessMessage: "User " + req.Username + " created.",
		Audit: &audit.Event{
			Action:     audit.ActionUserCreated,
			Actor:      actor(r),
			EntityType: "user",
			EntityID:   req.Username,
			Detail:     req.Role,
		},
		Call: func(ctx context.Context) error {
			return h.backend.CreateUser(ctx, backend.CreateUserRequest{
				Username: req.Username,
				Password: req.Password,
				FullName: req.FullName,
				Role:     req.Role,
				PersonID: req.PersonID,
			})
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, successBody{Success: true, Message: "User created"})
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	PersonID *int    `json:"person_id"`
	IsActive *bool   `json:"is_active"`
}

// HandleUpdateUser edits account fields.
func (h *Handlers) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userID")
	if !ok {
		return
	}
	req, ok := requireBody[updateUserRequest](w, r, h)
	if !ok {
		return
	}
	if req.Role != nil {
		if _, err := session.ParseRole(*req.Role); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "update_user",
		SuccessMessage: "User updated.",
		Audit: &audit.Event{
			Action:     audit.ActionUserUpdated,
			Actor:      actor(r),
			EntityType: "user",
			EntityID:   strconv.Itoa(userID),
		},
		Call: func(ctx context.Context) error {
			return h.backend.UpdateUser(ctx, userID, backend.UpdateUserRequest{
				FullName: req.FullName,
				Role:     req.Role,
				PersonID: req.PersonID,
				IsActive: req.IsActive,
			})
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "User updated"})
}

// HandleDeleteUser removes a console account. Destructive.
func (h *Handlers) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userID")
	if !ok {
		return
	}
	req, ok := requireBody[confirmRequest](w, r, h)
	if !ok {
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "delete_user",
		SuccessMessage: "User deleted.",
		Destructive:    true,
		Confirmed:      req.Confirmed,
		Audit: &audit.Event{
			Action:     audit.ActionUserDeleted,
			Actor:      actor(r),
			EntityType: "user",
			EntityID:   strconv.Itoa(userID),
		},
		Call: func(ctx context.Context) error {
			return h.backend.DeleteUser(ctx, userID)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "User deleted"})
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
	Confirmed   bool   `json:"confirmed"`
}

// HandleResetUserPassword sets a new password for another account.
// Destructive: the old credential stops working immediately.
func (h *Handlers) HandleResetUserPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userID")
	if !ok {
		return
	}
	req, ok := requireBody[resetPasswordRequest](w, r, h)
	if !ok {
		return
	}
	if req.NewPassword == "" {
		badRequest(w, "new_password is required")
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "reset_user_password",
		SuccessMessage: "Password reset.",
		Destructive:    true,
		Confirmed:      req.Confirmed,
		Audit: &audit.Event{
			Action:     audit.ActionPasswordReset,
			Actor:      actor(r),
			EntityType: "user",
			EntityID:   strconv.Itoa(userID),
		},
		Call: func(ctx context.Context) error {
			return h.backend.ResetUserPassword(ctx, userID, req.NewPassword)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Password reset"})
}

type permissionsRequest struct {
	CanAccessOperatorView   *bool `json:"can_access_operator_view"`
	CanAccessDeviceAnalysis *bool `json:"can_access_device_analysis"`
}

// HandlePatchUserPermissions toggles capability flags on an account.
func (h *Handlers) HandlePatchUserPermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "userID")
	if !ok {
		return
	}
	req, ok := requireBody[permissionsRequest](w, r, h)
	if !ok {
		return
	}
	if req.CanAccessOperatorView == nil && req.CanAccessDeviceAnalysis == nil {
		badRequest(w, "at least one permission flag is required")
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "patch_user_permissions",
		SuccessMessage: "Permissions updated.",
		Audit: &audit.Event{
			Action:     audit.ActionUserUpdated,
			Actor:      actor(r),
			EntityType: "user",
			EntityID:   strconv.Itoa(userID),
			Detail:     "permissions",
		},
		Call: func(ctx context.Context) error {
			return h.backend.PatchUserPermissions(ctx, userID, backend.PermissionsPatch{
				CanAccessOperatorView:   req.CanAccessOperatorView,
				CanAccessDeviceAnalysis: req.CanAccessDeviceAnalysis,
			})
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Permissions updated"})
}
