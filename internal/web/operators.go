package web

import (
	"context"
	"net/http"
	"strconv"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/dispatch"
	"betelgeuse-console/pkg/platform/httputil"
)

// HandleListOperators serves the operator roster from the poller snapshot.
func (h *Handlers) HandleListOperators(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, view(h.operators.Snapshot()))
}

// HandleGetOperator fetches one operator directly; detail views want fresher
// data than the roster poll provides.
func (h *Handlers) HandleGetOperator(w http.ResponseWriter, r *http.Request) {
	personID, ok := pathInt(w, r, "personID")
	if !ok {
		return
	}
	op, err := h.backend.GetOperator(r.Context(), personID)
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"operator": op})
}

type createOperatorRequest struct {
	PersonID       int    `json:"person_id"`
	Name           string `json:"name"`
	WhatsappNumber string `json:"whatsapp_number"`
}

// HandleCreateOperator registers a new operator.
func (h *Handlers) HandleCreateOperator(w http.ResponseWriter, r *http.Request) {
	req, ok := requireBody[createOperatorRequest](w, r, h)
	if !ok {
		return
	}
	if req.PersonID == 0 || req.Name == "" {
		badRequest(w, "person_id and name are required")
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "create_operator",
		SuccessMessage: "Operator " + req.Name + " created.",
		Owner:          h.operators,
		Audit: &audit.Event{
			Action:     audit.ActionOperatorCreated,
			Actor:      actor(r),
			EntityType: "operator",
			EntityID:   strconv.Itoa(req.PersonID),
			Detail:     req.Name,
		},
		Call: func(ctx context.Context) error {
			return h.backend.CreateOperator(ctx, backend.CreateOperatorRequest{
				PersonID:       req.PersonID,
				Name:           req.Name,
				WhatsappNumber: req.WhatsappNumber,
			})
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, successBody{Success: true, Message: "Operator created"})
}

type updateOperatorRequest struct {
	Name                 *string `json:"name"`
	WhatsappNumber       *string `json:"whatsapp_number"`
	IsActive             *bool   `json:"is_active"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}

// HandleUpdateOperator edits operator fields; absent fields are untouched.
func (h *Handlers) HandleUpdateOperator(w http.ResponseWriter, r *http.Request) {
	personID, ok := pathInt(w, r, "personID")
	if !ok {
		return
	}
	req, ok := requireBody[updateOperatorRequest](w, r, h)
	if !ok {
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "update_operator",
		SuccessMessage: "Operator updated.",
		Owner:          h.operators,
		Audit: &audit.Event{
			Action:     audit.ActionOperatorUpdated,
			Actor:      actor(r),
			EntityType: "operator",
			EntityID:   strconv.Itoa(personID),
		},
		Call: func(ctx context.Context) error {
			return h.backend.UpdateOperator(ctx, personID, backend.UpdateOperatorRequest{
				Name:                 req.Name,
				WhatsappNumber:       req.WhatsappNumber,
				IsActive:             req.IsActive,
				NotificationsEnabled: req.NotificationsEnabled,
			})
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Operator updated"})
}

type pauseOperatorRequest struct {
	Reason    string `json:"reason"`
	Confirmed bool   `json:"confirmed"`
}

// HandlePauseOperator stops new assignments to one operator. Confirmation is
// required: their open tickets keep ageing while they are paused.
func (h *Handlers) HandlePauseOperator(w http.ResponseWriter, r *http.Request) {
	personID, ok := pathInt(w, r, "personID")
	if !ok {
		return
	}
	req, ok := requireBody[pauseOperatorRequest](w, r, h)
	if !ok {
		return
	}
	by := actor(r)

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "pause_operator",
		SuccessMessage: "Operator paused.",
		Destructive:    true,
		Confirmed:      req.Confirmed,
		Owner:          refreshGroup{h.operators, h.dashboard},
		Audit: &audit.Event{
			Action:     audit.ActionOperatorPaused,
			Actor:      by,
			EntityType: "operator",
			EntityID:   strconv.Itoa(personID),
			Detail:     req.Reason,
		},
		Call: func(ctx context.Context) error {
			return h.backend.PauseOperator(ctx, personID, backend.PauseOperatorRequest{
				Reason:   req.Reason,
				PausedBy: by,
			})
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Operator paused"})
}

// HandleResumeOperator reinstates a paused operator.
func (h *Handlers) HandleResumeOperator(w http.ResponseWriter, r *http.Request) {
	personID, ok := pathInt(w, r, "personID")
	if !ok {
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "resume_operator",
		SuccessMessage: "Operator resumed.",
		Owner:          refreshGroup{h.operators, h.dashboard},
		Audit: &audit.Event{
			Action:     audit.ActionOperatorResumed,
			Actor:      actor(r),
			EntityType: "operator",
			EntityID:   strconv.Itoa(personID),
		},
		Call: func(ctx context.Context) error {
			return h.backend.ResumeOperator(ctx, personID)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Operator resumed"})
}

type operatorConfigRequest struct {
	AssignmentPaused     *bool `json:"assignment_paused"`
	NotificationsEnabled *bool `json:"notifications_enabled"`
}

// HandlePatchOperatorConfig toggles per-operator assignment behavior.
func (h *Handlers) HandlePatchOperatorConfig(w http.ResponseWriter, r *http.Request) {
	personID, ok := pathInt(w, r, "personID")
	if !ok {
		return
	}
	req, ok := requireBody[operatorConfigRequest](w, r, h)
	if !ok {
		return
	}
	if req.AssignmentPaused == nil && req.NotificationsEnabled == nil {
		badRequest(w, "at least one of assignment_paused or notifications_enabled is required")
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "patch_operator_config",
		SuccessMessage: "Operator settings updated.",
		Owner:          h.operators,
		Audit: &audit.Event{
			Action:     audit.ActionOperatorUpdated,
			Actor:      actor(r),
			EntityType: "operator",
			EntityID:   strconv.Itoa(personID),
			Detail:     "config",
		},
		Call: func(ctx context.Context) error {
			return h.backend.PatchOperatorConfig(ctx, personID, backend.OperatorConfigPatch{
				AssignmentPaused:     req.AssignmentPaused,
				NotificationsEnabled: req.NotificationsEnabled,
			})
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Settings updated"})
}
