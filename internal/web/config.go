package web

import (
	"context"
	"net/http"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/dispatch"
	"betelgeuse-console/pkg/platform/httputil"

	"github.com/go-chi/chi/v5"
)

// HandleListConfig returns backend configuration entries, optionally filtered
// by category.
func (h *Handlers) HandleListConfig(w http.ResponseWriter, r *http.Request) {
	configs, err := h.backend.ListConfig(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	if configs == nil {
		configs = []backend.ConfigEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"configs": configs})
}

// HandleGetConfig returns one configuration key.
func (h *Handlers) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		badRequest(w, "key is required")
		return
	}
	entry, err := h.backend.GetConfig(r.Context(), key)
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"config": entry})
}

type updateConfigRequest struct {
	Value       string `json:"value"`
	ValueType   string `json:"value_type"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// HandleUpdateConfig writes one configuration key.
func (h *Handlers) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		badRequest(w, "key is required")
		return
	}
	req, ok := requireBody[updateConfigRequest](w, r, h)
	if !ok {
		return
	}
	if req.Value == "" {
		badRequest(w, "value is required")
		return
	}
	by := actor(r)

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "update_config",
		SuccessMessage: "Configuration saved.",
		Audit: &audit.Event{
			Action:     audit.ActionConfigUpdated,
			Actor:      by,
			EntityType: "config",
			EntityID:   key,
			Detail:     req.Value,
		},
		Call: func(ctx context.Context) error {
			return h.backend.UpdateConfig(ctx, key, backend.UpdateConfigRequest{
				Value:       req.Value,
				ValueType:   req.ValueType,
				Description: req.Description,
				Category:    req.Category,
				UpdatedBy:   by,
			})
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Configuration saved"})
}
