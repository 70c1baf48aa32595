package web

import (
	"net/http"

	"betelgeuse-console/internal/notify"
	"betelgeuse-console/internal/session"
	"betelgeuse-console/pkg/platform/httputil"
)

// HandleNotifications drains the session's pending toasts. Delivery is
// at-most-once: a drained toast is gone even if the browser never renders it.
func (h *Handlers) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	queued := h.notify.Drain(sess.ID.String())
	if queued == nil {
		queued = []notify.Notification{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"notifications": queued,
	})
}
