package web

import (
	"net/http"

	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/session"
	"betelgeuse-console/pkg/platform/httputil"
	request "betelgeuse-console/pkg/platform/middleware/request"
)

// operatorViewResponse is the personal workload page for one operator: their
// own record, their recent performance, and the global pause banner.
type operatorViewResponse struct {
	Pending  bool                     `json:"pending"`
	Message  string                   `json:"message,omitempty"`
	Operator *backend.Operator        `json:"operator,omitempty"`
	Metrics  *backend.OperatorMetrics `json:"metrics,omitempty"`
	System   viewPayload              `json:"system"`
}

// HandleOperatorView serves the operator's own view. An account whose
// person_id has not been linked yet gets a pending placeholder, not an error;
// that state is an admin setup task, not a fault.
func (h *Handlers) HandleOperatorView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	resp := operatorViewResponse{
		System: view(h.status.Snapshot()),
	}

	if sess.User.PersonID == nil {
		resp.Pending = true
		resp.Message = "Your account is not linked to an operator yet. Ask an administrator to complete setup."
		httputil.WriteJSON(w, http.StatusOK, resp)
		return
	}
	personID := *sess.User.PersonID

	op, err := h.backend.GetOperator(ctx, personID)
	if err != nil {
		writeOpError(w, err)
		return
	}
	resp.Operator = op

	metrics, err := h.backend.GetOperatorMetrics(ctx, personID, 7)
	if err != nil {
		// The view is still useful without the metrics block.
		h.logger.WarnContext(ctx, "operator metrics unavailable",
			"error", err,
			"person_id", personID,
			"request_id", request.GetRequestID(ctx),
		)
	} else {
		resp.Metrics = metrics
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
