// Package dispatch performs mutating operations and keeps the owning view
// consistent afterward: one backend call, one toast, and on success exactly
// one immediate re-fetch of the owning poller. No optimistic updates are
// applied, so failures need no rollback.
package dispatch

//go:generate mockgen -source=dispatch.go -destination=mocks/mocks.go -package=mocks Refresher,Notifier,Metrics,AuditPublisher

import (
	"context"
	"log/slog"

	"betelgeuse-console/internal/audit"
	"betelgeuse-console/internal/backend"
	dErrors "betelgeuse-console/pkg/domain-errors"
	request "betelgeuse-console/pkg/platform/middleware/request"
)

// Refresher triggers an immediate re-fetch of a poll-refreshed view.
type Refresher interface {
	Refresh()
}

// Notifier surfaces the outcome of a mutation to the acting user.
type Notifier interface {
	Success(ctx context.Context, title, message string)
	Failure(ctx context.Context, title, message string)
}

// Metrics records dispatch outcomes.
type Metrics interface {
	ObserveDispatch(action string, success bool)
}

// AuditPublisher records console actions in the action audit trail.
type AuditPublisher interface {
	Publish(ctx context.Context, event audit.Event)
}

// ErrConfirmationRequired is returned when a destructive action arrives
// without explicit confirmation. The backend is never called in that case.
var ErrConfirmationRequired = dErrors.New(dErrors.CodeBadRequest, "this action requires explicit confirmation")

// Action describes one mutation.
type Action struct {
	// Name is the logical operation, used for metrics and audit.
	Name string
	// SuccessMessage is the toast shown when the call succeeds.
	SuccessMessage string
	// Destructive actions must carry Confirmed=true or they are rejected
	// before any network traffic.
	Destructive bool
	Confirmed   bool
	// Owner is the poll-refreshed view this mutation affects; nil when the
	// view fetches per request instead of polling.
	Owner Refresher
	// Audit, when non-nil, is recorded on success.
	Audit *audit.Event
	// Call performs the mutation through the backend client.
	Call func(ctx context.Context) error
}

// Dispatcher executes actions.
type Dispatcher struct {
	notifier Notifier
	auditor  AuditPublisher
	logger   *slog.Logger
	metrics  Metrics
}

func New(notifier Notifier, auditor AuditPublisher, logger *slog.Logger, metrics Metrics) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		auditor:  auditor,
		logger:   logger,
		metrics:  metrics,
	}
}

// Dispatch runs the action. The returned error is the backend failure (or the
// confirmation rejection) so handlers can also shape their HTTP response; the
// toast has already been emitted either way.
func (d *Dispatcher) Dispatch(ctx context.Context, act Action) error {
	if act.Destructive && !act.Confirmed {
		d.logger.WarnContext(ctx, "destructive action rejected without confirmation",
			"action", act.Name,
			"request_id", request.GetRequestID(ctx),
		)
		return ErrConfirmationRequired
	}

	if err := act.Call(ctx); err != nil {
		if d.metrics != nil {
			d.metrics.ObserveDispatch(act.Name, false)
		}
		d.logger.WarnContext(ctx, "action failed",
			"action", act.Name,
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
		d.notifier.Failure(ctx, "Operation failed", backend.UserMessage(err))
		return err
	}

	if d.metrics != nil {
		d.metrics.ObserveDispatch(act.Name, true)
	}
	d.notifier.Success(ctx, "Done", act.SuccessMessage)
	if act.Audit != nil {
		d.auditor.Publish(ctx, *act.Audit)
	}
	if act.Owner != nil {
		act.Owner.Refresh()
	}
	return nil
}
