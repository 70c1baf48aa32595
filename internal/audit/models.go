// Package audit records who did what through the console. The backend keeps
// its own authoritative audit trail of assignment changes; this trail covers
// the console surface itself (logins, lockouts, mutations issued), giving
// operators of the console a forensic record even when the backend is down.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring.
	// Examples: logins, logouts, lockouts, denied access.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers actions taken through the console.
	// Examples: operator pauses, schedule edits, config updates.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from handlers and the dispatcher to capture key actions.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category   EventCategory
	Timestamp  time.Time
	Action     Action
	Actor      string // console username performing the action
	EntityType string // e.g. "operator", "schedule", "config", "user"
	EntityID   string
	Detail     string
	ClientIP   string
	UserAgent  string // raw User-Agent header
	Browser    string // parsed browser name + version
	OS         string // parsed operating system
	RequestID  string
}

// Action identifies one kind of console event.
type Action string

const (
	ActionLogin           Action = "login"
	ActionLoginFailed     Action = "login_failed"
	ActionLoginLocked     Action = "login_locked"
	ActionLogout          Action = "logout"
	ActionPasswordChanged Action = "password_changed"

	ActionOperatorCreated Action = "operator_created"
	ActionOperatorUpdated Action = "operator_updated"
	ActionOperatorPaused  Action = "operator_paused"
	ActionOperatorResumed Action = "operator_resumed"

	ActionScheduleCreated Action = "schedule_created"
	ActionScheduleUpdated Action = "schedule_updated"
	ActionScheduleDeleted Action = "schedule_deleted"

	ActionConfigUpdated  Action = "config_updated"
	ActionCountersReset  Action = "counters_reset"
	ActionSystemPaused   Action = "system_paused"
	ActionSystemResumed  Action = "system_resumed"
	ActionTicketEdited   Action = "ticket_edited"
	ActionTicketDeleted  Action = "ticket_deleted"
	ActionAuditReviewed  Action = "audit_reviewed"
	ActionUserCreated    Action = "user_created"
	ActionUserUpdated    Action = "user_updated"
	ActionUserDeleted    Action = "user_deleted"
	ActionPasswordReset  Action = "password_reset"
	ActionDeviceAnalyzed Action = "device_analyzed"
	ActionDeviceLogsWipe Action = "device_logs_cleared"
)

// Category derives the event category from the action. Security-relevant
// actions route differently from routine operations.
func (a Action) Category() EventCategory {
	switch a {
	case ActionLogin, ActionLoginFailed, ActionLoginLocked, ActionLogout,
		ActionPasswordChanged, ActionPasswordReset,
		ActionUserCreated, ActionUserUpdated, ActionUserDeleted:
		return CategorySecurity
	default:
		return CategoryOperations
	}
}

// Store is the persistence sink for console audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
