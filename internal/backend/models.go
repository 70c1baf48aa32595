package backend

// Wire models for the Betelgeuse API. Field names follow the backend's JSON
// contract; the console does not reinterpret them, it renders them.

// ScheduleType is the kind of day-of-week time range an operator has.
type ScheduleType string

const (
	ScheduleWork       ScheduleType = "work"
	ScheduleAssignment ScheduleType = "assignment"
	ScheduleAlert      ScheduleType = "alert"
)

// Schedule is one day-of-week time range belonging to one operator.
type Schedule struct {
	ID           int          `json:"id"`
	DayOfWeek    int          `json:"day_of_week"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	ScheduleType ScheduleType `json:"schedule_type"`
	IsActive     bool         `json:"is_active"`
}

// Operator is a support agent with assignment state and nested schedules.
type Operator struct {
	PersonID             int        `json:"person_id"`
	Name                 string     `json:"name"`
	WhatsappNumber       string     `json:"whatsapp_number"`
	IsActive             bool       `json:"is_active"`
	IsPaused             bool       `json:"is_paused"`
	AssignmentPaused     bool       `json:"assignment_paused"`
	PausedReason         string     `json:"paused_reason,omitempty"`
	PausedAt             string     `json:"paused_at,omitempty"`
	PausedBy             string     `json:"paused_by,omitempty"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	TicketCount          int        `json:"ticket_count"`
	LastAssigned         string     `json:"last_assigned,omitempty"`
	Schedules            []Schedule `json:"schedules"`
}

// ConfigEntry is one typed key of the backend's key-value configuration store.
type ConfigEntry struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	ValueType   string `json:"value_type"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	UpdatedBy   string `json:"updated_by,omitempty"`
}

// AuditLogEntry is one row of the backend audit trail.
type AuditLogEntry struct {
	ID          int    `json:"id"`
	Action      string `json:"action"`
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id,omitempty"`
	OldValue    any    `json:"old_value,omitempty"`
	NewValue    any    `json:"new_value,omitempty"`
	PerformedBy string `json:"performed_by"`
	PerformedAt string `json:"performed_at,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// SystemStatus is the global assignment-pause flag with actor and reason.
type SystemStatus struct {
	Paused    bool   `json:"paused"`
	Status    string `json:"status"`
	PausedAt  string `json:"paused_at,omitempty"`
	PausedBy  string `json:"paused_by,omitempty"`
	Reason    string `json:"reason,omitempty"`
	ResumedAt string `json:"resumed_at,omitempty"`
	ResumedBy string `json:"resumed_by,omitempty"`
}

// OperatorStat is one per-operator row of the dashboard breakdown.
type OperatorStat struct {
	PersonID           int     `json:"person_id"`
	Name               string  `json:"name"`
	IsActive           bool    `json:"is_active"`
	IsPaused           bool    `json:"is_paused"`
	CurrentAssignments int     `json:"current_assignments"`
	TotalHandled       int     `json:"total_handled"`
	Unresolved         int     `json:"unresolved"`
	AvgResponseTime    float64 `json:"avg_response_time"`
}

// DashboardStats is the aggregate block the dashboard renders.
type DashboardStats struct {
	System struct {
		Status       string `json:"status"`
		Paused       bool   `json:"paused"`
		PausedReason string `json:"paused_reason,omitempty"`
	} `json:"system"`
	Operators struct {
		Total  int `json:"total"`
		Active int `json:"active"`
		Paused int `json:"paused"`
	} `json:"operators"`
	Assignments struct {
		Total int `json:"total"`
		Today int `json:"today"`
	} `json:"assignments"`
	Tickets struct {
		Unresolved             int     `json:"unresolved"`
		Overdue                int     `json:"overdue"`
		AvgResponseTimeMinutes float64 `json:"avg_response_time_minutes"`
	} `json:"tickets"`
	OperatorStats []OperatorStat `json:"operator_stats"`
}

// UserAccount is a console login account as managed by admins.
type UserAccount struct {
	ID                      int    `json:"id"`
	Username                string `json:"username"`
	FullName                string `json:"full_name,omitempty"`
	Role                    string `json:"role"`
	PersonID                *int   `json:"person_id,omitempty"`
	IsActive                bool   `json:"is_active"`
	CanAccessOperatorView   bool   `json:"can_access_operator_view"`
	CanAccessDeviceAnalysis bool   `json:"can_access_device_analysis"`
	CreatedAt               string `json:"created_at,omitempty"`
	LastLogin               string `json:"last_login,omitempty"`
}

// AuditTicket is a support ticket flagged for administrator manual review.
type AuditTicket struct {
	ID                  int     `json:"id"`
	TicketID            string  `json:"ticket_id"`
	CustomerID          string  `json:"customer_id,omitempty"`
	CustomerName        string  `json:"customer_name,omitempty"`
	Subject             string  `json:"subject,omitempty"`
	CreatedAt           string  `json:"created_at,omitempty"`
	Priority            string  `json:"priority,omitempty"`
	Status              string  `json:"status,omitempty"`
	AssignedTo          *int    `json:"assigned_to,omitempty"`
	IsClosed            bool    `json:"is_closed"`
	ExceededThreshold   bool    `json:"exceeded_threshold"`
	ResponseTimeMinutes float64 `json:"response_time_minutes,omitempty"`
	AuditRequestedAt    string  `json:"audit_requested_at,omitempty"`
	AuditRequestedBy    string  `json:"audit_requested_by,omitempty"`
	AuditNotified       bool    `json:"audit_notified"`
	AuditStatus         string  `json:"audit_status,omitempty"`
	AuditReviewedAt     string  `json:"audit_reviewed_at,omitempty"`
	AuditReviewedBy     string  `json:"audit_reviewed_by,omitempty"`
}

// Incident is one detected ticket incident row.
type Incident struct {
	ID                  int     `json:"id"`
	TicketID            string  `json:"ticket_id"`
	CustomerName        string  `json:"customer_name,omitempty"`
	Subject             string  `json:"subject,omitempty"`
	Priority            string  `json:"priority,omitempty"`
	Status              string  `json:"status,omitempty"`
	AssignedTo          *int    `json:"assigned_to,omitempty"`
	IsClosed            bool    `json:"is_closed"`
	ExceededThreshold   bool    `json:"exceeded_threshold"`
	ThresholdMinutes    int     `json:"threshold_minutes,omitempty"`
	ResponseTimeMinutes float64 `json:"response_time_minutes,omitempty"`
	CreatedAt           string  `json:"created_at,omitempty"`
}

// AssignmentStats summarizes per-operator assignment counters.
type AssignmentStats struct {
	TotalAssignments int `json:"total_assignments"`
	Operators        []struct {
		PersonID     int    `json:"person_id"`
		Name         string `json:"name"`
		TicketCount  int    `json:"ticket_count"`
		LastAssigned string `json:"last_assigned,omitempty"`
	} `json:"operators"`
}

// OperatorMetrics is the per-operator metrics block over a day window.
type OperatorMetrics struct {
	PersonID        int     `json:"person_id"`
	Name            string  `json:"name"`
	Days            int     `json:"days"`
	TotalAssigned   int     `json:"total_assigned"`
	TotalResolved   int     `json:"total_resolved"`
	AvgResponseTime float64 `json:"avg_response_time"`
	Daily           []struct {
		Date     string `json:"date"`
		Assigned int    `json:"assigned"`
		Resolved int    `json:"resolved"`
	} `json:"daily"`
}

// ReassignmentRecord is one row of the ticket reassignment history.
type ReassignmentRecord struct {
	ID           int    `json:"id"`
	TicketID     string `json:"ticket_id"`
	FromPersonID *int   `json:"from_person_id,omitempty"`
	ToPersonID   *int   `json:"to_person_id,omitempty"`
	Reason       string `json:"reason,omitempty"`
	ReassignedAt string `json:"reassigned_at,omitempty"`
	ReassignedBy string `json:"reassigned_by,omitempty"`
}

// DeviceAnalysis is the result of probing one customer device by IP.
type DeviceAnalysis struct {
	ID         int    `json:"id"`
	IPAddress  string `json:"ip_address"`
	Status     string `json:"status"`
	DeviceType string `json:"device_type,omitempty"`
	Diagnosis  string `json:"diagnosis,omitempty"`
	AnalyzedAt string `json:"analyzed_at,omitempty"`
	AnalyzedBy string `json:"analyzed_by,omitempty"`
}

// DeviceLogEntry is one backend log line of the device-analysis pipeline.
type DeviceLogEntry struct {
	ID        int    `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	IPAddress string `json:"ip_address,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DeviceLogStats aggregates device log counts by level.
type DeviceLogStats struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// DeviceStats aggregates device analysis outcomes.
type DeviceStats struct {
	TotalAnalyses int            `json:"total_analyses"`
	ByStatus      map[string]int `json:"by_status"`
	ByDeviceType  map[string]int `json:"by_device_type"`
}
