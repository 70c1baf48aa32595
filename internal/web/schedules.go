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

type scheduleRequest struct {
	PersonID     int    `json:"person_id"`
	DayOfWeek    int    `json:"day_of_week"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ScheduleType string `json:"schedule_type"`
	IsActive     bool   `json:"is_active"`
}

func (req scheduleRequest) validate() string {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return "day_of_week must be between 0 and 6"
	}
	if req.StartTime == "" || req.EndTime == "" {
		return "start_time and end_time are required"
	}
	switch backend.ScheduleType(req.ScheduleType) {
	case backend.ScheduleWork, backend.ScheduleAssignment, backend.ScheduleAlert:
		return ""
	default:
		return "schedule_type must be work, assignment, or alert"
	}
}

func (req scheduleRequest) wire() backend.ScheduleRequest {
	return backend.ScheduleRequest{
		PersonID:     req.PersonID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ScheduleType: backend.ScheduleType(req.ScheduleType),
		IsActive:     req.IsActive,
	}
}

// HandleCreateSchedule adds a day-of-week time range to an operator.
func (h *Handlers) HandleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	req, ok := requireBody[scheduleRequest](w, r, h)
	if !ok {
		return
	}
	if req.PersonID == 0 {
		badRequest(w, "person_id is required")
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "create_schedule",
		SuccessMessage: "Schedule created.",
		Owner:          h.operators,
		Audit: &audit.Event{
			Action:     audit.ActionScheduleCreated,
			Actor:      actor(r),
			EntityType: "schedule",
			EntityID:   strconv.Itoa(req.PersonID),
			Detail:     req.ScheduleType,
		},
		Call: func(ctx context.Context) error {
			return h.backend.CreateSchedule(ctx, req.wire())
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, successBody{Success: true, Message: "Schedule created"})
}

// HandleUpdateSchedule edits an existing schedule row.
func (h *Handlers) HandleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := pathInt(w, r, "scheduleID")
	if !ok {
		return
	}
	req, ok := requireBody[scheduleRequest](w, r, h)
	if !ok {
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "update_schedule",
		SuccessMessage: "Schedule updated.",
		Owner:          h.operators,
		Audit: &audit.Event{
			Action:     audit.ActionScheduleUpdated,
			Actor:      actor(r),
			EntityType: "schedule",
			EntityID:   strconv.Itoa(scheduleID),
		},
		Call: func(ctx context.Context) error {
			return h.backend.UpdateSchedule(ctx, scheduleID, req.wire())
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Schedule updated"})
}

type confirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

// HandleDeleteSchedule removes a schedule row. Destructive: the range is gone
// and assignment eligibility changes immediately.
func (h *Handlers) HandleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := pathInt(w, r, "scheduleID")
	if !ok {
		return
	}
	req, ok := requireBody[confirmRequest](w, r, h)
	if !ok {
		return
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "delete_schedule",
		SuccessMessage: "Schedule deleted.",
		Destructive:    true,
		Confirmed:      req.Confirmed,
		Owner:          h.operators,
		Audit: &audit.Event{
			Action:     audit.ActionScheduleDeleted,
			Actor:      actor(r),
			EntityType: "schedule",
			EntityID:   strconv.Itoa(scheduleID),
		},
		Call: func(ctx context.Context) error {
			return h.backend.DeleteSchedule(ctx, scheduleID)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Schedule deleted"})
}

// HandleAssignmentStats returns per-operator assignment counters.
func (h *Handlers) HandleAssignmentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.backend.GetAssignmentStats(r.Context())
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

type resetCountersRequest struct {
	PersonID  *int `json:"person_id"`
	Confirmed bool `json:"confirmed"`
}

// HandleResetCounters zeroes assignment counters, for one operator or all.
func (h *Handlers) HandleResetCounters(w http.ResponseWriter, r *http.Request) {
	req, ok := requireBody[resetCountersRequest](w, r, h)
	if !ok {
		return
	}
	by := actor(r)

	entityID := "all"
	if req.PersonID != nil {
		entityID = strconv.Itoa(*req.PersonID)
	}

	err := h.dispatcher.Dispatch(r.Context(), dispatch.Action{
		Name:           "reset_counters",
		SuccessMessage: "Assignment counters reset.",
		Destructive:    true,
		Confirmed:      req.Confirmed,
		Owner:          refreshGroup{h.operators, h.dashboard},
		Audit: &audit.Event{
			Action:     audit.ActionCountersReset,
			Actor:      by,
			EntityType: "assignment_counters",
			EntityID:   entityID,
		},
		Call: func(ctx context.Context) error {
			return h.backend.ResetAssignmentCounters(ctx, req.PersonID, by)
		},
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, successBody{Success: true, Message: "Counters reset"})
}
