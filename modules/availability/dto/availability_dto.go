package dto

import (
	"time"

	"social-calendar-api/modules/availability/entity"
)

// ===================== Request DTOs =====================

// WorkScheduleDayRequest is one weekday of the weekly schedule
type WorkScheduleDayRequest struct {
	DayOfWeek       int     `json:"day_of_week" validate:"min=0,max=6"`
	IsEnabled       bool    `json:"is_enabled"`
	StartTime       string  `json:"start_time" validate:"required_if=IsEnabled true,omitempty,hhmm"`
	EndTime         string  `json:"end_time" validate:"required_if=IsEnabled true,omitempty,hhmm"`
	Block2StartTime *string `json:"block2_start_time" validate:"omitempty,hhmm"`
	Block2EndTime   *string `json:"block2_end_time" validate:"omitempty,hhmm"`
}

// SaveWorkScheduleRequest replaces the whole week
type SaveWorkScheduleRequest struct {
	Days []WorkScheduleDayRequest `json:"days" validate:"max=7,unique=DayOfWeek,dive"`
}

// SavePresetRequest for storing the suggested-hours preset
type SavePresetRequest struct {
	Preset string `json:"preset" validate:"required"`
}

// ManualBusyRequest is a caller-supplied busy interval for one member
type ManualBusyRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Start  string `json:"start" validate:"required"` // RFC3339
	End    string `json:"end" validate:"required"`   // RFC3339
}

// ScheduleRequest asks for group slots over a date range
type ScheduleRequest struct {
	MemberIDs  []string            `json:"member_ids" validate:"required,min=1,max=50,dive,uuid"`
	RangeStart string              `json:"range_start"` // RFC3339 or YYYY-MM-DD
	RangeEnd   string              `json:"range_end"`   // RFC3339 or YYYY-MM-DD, defaults to range_start + search_days
	SearchDays int                 `json:"search_days" validate:"omitempty,min=1,max=31"`
	Timezone   string              `json:"timezone" validate:"omitempty,timezone"`
	Rank       bool                `json:"rank"`
	Preset     string              `json:"preset"` // empty uses the requester's stored preset
	Limit      int                 `json:"limit" validate:"omitempty,min=1,max=500"`
	ManualBusy []ManualBusyRequest `json:"manual_busy" validate:"omitempty,max=500,dive"`
}

// ===================== Response DTOs =====================

// WorkScheduleResponse for the weekly schedule
type WorkScheduleResponse struct {
	Days []entity.WorkScheduleDay `json:"days"`
}

// PresetResponse for a stored or listed preset
type PresetResponse struct {
	Preset    entity.SuggestedHoursPreset `json:"preset"`
	Label     string                      `json:"label"`
	StartHour int                         `json:"start_hour"`
	EndHour   int                         `json:"end_hour"`
	Overnight bool                        `json:"overnight"`
}

// SlotResponse is one candidate slot
type SlotResponse struct {
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
	AvailableCount     int       `json:"available_count"`
	TotalMembers       int       `json:"total_members"`
	AvailableUserIDs   []string  `json:"available_user_ids"`
	UnavailableUserIDs []string  `json:"unavailable_user_ids"`
	Score              float64   `json:"score"`
	SocialScore        *float64  `json:"social_score,omitempty"`
}

// ScheduleResponse is the result of one computation.
// Slots is null when IsRangeValid is false or no slot fit the range.
type ScheduleResponse struct {
	RequestSeq   uint64                       `json:"request_seq"`
	IsRangeValid bool                         `json:"is_range_valid"`
	Superseded   bool                         `json:"superseded"`
	RangeStart   *time.Time                   `json:"range_start,omitempty"`
	RangeEnd     *time.Time                   `json:"range_end,omitempty"`
	Timezone     string                       `json:"timezone"`
	Members      []string                     `json:"members"`
	Ranked       bool                         `json:"ranked"`
	Preset       *entity.SuggestedHoursPreset `json:"preset,omitempty"`
	TotalSlots   int                          `json:"total_slots"`
	Slots        []SlotResponse               `json:"slots"`
	ComputedAt   time.Time                    `json:"computed_at"`
}

// WarmUpResponse for an enqueued background computation
type WarmUpResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
}
