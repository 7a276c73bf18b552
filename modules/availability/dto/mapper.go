package dto

import (
	"strings"
	"time"

	"social-calendar-api/modules/availability/entity"
)

const dateLayout = "2006-01-02"

// ParseRangeTime accepts RFC3339 or a bare YYYY-MM-DD (midnight in loc).
// Anything else yields the zero time, which the engine treats as an invalid range.
func ParseRangeTime(raw string, loc *time.Location) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc)
	}
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t
	}
	return time.Time{}
}

func ToWorkScheduleDays(req []WorkScheduleDayRequest) []entity.WorkScheduleDay {
	days := make([]entity.WorkScheduleDay, 0, len(req))
	for _, d := range req {
		days = append(days, entity.WorkScheduleDay{
			DayOfWeek:       d.DayOfWeek,
			IsEnabled:       d.IsEnabled,
			StartTime:       d.StartTime,
			EndTime:         d.EndTime,
			Block2StartTime: d.Block2StartTime,
			Block2EndTime:   d.Block2EndTime,
		})
	}
	return days
}

func ToPresetResponse(p entity.SuggestedHoursPreset) PresetResponse {
	w := p.Window()
	return PresetResponse{
		Preset:    p,
		Label:     w.Label,
		StartHour: w.StartHour,
		EndHour:   w.EndHour,
		Overnight: w.Overnight(),
	}
}

func ToSlotResponses(slots []entity.SlotResult, social func(entity.SlotResult) float64) []SlotResponse {
	if slots == nil {
		return nil
	}
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		r := SlotResponse{
			Start:              s.Start,
			End:                s.End,
			AvailableCount:     s.AvailableCount,
			TotalMembers:       s.TotalMembers,
			AvailableUserIDs:   s.AvailableUserIDs,
			UnavailableUserIDs: s.UnavailableUserIDs,
			Score:              s.Score,
		}
		if social != nil {
			v := social(s)
			r.SocialScore = &v
		}
		out = append(out, r)
	}
	return out
}
