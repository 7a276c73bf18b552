package service

import (
	"time"

	"social-calendar-api/modules/availability/entity"
)

// BuildWorkScheduleBusyWindows expands a weekly work schedule into concrete busy
// windows over [rangeStart, rangeEnd). Days are walked in rangeStart's location.
// An empty schedule, a zero or inverted range, or a schedule without any usable
// block produces an empty slice. Windows come out day by day, primary block first.
func BuildWorkScheduleBusyWindows(schedules []entity.WorkScheduleDay, rangeStart, rangeEnd time.Time) []entity.BusyWindow {
	out := []entity.BusyWindow{}
	if len(schedules) == 0 || rangeStart.IsZero() || rangeEnd.IsZero() || !rangeEnd.After(rangeStart) {
		return out
	}

	var byWeekday [7][]entity.ClockBlock
	var enabled [7]bool
	usable := false
	for _, s := range schedules {
		if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
			continue
		}
		// later entries for the same weekday replace earlier ones
		byWeekday[s.DayOfWeek] = s.Blocks()
		enabled[s.DayOfWeek] = s.IsEnabled
	}
	for d := range 7 {
		if enabled[d] && len(byWeekday[d]) > 0 {
			usable = true
		}
	}
	if !usable {
		return out
	}

	loc := rangeStart.Location()
	y, m, d := rangeStart.Date()
	for day := time.Date(y, m, d, 0, 0, 0, 0, loc); day.Before(rangeEnd); day = nextDay(day) {
		wd := int(day.Weekday())
		if !enabled[wd] {
			continue
		}
		for _, b := range byWeekday[wd] {
			start, end := b.Start.On(day), b.End.On(day)
			if !end.After(start) {
				continue
			}
			out = append(out, entity.BusyWindow{Start: start, End: end, Source: entity.BusySourceWorkSchedule})
		}
	}
	return out
}

// nextDay steps by calendar date so that 23h and 25h DST days still land on midnight.
func nextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
