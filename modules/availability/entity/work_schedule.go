package entity

import (
	"strconv"
	"strings"
	"time"

	coreEntity "social-calendar-api/core/entity"

	"github.com/google/uuid"
)

// WorkScheduleDay is one weekday's recurring work block(s) for one user.
// Times are "HH:MM" wall-clock strings; Block2 is an optional second block for split shifts.
type WorkScheduleDay struct {
	coreEntity.BaseEntity
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	DayOfWeek       int       `db:"day_of_week" json:"day_of_week"` // 0 = Sunday
	IsEnabled       bool      `db:"is_enabled" json:"is_enabled"`
	StartTime       string    `db:"start_time" json:"start_time"`
	EndTime         string    `db:"end_time" json:"end_time"`
	Block2StartTime *string   `db:"block2_start_time" json:"block2_start_time,omitempty"`
	Block2EndTime   *string   `db:"block2_end_time" json:"block2_end_time,omitempty"`
}

// ClockMinutes is a wall-clock time as minutes since midnight.
type ClockMinutes int

// ParseClock parses "HH:MM" into minutes since midnight. Hours may run past 23
// (e.g. "24:00"); the caller decides whether that is meaningful.
func ParseClock(s string) (ClockMinutes, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return ClockMinutes(h*60 + m), true
}

// On anchors the clock time to the calendar day of midnight.
func (c ClockMinutes) On(midnight time.Time) time.Time {
	y, mo, d := midnight.Date()
	return time.Date(y, mo, d, 0, int(c), 0, 0, midnight.Location())
}

// ClockBlock is a parsed [Start, End) block within one day.
type ClockBlock struct {
	Start ClockMinutes
	End   ClockMinutes
}

// Blocks returns the parseable blocks of the day in primary-then-second order.
// A block missing either side or failing to parse is left out.
func (d WorkScheduleDay) Blocks() []ClockBlock {
	blocks := make([]ClockBlock, 0, 2)
	if b, ok := parseBlock(d.StartTime, d.EndTime); ok {
		blocks = append(blocks, b)
	}
	if d.Block2StartTime != nil && d.Block2EndTime != nil {
		if b, ok := parseBlock(*d.Block2StartTime, *d.Block2EndTime); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func parseBlock(start, end string) (ClockBlock, bool) {
	if start == "" || end == "" {
		return ClockBlock{}, false
	}
	s, ok := ParseClock(start)
	if !ok {
		return ClockBlock{}, false
	}
	e, ok := ParseClock(end)
	if !ok {
		return ClockBlock{}, false
	}
	return ClockBlock{Start: s, End: e}, true
}
