package service

import (
	"sort"
	"time"

	"social-calendar-api/modules/availability/entity"
)

const (
	SlotDuration = 60 * time.Minute
	SlotStep     = 30 * time.Minute
)

type interval struct {
	start, end int64 // unix nanos
}

// ComputeSchedule lists every SlotDuration-long slot starting at rangeStart and
// every SlotStep after it that fits inside the range, with each member marked
// available or not. Members absent from busyByMember are free; malformed busy
// windows are dropped. The result is ordered by score descending, then start
// ascending.
//
// ok is false (and slots nil) when the range is zero or inverted or when no
// slot fits in it.
func ComputeSchedule(members []string, busyByMember map[string][]entity.BusyWindow, rangeStart, rangeEnd time.Time) (slots []entity.SlotResult, ok bool) {
	if rangeStart.IsZero() || rangeEnd.IsZero() || !rangeEnd.After(rangeStart) {
		return nil, false
	}

	busy := make([][]interval, len(members))
	for i, id := range members {
		busy[i] = sortedIntervals(busyByMember[id])
	}

	for t := rangeStart; !t.Add(SlotDuration).After(rangeEnd); t = t.Add(SlotStep) {
		slotEnd := t.Add(SlotDuration)
		s, e := t.UnixNano(), slotEnd.UnixNano()

		available := make([]string, 0, len(members))
		unavailable := make([]string, 0)
		for i, id := range members {
			if overlapsAny(busy[i], s, e) {
				unavailable = append(unavailable, id)
			} else {
				available = append(available, id)
			}
		}

		slot := entity.SlotResult{
			Start:              t,
			End:                slotEnd,
			AvailableCount:     len(available),
			TotalMembers:       len(members),
			AvailableUserIDs:   available,
			UnavailableUserIDs: unavailable,
		}
		slot.Score = slot.AvailabilityRatio()
		slots = append(slots, slot)
	}

	if len(slots) == 0 {
		return nil, false
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Score != slots[j].Score {
			return slots[i].Score > slots[j].Score
		}
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots, true
}

func sortedIntervals(windows []entity.BusyWindow) []interval {
	out := make([]interval, 0, len(windows))
	for _, w := range windows {
		if !w.Valid() {
			continue
		}
		out = append(out, interval{start: w.Start.UnixNano(), end: w.End.UnixNano()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// overlapsAny relies on windows being sorted by start: once a window starts at
// or after the slot end, no later one can overlap.
func overlapsAny(windows []interval, slotStart, slotEnd int64) bool {
	for _, w := range windows {
		if w.start >= slotEnd {
			return false
		}
		if slotStart < w.end && slotEnd > w.start {
			return true
		}
	}
	return false
}
