package service

import (
	"sort"
	"time"

	"social-calendar-api/modules/availability/entity"
)

const (
	weightAvailability = 0.6
	weightTimeOfDay    = 0.3
	presetNudge        = 0.1
)

// FilterSlotsToSuggestedHours keeps slots whose local clock span lies inside
// the window. Clock minutes are taken from the slot's own location; the end is
// measured from the start's midnight, so a slot ending at midnight ends at 1440
// and one crossing midnight ends past it.
//
// Overnight windows (EndHour > 24) accept a slot in either portion:
//   - evening: starts at or after StartHour and ends by EndHour, not by 24:00,
//     so 23:30-00:30 passes late_late
//   - morning overflow: ends by EndHour-24 on its own day
func FilterSlotsToSuggestedHours(slots []entity.SlotResult, window entity.SuggestedHoursWindow) []entity.SlotResult {
	out := make([]entity.SlotResult, 0, len(slots))
	lo, hi := window.StartHour*60, window.EndHour*60
	for _, s := range slots {
		start, end := clockSpan(s)
		pass := start >= lo && end <= hi
		if !pass && window.Overnight() {
			overflow := (window.EndHour - 24) * 60
			pass = start >= 0 && end <= overflow
		}
		if pass {
			out = append(out, s)
		}
	}
	return out
}

func clockSpan(s entity.SlotResult) (start, end int) {
	start = s.Start.Hour()*60 + s.Start.Minute()
	end = start + int(s.End.Sub(s.Start)/time.Minute)
	return start, end
}

// ScoreSlotSocial blends how many members can come, how sociable the hour is
// and a small nudge toward the preset's spirit.
func ScoreSlotSocial(slot entity.SlotResult, preset entity.SuggestedHoursPreset) float64 {
	return weightAvailability*slot.AvailabilityRatio() +
		weightTimeOfDay*timeOfDayWeight(slot.Start) +
		presetBonus(preset, slot.Start.Hour())
}

// RankSlotsForPreset filters slots to the preset's window and orders them by
// social score, highest first, earliest start on ties.
func RankSlotsForPreset(slots []entity.SlotResult, preset entity.SuggestedHoursPreset) []entity.SlotResult {
	filtered := FilterSlotsToSuggestedHours(slots, preset.Window())

	type scored struct {
		slot  entity.SlotResult
		score float64
	}
	items := make([]scored, len(filtered))
	for i, s := range filtered {
		items[i] = scored{slot: s, score: ScoreSlotSocial(s, preset)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].slot.Start.Before(items[j].slot.Start)
	})

	ranked := make([]entity.SlotResult, len(items))
	for i, it := range items {
		ranked[i] = it.slot
	}
	return ranked
}

type hourWeight struct {
	from, to int // [from, to)
	weight   float64
}

var (
	weekendWeights = []hourWeight{
		{10, 14, 1.0},
		{14, 17, 0.9},
		{17, 20, 0.8},
		{8, 10, 0.6},
		{20, 22, 0.6},
		{22, 24, 0.4},
		{6, 8, 0.3},
		{0, 6, 0.1},
	}
	weekdayWeights = []hourWeight{
		{17, 20, 1.0},
		{12, 13, 0.7},
		{20, 22, 0.7},
		{9, 12, 0.4},
		{13, 17, 0.4},
		{7, 9, 0.3},
		{22, 24, 0.3},
		{0, 7, 0.1},
	}
)

func timeOfDayWeight(start time.Time) float64 {
	table := weekdayWeights
	if wd := start.Weekday(); wd == time.Saturday || wd == time.Sunday {
		table = weekendWeights
	}
	h := start.Hour()
	for _, w := range table {
		if h >= w.from && h < w.to {
			return w.weight
		}
	}
	return 0
}

func presetBonus(preset entity.SuggestedHoursPreset, hour int) float64 {
	switch preset {
	case entity.PresetEarlyBird:
		switch {
		case hour >= 6 && hour < 10:
			return presetNudge
		case hour >= 21 || hour < 5:
			return -presetNudge
		}
	case entity.PresetNightOwl:
		switch {
		case hour >= 20:
			return presetNudge
		case hour >= 5 && hour < 8:
			return -presetNudge
		}
	case entity.PresetLateLate:
		switch {
		case hour >= 22 || hour < 2:
			return presetNudge
		case hour >= 5 && hour < 12:
			return -presetNudge
		}
	}
	return 0
}
