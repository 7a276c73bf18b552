package entity

import (
	"strings"

	"github.com/gosimple/slug"
)

// SuggestedHoursPreset names one of the fixed suggested-hours windows.
type SuggestedHoursPreset string

const (
	PresetEarlyBird SuggestedHoursPreset = "early_bird"
	PresetDefault   SuggestedHoursPreset = "default"
	PresetNightOwl  SuggestedHoursPreset = "night_owl"
	PresetLateLate  SuggestedHoursPreset = "late_late"
)

// SuggestedHoursWindow is a daily clock range. EndHour above 24 runs past
// midnight into the next calendar day (26 means 02:00).
type SuggestedHoursWindow struct {
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	Label     string `json:"label"`
}

// Overnight reports whether the window crosses midnight.
func (w SuggestedHoursWindow) Overnight() bool {
	return w.EndHour > 24
}

var presetWindows = map[SuggestedHoursPreset]SuggestedHoursWindow{
	PresetEarlyBird: {StartHour: 6, EndHour: 20, Label: "Early Bird"},
	PresetDefault:   {StartHour: 9, EndHour: 22, Label: "Default"},
	PresetNightOwl:  {StartHour: 12, EndHour: 24, Label: "Night Owl"},
	PresetLateLate:  {StartHour: 15, EndHour: 26, Label: "Late Late"},
}

// Presets lists the presets in display order.
func Presets() []SuggestedHoursPreset {
	return []SuggestedHoursPreset{PresetEarlyBird, PresetDefault, PresetNightOwl, PresetLateLate}
}

// Window returns the preset's window, falling back to the default window for unknown presets.
func (p SuggestedHoursPreset) Window() SuggestedHoursWindow {
	if w, ok := presetWindows[p]; ok {
		return w
	}
	return presetWindows[PresetDefault]
}

func (p SuggestedHoursPreset) Known() bool {
	_, ok := presetWindows[p]
	return ok
}

// LookupPreset normalises free-form input ("Night Owl", "night-owl", " LATE_LATE ")
// and reports whether it names a known preset.
func LookupPreset(raw string) (SuggestedHoursPreset, bool) {
	p := SuggestedHoursPreset(strings.ReplaceAll(slug.Make(raw), "-", "_"))
	return p, p.Known()
}

// ParsePreset is LookupPreset with missing or unrecognised values mapped to PresetDefault.
func ParsePreset(raw string) SuggestedHoursPreset {
	if p, ok := LookupPreset(raw); ok {
		return p
	}
	return PresetDefault
}
