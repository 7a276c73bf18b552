package entity

import "time"

// BusySource tags where a busy window came from. It never affects computation.
type BusySource string

const (
	BusySourceManual       BusySource = "manual"
	BusySourceEvent        BusySource = "event"
	BusySourceWorkSchedule BusySource = "work_schedule"
	BusySourceImport       BusySource = "import"
)

// BusyWindow is an interval [Start, End) during which a member is unavailable.
type BusyWindow struct {
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Source BusySource `json:"source"`
}

// Valid reports whether the window has both instants and a positive duration.
func (w BusyWindow) Valid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.End.After(w.Start)
}
