package entity

import "time"

// SlotResult is one candidate meeting slot and who can attend it.
type SlotResult struct {
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
	AvailableCount     int       `json:"available_count"`
	TotalMembers       int       `json:"total_members"`
	AvailableUserIDs   []string  `json:"available_user_ids"`
	UnavailableUserIDs []string  `json:"unavailable_user_ids"`
	Score              float64   `json:"score"`
}

// AvailabilityRatio is AvailableCount/TotalMembers, 0 for an empty group.
func (s SlotResult) AvailabilityRatio() float64 {
	if s.TotalMembers == 0 {
		return 0
	}
	return float64(s.AvailableCount) / float64(s.TotalMembers)
}
