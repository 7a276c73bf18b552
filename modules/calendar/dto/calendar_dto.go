package dto

// Provider constants
const (
	ProviderGoogle = "google"
)

// ========== Calendar Connection DTOs ==========

// CalendarConnectionResponse represents a calendar connection
type CalendarConnectionResponse struct {
	ID            string `json:"id"`
	Provider      string `json:"provider"`
	CalendarEmail string `json:"calendar_email"`
	IsActive      bool   `json:"is_active"`
	ConnectedAt   string `json:"connected_at"`
}

// CalendarConnectionListResponse represents list of connections
type CalendarConnectionListResponse struct {
	Connections []CalendarConnectionResponse `json:"connections"`
}

// ========== Google Free/Busy DTOs ==========

// FreeBusyQuery is the body of a Google Calendar freeBusy request
type FreeBusyQuery struct {
	TimeMin string         `json:"timeMin"` // RFC3339
	TimeMax string         `json:"timeMax"` // RFC3339
	Items   []FreeBusyItem `json:"items"`
}

type FreeBusyItem struct {
	ID string `json:"id"`
}

// FreeBusyResult is the part of the freeBusy response we read
type FreeBusyResult struct {
	Calendars map[string]struct {
		Busy []TimeSlot `json:"busy"`
	} `json:"calendars"`
}

// TimeSlot represents a time period
type TimeSlot struct {
	Start string `json:"start"` // RFC3339
	End   string `json:"end"`   // RFC3339
}
