package gcalendar

import "time"

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
	Attendees   []string // attendee email addresses
	Location    string
}

// ListEventsRequest is the input for listing Google Calendar events.
type ListEventsRequest struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	Query      string // free-text filter passed through to the API
	MaxResults int64
}

// InsertEventRequest is the input for creating a Google Calendar event.
type InsertEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Attendees   []string
	Timezone    string // e.g. "Europe/Rome"
}

// UpdateEventRequest is the input for updating an existing event. Zero-value
// fields are left untouched on the remote event.
type UpdateEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Attendees   []string // nil means "no change", non-nil replaces wholesale
	Timezone    string
}
