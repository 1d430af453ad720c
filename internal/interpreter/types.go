package interpreter

// ActionType enumerates the four canonical calendar actions.
type ActionType string

const (
	ActionCreateEvent ActionType = "CREATE_EVENT"
	ActionUpdateEvent ActionType = "UPDATE_EVENT"
	ActionViewEvents  ActionType = "VIEW_EVENTS"
	ActionDeleteEvent ActionType = "DELETE_EVENT"
)

// Attendee list handling on update.
const (
	AttendeesReplace = "REPLACE"
	AttendeesAdd     = "ADD"
)

// Time modification kinds and directions.
const (
	ShiftTypeShift = "SHIFT"
	ShiftTypeExact = "EXACT"

	DirectionForward  = "FORWARD"
	DirectionBackward = "BACKWARD"

	UnitHour   = "HOUR"
	UnitMinute = "MINUTE"
)

// TimeModification describes a relative shift of an event's start/end
// (type SHIFT) or an absolute new start time (type EXACT).
type TimeModification struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
	Amount    int    `json:"amount,omitempty"`
	Unit      string `json:"unit,omitempty"`
	Time      string `json:"time,omitempty"` // "HH:MM" when Type is EXACT
}

// Parameters carries the optional arguments of a canonical action. Stages
// only fill in missing fields, never overwrite what the user supplied.
type Parameters struct {
	Title            string            `json:"title,omitempty"`
	Description      string            `json:"description,omitempty"`
	Date             string            `json:"date,omitempty"` // natural language or ISO
	StartTime        string            `json:"startTime,omitempty"`
	EndTime          string            `json:"endTime,omitempty"`
	Attendees        []string          `json:"attendees,omitempty"`
	EventID          string            `json:"eventId,omitempty"`
	Query            string            `json:"query,omitempty"`
	MaxResults       int               `json:"maxResults,omitempty"`
	DeleteAll        bool              `json:"deleteAll,omitempty"`
	AttendeesAction  string            `json:"attendeesAction,omitempty"`
	TimeModification *TimeModification `json:"timeModification,omitempty"`

	// Legacy alternate shift encoding, kept for prompts that answer with a
	// bare hour count instead of a structured shift.
	HoursToShift  int    `json:"hoursToShift,omitempty"`
	MoveDirection string `json:"moveDirection,omitempty"`
}

// CanonicalAction is the single output contract of the interpretation
// pipeline: every stage converges on this shape.
type CanonicalAction struct {
	Action     ActionType `json:"action"`
	Parameters Parameters `json:"parameters"`
}

// Special command types detected by the preprocessor.
const (
	SpecialDeleteAll = "DELETE_ALL"
)

// Entities are the coarse temporal and entity hints scraped from the raw
// command before any LLM call.
type Entities struct {
	SpecificDate   string
	Weekday        string
	Period         string // "questa settimana", "prossima settimana", "questo mese"
	SpecificTime   string // "HH:MM"
	HourModifier   int
	MinuteModifier int
	Modifier       string // which unit the modifier was found in: UnitHour or UnitMinute
}

// Metadata is the ephemeral per-command result of preprocessing.
type Metadata struct {
	IsSpecialCommand   bool
	SpecialCommandType string
	// DirectResponse, when set, is a ready-made action that bypasses the
	// LLM entirely.
	DirectResponse     *CanonicalAction
	HasTemporalContext bool
	HasMultipleActions bool
	SubCommands        []string
	Entities           Entities
}
