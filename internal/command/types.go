package command

import (
	"time"

	"agenda-assistant/internal/interpreter"
)

// ProcessInput is the input for command processing.
type ProcessInput struct {
	RawCommand string // natural language, Italian
}

// Interpretation sources, recorded on every result for observability.
const (
	SourceDirect = "direct" // preprocessor short-circuit, no LLM involved
	SourceModel  = "model"  // LLM interpretation, normalized successfully
	SourceLocal  = "local"  // deterministic fallback parser
)

// EventSummary is the caller-facing view of a calendar event.
type EventSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	AllDay    bool      `json:"allDay"`
	Attendees []string  `json:"attendees,omitempty"`
	Link      string    `json:"link,omitempty"`
}

// ActionResult is the outcome of one executed action. Failures are carried
// here as Success=false with a human-readable message; only input-level
// problems (empty command) surface as errors from Process.
type ActionResult struct {
	Success bool                   `json:"success"`
	Action  interpreter.ActionType `json:"action"`
	Message string                 `json:"message"`
	Source  string                 `json:"source"`

	EventID   string         `json:"eventId,omitempty"`
	EventLink string         `json:"eventLink,omitempty"`
	Events    []EventSummary `json:"events,omitempty"`

	DeletedCount int `json:"deletedCount,omitempty"`

	// PotentialDuplicate marks a create that was withheld because a
	// near-identical event already sits in a narrow time window. Soft
	// signal: the caller decides whether to insist.
	PotentialDuplicate bool `json:"potentialDuplicate,omitempty"`

	// AuthExpired marks a failure caused by expired calendar credentials,
	// so the caller can prompt a re-login instead of a retry.
	AuthExpired bool `json:"authExpired,omitempty"`
}

// ProcessOutput carries one result per executed sub-command. Compound
// commands ("crea X e poi mostra Y") produce several.
type ProcessOutput struct {
	Results []ActionResult `json:"results"`
}
