package command

import (
	"context"

	"agenda-assistant/internal/model"
)

// UseCase is the inbound interface of the assistant: one natural-language
// command in, one or more action results out.
type UseCase interface {
	// Process runs the full pipeline on a raw Italian command: preprocess,
	// interpret (LLM with local fallback), resolve event references, and
	// execute against the calendar. Only VIEW_EVENTS is idempotent; the
	// other actions mutate the remote calendar.
	Process(ctx context.Context, sc model.Scope, input ProcessInput) (ProcessOutput, error)
}
