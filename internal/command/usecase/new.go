package usecase

import (
	"context"
	"time"

	"agenda-assistant/internal/resolver"
	"agenda-assistant/pkg/datemath"
	"agenda-assistant/pkg/gcalendar"
	"agenda-assistant/pkg/llmprovider"
	pkgLog "agenda-assistant/pkg/log"
)

// Calendar is the slice of the Google Calendar client the executor needs.
type Calendar interface {
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]*gcalendar.Event, error)
	GetEvent(ctx context.Context, calendarID, eventID string) (*gcalendar.Event, error)
	InsertEvent(ctx context.Context, req gcalendar.InsertEventRequest) (*gcalendar.Event, error)
	UpdateEvent(ctx context.Context, eventID string, req gcalendar.UpdateEventRequest) (*gcalendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Completer is the LLM capability consumed by the interpreter stage.
type Completer interface {
	Complete(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Config carries the executor's calendar settings.
type Config struct {
	CalendarID      string
	Timezone        string
	DuplicateWindow time.Duration // window for the near-duplicate soft check on create
}

type implUseCase struct {
	l        pkgLog.Logger
	llm      Completer
	calendar Calendar
	resolver *resolver.Resolver
	dates    *datemath.Resolver
	cfg      Config
	now      func() time.Time
}

// New creates the command UseCase.
func New(
	l pkgLog.Logger,
	llm Completer,
	calendar Calendar,
	res *resolver.Resolver,
	dates *datemath.Resolver,
	cfg Config,
) *implUseCase {
	if cfg.DuplicateWindow <= 0 {
		cfg.DuplicateWindow = 5 * time.Minute
	}
	return &implUseCase{
		l:        l,
		llm:      llm,
		calendar: calendar,
		resolver: res,
		dates:    dates,
		cfg:      cfg,
		now:      time.Now,
	}
}
