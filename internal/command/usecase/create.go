package usecase

import (
	"context"
	"fmt"
	"time"

	"agenda-assistant/internal/command"
	"agenda-assistant/internal/interpreter"
	"agenda-assistant/internal/model"
	"agenda-assistant/pkg/gcalendar"
)

// defaultDuration is used whenever no end time (or a nonsensical one) was
// given.
const defaultDuration = time.Hour

// createEvent builds a start/end pair from the natural-language date and
// time fields, runs the near-duplicate soft check, and inserts the event.
func (uc *implUseCase) createEvent(ctx context.Context, sc model.Scope, p interpreter.Parameters) (command.ActionResult, error) {
	now := uc.now()

	title := p.Title
	if title == "" {
		title = "Nuovo evento"
	}

	day := uc.dates.ResolveDate(p.Date, now)
	start := uc.dates.Combine(day, uc.dates.ResolveTime(p.StartTime, now))
	end := start.Add(defaultDuration)
	if p.EndTime != "" {
		end = uc.dates.Combine(day, uc.dates.ResolveTime(p.EndTime, now))
		if !end.After(start) {
			end = start.Add(defaultDuration)
		}
	}

	if dup, err := uc.findDuplicate(ctx, title, start); err != nil {
		uc.l.Warnf(ctx, "create: duplicate check failed, proceeding: %v", err)
	} else if dup != nil {
		uc.l.Infof(ctx, "create: withheld, %q looks like existing event %s", title, dup.ID)
		return command.ActionResult{
			PotentialDuplicate: true,
			EventID:            dup.ID,
			EventLink:          dup.HtmlLink,
			Message: fmt.Sprintf("Esiste già un evento simile: \"%s\" %s. Vuoi crearlo comunque?",
				dup.Summary, formatInstant(dup.StartTime)),
		}, nil
	}

	created, err := uc.calendar.InsertEvent(ctx, gcalendar.InsertEventRequest{
		CalendarID:  uc.cfg.CalendarID,
		Summary:     title,
		Description: p.Description,
		StartTime:   start,
		EndTime:     end,
		Attendees:   p.Attendees,
		Timezone:    uc.cfg.Timezone,
	})
	if err != nil {
		return command.ActionResult{}, fmt.Errorf("failed to insert event: %w", err)
	}

	uc.resolver.Store().Remember(sc.SessionID, created.ID, created.Summary)

	return command.ActionResult{
		Success:   true,
		EventID:   created.ID,
		EventLink: created.HtmlLink,
		Message:   fmt.Sprintf("Evento \"%s\" creato per %s.", created.Summary, formatInstant(created.StartTime)),
	}, nil
}

// findDuplicate looks for an event with a similar title in a narrow window
// around the intended start. A match is a soft signal, not a hard rejection.
func (uc *implUseCase) findDuplicate(ctx context.Context, title string, start time.Time) (*gcalendar.Event, error) {
	events, err := uc.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: uc.cfg.CalendarID,
		TimeMin:    start.Add(-uc.cfg.DuplicateWindow),
		TimeMax:    start.Add(uc.cfg.DuplicateWindow),
		MaxResults: 20,
	})
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		if similarTitle(ev.Summary, title) {
			return ev, nil
		}
	}
	return nil, nil
}
