package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agenda-assistant/internal/command"
	"agenda-assistant/internal/interpreter"
	"agenda-assistant/internal/model"
	"agenda-assistant/pkg/gcalendar"
)

// deleteEvents removes either everything in a day (or week) window, or one
// resolved event. Bulk deletion is best-effort: individual failures are
// logged and skipped, and the count reflects what actually went through.
func (uc *implUseCase) deleteEvents(ctx context.Context, sc model.Scope, p interpreter.Parameters) (command.ActionResult, error) {
	bulk := p.DeleteAll || (p.Date != "" && p.EventID == "" && p.Title == "")
	if bulk {
		return uc.deleteWindow(ctx, sc, p)
	}

	eventID := p.EventID
	if eventID == "" {
		id, err := uc.resolver.Resolve(ctx, sc, p.Title, uc.now())
		if err != nil {
			return command.ActionResult{}, err
		}
		eventID = id
	}

	if err := uc.calendar.DeleteEvent(ctx, uc.cfg.CalendarID, eventID); err != nil {
		return command.ActionResult{}, fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}

	uc.resolver.Store().Forget(sc.SessionID)

	return command.ActionResult{
		Success:      true,
		EventID:      eventID,
		DeletedCount: 1,
		Message:      "Evento eliminato.",
	}, nil
}

func (uc *implUseCase) deleteWindow(ctx context.Context, sc model.Scope, p interpreter.Parameters) (command.ActionResult, error) {
	now := uc.now()

	day := uc.dates.ResolveDate(p.Date, now)
	timeMin, timeMax := day, uc.dates.EndOfDay(day)
	if strings.Contains(strings.ToLower(p.Date), "settimana") {
		timeMax = uc.dates.EndOfDay(day.Add(6 * 24 * time.Hour))
	}

	events, err := uc.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: uc.cfg.CalendarID,
		TimeMin:    timeMin,
		TimeMax:    timeMax,
		MaxResults: 100,
	})
	if err != nil {
		return command.ActionResult{}, fmt.Errorf("failed to list events for bulk delete: %w", err)
	}

	deleted := 0
	for _, ev := range events {
		if err := uc.calendar.DeleteEvent(ctx, uc.cfg.CalendarID, ev.ID); err != nil {
			uc.l.Warnf(ctx, "delete: skipping %s (%q): %v", ev.ID, ev.Summary, err)
			continue
		}
		deleted++
	}

	uc.resolver.Store().Forget(sc.SessionID)

	msg := fmt.Sprintf("Eliminati %d eventi.", deleted)
	if deleted == 0 {
		msg = "Nessun evento da eliminare nel periodo richiesto."
	}
	return command.ActionResult{
		Success:      true,
		DeletedCount: deleted,
		Message:      msg,
	}, nil
}
