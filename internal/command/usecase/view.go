package usecase

import (
	"context"
	"fmt"
	"time"

	"agenda-assistant/internal/command"
	"agenda-assistant/internal/interpreter"
	"agenda-assistant/pkg/gcalendar"
)

// viewEvents lists upcoming events: the next seven days by default, or a
// single day when a date was given. Zero matches is a success, not an error.
func (uc *implUseCase) viewEvents(ctx context.Context, p interpreter.Parameters) (command.ActionResult, error) {
	now := uc.now()

	timeMin, timeMax := now, now.Add(7*24*time.Hour)
	if p.Date != "" {
		day := uc.dates.ResolveDate(p.Date, now)
		timeMin, timeMax = day, uc.dates.EndOfDay(day)
	}

	maxResults := int64(p.MaxResults)
	if maxResults <= 0 {
		maxResults = 10
	}

	events, err := uc.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: uc.cfg.CalendarID,
		TimeMin:    timeMin,
		TimeMax:    timeMax,
		Query:      p.Query,
		MaxResults: maxResults,
	})
	if err != nil {
		return command.ActionResult{}, fmt.Errorf("failed to list events: %w", err)
	}

	res := command.ActionResult{Success: true}
	for _, ev := range events {
		res.Events = append(res.Events, toSummary(ev))
	}

	if len(events) == 0 {
		res.Message = "Nessun evento in programma nel periodo richiesto."
	} else {
		res.Message = fmt.Sprintf("Trovati %d eventi.", len(events))
	}
	return res, nil
}
