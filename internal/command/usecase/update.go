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

// updateEvent resolves the target event and moves it in time and/or changes
// its attendee list. Exactly one time rule applies, in precedence order:
// structured timeModification, then the legacy hour count, then explicit
// clock times, then a bare date move. Event duration is always preserved
// unless both start and end were given explicitly.
func (uc *implUseCase) updateEvent(ctx context.Context, sc model.Scope, p interpreter.Parameters) (command.ActionResult, error) {
	now := uc.now()

	eventID := p.EventID
	if eventID == "" {
		id, err := uc.resolver.Resolve(ctx, sc, p.Title, now)
		if err != nil {
			return command.ActionResult{}, err
		}
		eventID = id
	}

	existing, err := uc.calendar.GetEvent(ctx, uc.cfg.CalendarID, eventID)
	if err != nil {
		return command.ActionResult{}, fmt.Errorf("failed to fetch event %s: %w", eventID, err)
	}

	start, end := uc.newTimes(existing, p, now)

	req := gcalendar.UpdateEventRequest{
		CalendarID: uc.cfg.CalendarID,
		Timezone:   uc.cfg.Timezone,
	}
	if !start.Equal(existing.StartTime) || !end.Equal(existing.EndTime) {
		req.StartTime = start
		req.EndTime = end
	}
	if len(p.Attendees) > 0 {
		if p.AttendeesAction == interpreter.AttendeesAdd {
			req.Attendees = mergeAttendees(existing.Attendees, p.Attendees)
		} else {
			req.Attendees = p.Attendees
		}
	}

	updated, err := uc.calendar.UpdateEvent(ctx, eventID, req)
	if err != nil {
		return command.ActionResult{}, fmt.Errorf("failed to update event %s: %w", eventID, err)
	}

	uc.resolver.Store().Remember(sc.SessionID, updated.ID, updated.Summary)

	return command.ActionResult{
		Success:   true,
		EventID:   updated.ID,
		EventLink: updated.HtmlLink,
		Message:   fmt.Sprintf("Evento \"%s\" aggiornato: %s.", updated.Summary, formatInstant(updated.StartTime)),
	}, nil
}

// newTimes computes the event's new start/end from the parameters, or
// returns the existing pair unchanged when no time rule applies.
func (uc *implUseCase) newTimes(ev *gcalendar.Event, p interpreter.Parameters, now time.Time) (time.Time, time.Time) {
	start, end := ev.StartTime, ev.EndTime
	duration := end.Sub(start)

	switch {
	case p.TimeModification != nil:
		tm := p.TimeModification
		if tm.Type == interpreter.ShiftTypeExact {
			newStart := uc.dates.Combine(start, uc.dates.ResolveTime(tm.Time, now))
			return newStart, newStart.Add(duration)
		}
		delta := shiftDelta(tm)
		return start.Add(delta), end.Add(delta)

	case p.HoursToShift != 0:
		delta := time.Duration(p.HoursToShift) * time.Hour
		return start.Add(delta), end.Add(delta)

	case p.StartTime != "":
		day := start
		if p.Date != "" {
			day = uc.dates.ResolveDate(p.Date, now)
		}
		newStart := uc.dates.Combine(day, uc.dates.ResolveTime(p.StartTime, now))
		if p.EndTime != "" {
			newEnd := uc.dates.Combine(day, uc.dates.ResolveTime(p.EndTime, now))
			if newEnd.After(newStart) {
				return newStart, newEnd
			}
		}
		return newStart, newStart.Add(duration)

	case p.Date != "":
		newDay := uc.dates.ResolveDate(p.Date, now)
		dayDelta := newDay.Sub(uc.dates.StartOfDay(start))
		return start.Add(dayDelta), end.Add(dayDelta)
	}

	return start, end
}

func shiftDelta(tm *interpreter.TimeModification) time.Duration {
	unit := time.Hour
	if tm.Unit == interpreter.UnitMinute {
		unit = time.Minute
	}
	delta := time.Duration(tm.Amount) * unit
	if tm.Direction == interpreter.DirectionBackward {
		delta = -delta
	}
	return delta
}
