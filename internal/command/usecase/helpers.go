package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"agenda-assistant/internal/command"
	"agenda-assistant/internal/resolver"
	"agenda-assistant/pkg/gcalendar"
)

// failedResult turns an executor error into a user-facing failure, keeping
// the taxonomy visible to the caller: not-found and auth problems are
// distinguishable, everything else is a generic backend failure with the
// upstream message attached.
func failedResult(res command.ActionResult, err error) command.ActionResult {
	res.Success = false

	switch {
	case errors.Is(err, resolver.ErrNotFound):
		res.Message = "Non ho trovato l'evento. Prova a indicare un titolo più preciso."
	case gcalendar.IsAuthError(err):
		res.AuthExpired = true
		res.Message = "Autorizzazione del calendario scaduta: è necessario effettuare di nuovo l'accesso."
	default:
		res.Message = fmt.Sprintf("Operazione non riuscita: %v", err)
	}
	return res
}

func toSummary(ev *gcalendar.Event) command.EventSummary {
	return command.EventSummary{
		ID:        ev.ID,
		Title:     ev.Summary,
		Start:     ev.StartTime,
		End:       ev.EndTime,
		AllDay:    ev.AllDay,
		Attendees: ev.Attendees,
		Link:      ev.HtmlLink,
	}
}

// formatInstant renders an instant for user messages, e.g.
// "lunedì 16/03 alle 15:00".
func formatInstant(t time.Time) string {
	return fmt.Sprintf("%s %02d/%02d alle %02d:%02d",
		italianWeekday(t.Weekday()), t.Day(), int(t.Month()), t.Hour(), t.Minute())
}

func italianWeekday(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "lunedì"
	case time.Tuesday:
		return "martedì"
	case time.Wednesday:
		return "mercoledì"
	case time.Thursday:
		return "giovedì"
	case time.Friday:
		return "venerdì"
	case time.Saturday:
		return "sabato"
	default:
		return "domenica"
	}
}

// mergeAttendees appends the new entries that are not already present,
// comparing case-insensitively.
func mergeAttendees(existing, added []string) []string {
	out := append([]string(nil), existing...)
	for _, a := range added {
		found := false
		for _, e := range out {
			if strings.EqualFold(e, a) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, a)
		}
	}
	return out
}

// similarTitle reports whether two event titles look like the same event,
// by case-insensitive substring in either direction.
func similarTitle(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
