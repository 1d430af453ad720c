package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Resolver converts Italian relative date and time phrases to absolute
// time.Time values, anchored to a caller-supplied reference instant.
type Resolver struct {
	location *time.Location
}

// NewResolver creates a resolver for the given IANA timezone string,
// e.g. "Europe/Rome".
func NewResolver(timezone string) (*Resolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Resolver{location: loc}, nil
}

var (
	inDaysRe   = regexp.MustCompile(`tra (\d+) (giorni|giorno|settimane|settimana)`)
	weekdayRe  = regexp.MustCompile(`(lunedì|lunedi|martedì|martedi|mercoledì|mercoledi|giovedì|giovedi|venerdì|venerdi|sabato|domenica)`)
	clockRe    = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)
	bareHourRe = regexp.MustCompile(`(\d{1,2})\s*(am|pm|del mattino|di mattina|del pomeriggio|di pomeriggio|di sera|della sera|di notte)`)
)

var weekdays = map[string]time.Weekday{
	"lunedì":    time.Monday,
	"lunedi":    time.Monday,
	"martedì":   time.Tuesday,
	"martedi":   time.Tuesday,
	"mercoledì": time.Wednesday,
	"mercoledi": time.Wednesday,
	"giovedì":   time.Thursday,
	"giovedi":   time.Thursday,
	"venerdì":   time.Friday,
	"venerdi":   time.Friday,
	"sabato":    time.Saturday,
	"domenica":  time.Sunday,
}

// dateLayouts are the explicit formats tried before giving up on a phrase.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006"}

// ResolveDate converts an Italian date phrase to the start of the day it
// refers to. Unrecognized phrases silently resolve to the reference date:
// downstream stages prefer a best-effort date over an error.
func (r *Resolver) ResolveDate(text string, ref time.Time) time.Time {
	phrase := strings.ToLower(strings.TrimSpace(text))
	ref = ref.In(r.location)

	switch {
	case strings.Contains(phrase, "dopodomani"):
		return r.StartOfDay(ref.AddDate(0, 0, 2))
	case strings.Contains(phrase, "domani"):
		return r.StartOfDay(ref.AddDate(0, 0, 1))
	case strings.Contains(phrase, "oggi"):
		return r.StartOfDay(ref)
	}

	if strings.Contains(phrase, "prossim") {
		if m := weekdayRe.FindString(phrase); m != "" {
			return r.nextWeekday(weekdays[m], ref)
		}
		if strings.Contains(phrase, "settimana") {
			return r.StartOfDay(ref.AddDate(0, 0, 7))
		}
	}

	if m := inDaysRe.FindStringSubmatch(phrase); m != nil {
		n, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(m[2], "settiman") {
			n *= 7
		}
		return r.StartOfDay(ref.AddDate(0, 0, n))
	}

	// A weekday on its own means its next upcoming occurrence.
	if m := weekdayRe.FindString(phrase); m != "" {
		return r.nextWeekday(weekdays[m], ref)
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, phrase, r.location); err == nil {
			return r.StartOfDay(t)
		}
	}

	return r.StartOfDay(ref)
}

// nextWeekday returns the next occurrence of target strictly after ref.
// Saying "prossimo lunedì" on a Monday means next week's Monday, never today.
func (r *Resolver) nextWeekday(target time.Weekday, ref time.Time) time.Time {
	days := (int(target) + 7 - int(ref.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return r.StartOfDay(ref.AddDate(0, 0, days))
}

// ResolveTime extracts a time of day from an Italian phrase. When nothing
// matches, the reference instant's own time of day is returned unchanged.
func (r *Resolver) ResolveTime(text string, ref time.Time) time.Time {
	phrase := strings.ToLower(strings.TrimSpace(text))
	ref = ref.In(r.location)

	if m := clockRe.FindStringSubmatch(phrase); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 24 && minute < 60 {
			return r.atTime(ref, hour, minute)
		}
	}

	if m := bareHourRe.FindStringSubmatch(phrase); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour <= 23 {
			return r.atTime(ref, adjustHour(hour, m[2]), 0)
		}
	}

	switch {
	case strings.Contains(phrase, "mezzogiorno"):
		return r.atTime(ref, 12, 0)
	case strings.Contains(phrase, "mezzanotte"):
		return r.atTime(ref, 0, 0)
	case strings.Contains(phrase, "pranzo"):
		return r.atTime(ref, 13, 0)
	case strings.Contains(phrase, "cena"):
		return r.atTime(ref, 20, 0)
	}

	return r.atTime(ref, ref.Hour(), ref.Minute())
}

// adjustHour converts a bare hour plus an am/pm or Italian period marker to
// 24-hour form.
func adjustHour(hour int, period string) int {
	switch {
	case period == "am" || strings.Contains(period, "mattin"):
		if hour == 12 {
			return 0
		}
		return hour
	case period == "di notte":
		// "alle 2 di notte" stays 02:00, "alle 11 di notte" means 23:00.
		if hour >= 9 && hour < 12 {
			return hour + 12
		}
		return hour
	default: // pm, pomeriggio, sera
		if hour < 12 {
			return hour + 12
		}
		return hour
	}
}

func (r *Resolver) atTime(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, r.location)
}

// Combine applies the time of day of tod onto the calendar date of date.
// Seconds and sub-second precision are zeroed.
func (r *Resolver) Combine(date, tod time.Time) time.Time {
	date = date.In(r.location)
	tod = tod.In(r.location)
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, r.location)
}

// StartOfDay returns midnight at the start of the given day in the resolver's
// timezone.
func (r *Resolver) StartOfDay(t time.Time) time.Time {
	t = t.In(r.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.location)
}

// EndOfDay returns the last representable instant of the given day.
func (r *Resolver) EndOfDay(t time.Time) time.Time {
	return r.StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// Location exposes the resolver's timezone for callers that format output.
func (r *Resolver) Location() *time.Location {
	return r.location
}
