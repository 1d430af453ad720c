package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agenda-assistant/internal/model"
	"agenda-assistant/pkg/gcalendar"
	"agenda-assistant/pkg/log"
)

// Candidate window and scoring constants. Scores are unitless points:
// variant overlap accumulates in proportion to how much of the search title
// the variant represents, and events close to now get a small nudge. The
// recency bonus is deliberately smaller than the acceptance threshold so it
// can break near-ties but never promote a weak match on its own.
const (
	windowBack    = 14 * 24 * time.Hour
	windowAhead   = 30 * 24 * time.Hour
	maxCandidates = 100

	variantBaseScore = 50.0
	recencyDays      = 3.0
	recencyPerDay    = 5.0
	acceptThreshold  = 40.0
)

// stopwords are tokens never treated as name tokens when scoring, even when
// capitalized at the start of a sentence.
var stopwords = map[string]bool{
	"il": true, "lo": true, "la": true, "i": true, "gli": true, "le": true,
	"un": true, "uno": true, "una": true, "di": true, "del": true, "della": true,
	"con": true, "per": true, "alle": true, "e": true,
	"riunione": true, "appuntamento": true, "evento": true,
	"oggi": true, "domani": true, "dopodomani": true,
}

// EventLister is the slice of the calendar client the resolver needs.
type EventLister interface {
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]*gcalendar.Event, error)
}

// Resolver finds the event a command refers to, by title scoring over a
// bounded candidate window or by the session's last touched event.
type Resolver struct {
	l          log.Logger
	calendar   EventLister
	store      *ContextStore
	calendarID string
}

func New(l log.Logger, calendar EventLister, store *ContextStore, calendarID string) *Resolver {
	return &Resolver{
		l:          l,
		calendar:   calendar,
		store:      store,
		calendarID: calendarID,
	}
}

// Store exposes the context store so the executor can record created and
// updated events.
func (r *Resolver) Store() *ContextStore {
	return r.store
}

// Resolve returns the id of the event the title refers to, anchored at now.
// With an empty title it falls back to the session's last touched event.
// Returns ErrNotFound when nothing clears the acceptance threshold, or when
// several events match equally and guessing would be wrong.
func (r *Resolver) Resolve(ctx context.Context, scope model.Scope, title string, now time.Time) (string, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		if last, ok := r.store.Last(scope.SessionID); ok {
			r.l.Debugf(ctx, "resolver: using last touched event %s (%q)", last.EventID, last.Title)
			return last.EventID, nil
		}
		return "", fmt.Errorf("%w: no title given and no recent event in context", ErrNotFound)
	}

	events, err := r.calendar.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: r.calendarID,
		TimeMin:    now.Add(-windowBack),
		TimeMax:    now.Add(windowAhead),
		MaxResults: maxCandidates,
	})
	if err != nil {
		return "", fmt.Errorf("failed to list candidate events: %w", err)
	}

	lowerTitle := strings.ToLower(title)

	// A unique exact title match wins outright. Two events with the same
	// title are indistinguishable by name, so refuse to guess.
	var exact []*gcalendar.Event
	for _, ev := range events {
		if strings.ToLower(strings.TrimSpace(ev.Summary)) == lowerTitle {
			exact = append(exact, ev)
		}
	}
	if len(exact) == 1 {
		return exact[0].ID, nil
	}
	if len(exact) > 1 {
		return "", fmt.Errorf("%w: %d events are titled %q", ErrNotFound, len(exact), title)
	}

	variants := buildVariants(title)

	var best *gcalendar.Event
	var bestScore float64
	for _, ev := range events {
		score := scoreEvent(ev, variants, now)
		if score > bestScore { // strict: ties keep the first seen
			best, bestScore = ev, score
		}
	}

	if best != nil && bestScore >= acceptThreshold {
		r.l.Debugf(ctx, "resolver: %q matched %q (score %.1f)", title, best.Summary, bestScore)
		return best.ID, nil
	}

	if id, ok := r.singleMeetingToday(lowerTitle, events, now); ok {
		return id, nil
	}

	return "", fmt.Errorf("%w: no event matches %q", ErrNotFound, title)
}

// singleMeetingToday is the last-resort rule: "la riunione" with no names
// attached resolves to today's only meeting, and only when there is exactly
// one.
func (r *Resolver) singleMeetingToday(lowerTitle string, events []*gcalendar.Event, now time.Time) (string, bool) {
	if !strings.Contains(lowerTitle, "riunione") || strings.Contains(lowerTitle, "con") {
		return "", false
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var found *gcalendar.Event
	for _, ev := range events {
		if !strings.Contains(strings.ToLower(ev.Summary), "riunione") {
			continue
		}
		if ev.StartTime.Before(dayStart) || !ev.StartTime.Before(dayEnd) {
			continue
		}
		if found != nil {
			return "", false // more than one qualifies
		}
		found = ev
	}

	if found == nil {
		return "", false
	}
	return found.ID, true
}

// variant is one search fragment derived from the title, weighted by how
// much of the original title it covers.
type variant struct {
	text   string // lower-cased
	weight float64
}

// buildVariants derives the search fragments: the full title, the title with
// "con" stripped, its first and last words, and each capitalized name token
// that is not a stopword.
func buildVariants(title string) []variant {
	lower := strings.ToLower(title)
	total := float64(len(lower))

	seen := map[string]bool{}
	var out []variant
	add := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		out = append(out, variant{text: text, weight: float64(len(text)) / total})
	}

	add(lower)
	if strings.Contains(lower, " con ") {
		add(strings.Join(strings.Fields(strings.ReplaceAll(lower, " con ", " ")), " "))
	}

	words := strings.Fields(lower)
	if len(words) > 1 {
		add(words[0])
		add(words[len(words)-1])
	}

	for _, tok := range strings.Fields(title) {
		tok = strings.Trim(tok, ",.!?'\"")
		if tok == "" || tok[0] < 'A' || tok[0] > 'Z' {
			continue
		}
		if stopwords[strings.ToLower(tok)] {
			continue
		}
		add(strings.ToLower(tok))
	}

	return out
}

func scoreEvent(ev *gcalendar.Event, variants []variant, now time.Time) float64 {
	candidate := strings.ToLower(ev.Summary)

	var score float64
	for _, v := range variants {
		if strings.Contains(candidate, v.text) {
			score += variantBaseScore * v.weight
		}
	}
	if score == 0 {
		return 0
	}

	days := ev.StartTime.Sub(now).Hours() / 24
	if days < 0 {
		days = -days
	}
	if days < recencyDays {
		score += (recencyDays - days) * recencyPerDay
	}

	return score
}
