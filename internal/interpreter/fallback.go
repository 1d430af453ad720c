package interpreter

import (
	"regexp"
	"strconv"
	"strings"
)

// classificationRules are checked in a fixed priority order; the first rule
// whose keyword set matches wins. Kept as a table so rules can be tested and
// extended independently.
var classificationRules = []struct {
	action   ActionType
	keywords []string
}{
	{ActionCreateEvent, createKeywords},
	{ActionUpdateEvent, updateKeywords},
	{ActionDeleteEvent, deleteKeywords},
	{ActionViewEvents, viewKeywords},
}

var (
	meetingWithRe  = regexp.MustCompile(`(?i)(?:riunione|appuntamento)\s+con\s+(.+)`)
	genericEventRe = regexp.MustCompile(`(?i)evento\s+(?:su|per|di)\s+(.+)`)
	addAttendeeRe  = regexp.MustCompile(`(?i)aggiungi\s+(.+?)\s+(?:alla\s+riunione|all'evento)`)
	endTimeRe      = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*$`)
)

// titleStoppers end a captured title/attendee span: everything from the
// first stopper onward is temporal or filler, not part of the name.
var titleStoppers = []string{
	" domani", " oggi", " dopodomani", " alle ", " alla ", " tra ",
	" il ", " per ", " a mezzogiorno", " a mezzanotte", " a pranzo", " a cena",
	" lunedì", " martedì", " mercoledì", " giovedì", " venerdì", " sabato", " domenica",
	" lunedi", " martedi", " mercoledi", " giovedi", " venerdi",
	" prossimo", " prossima", " di ",
}

// ParseLocally is the deterministic interpreter used whenever the LLM is
// unavailable or its output cannot be normalized. It never fails: an
// unclassifiable command degrades to a small event listing.
func ParseLocally(raw string) (action CanonicalAction) {
	defer func() {
		if r := recover(); r != nil {
			action = CanonicalAction{
				Action:     ActionViewEvents,
				Parameters: Parameters{MaxResults: 5},
			}
		}
	}()

	cmd := strings.ToLower(strings.TrimSpace(raw))

	if deleteAll := parseDeleteAll(cmd); deleteAll != nil {
		return *deleteAll
	}

	if added := parseAttendeeAddition(raw, cmd); added != nil {
		return *added
	}

	action = CanonicalAction{Action: classify(cmd)}
	p := &action.Parameters

	extractTitleAndAttendees(raw, cmd, p, action.Action)
	extractDate(cmd, p)
	extractTimes(cmd, p)

	if action.Action == ActionUpdateEvent {
		if shift := inferShift(cmd); shift != nil {
			p.TimeModification = shift
			applyShiftLegacy(p)
		}
	}
	if action.Action == ActionViewEvents && p.MaxResults == 0 {
		p.MaxResults = 10
	}

	return action
}

// parseDeleteAll recognizes bulk deletes, with an optional day or period.
func parseDeleteAll(cmd string) *CanonicalAction {
	if !strings.Contains(cmd, "elimina tutto") &&
		!strings.Contains(cmd, "elimina tutti gli eventi") &&
		!strings.Contains(cmd, "cancella tutto") {
		return nil
	}

	p := Parameters{DeleteAll: true}
	switch {
	case strings.Contains(cmd, "domani"):
		p.Date = "domani"
	case strings.Contains(cmd, "oggi"):
		p.Date = "oggi"
	case strings.Contains(cmd, "questa settimana"):
		p.Date = "questa settimana"
	}

	return &CanonicalAction{Action: ActionDeleteEvent, Parameters: p}
}

// parseAttendeeAddition recognizes "aggiungi X alla riunione": the new
// person joins the existing list instead of replacing it.
func parseAttendeeAddition(raw, cmd string) *CanonicalAction {
	if !strings.Contains(cmd, "aggiungi") {
		return nil
	}
	if !strings.Contains(cmd, "alla riunione") && !strings.Contains(cmd, "all'evento") {
		return nil
	}

	m := addAttendeeRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	p := Parameters{
		AttendeesAction: AttendeesAdd,
		Attendees:       splitAttendees(trimAtStopper(m[1])),
	}
	return &CanonicalAction{Action: ActionUpdateEvent, Parameters: p}
}

func classify(cmd string) ActionType {
	for _, rule := range classificationRules {
		if containsAny(cmd, rule.keywords) {
			return rule.action
		}
	}
	return ActionViewEvents
}

func extractTitleAndAttendees(raw, cmd string, p *Parameters, action ActionType) {
	if m := meetingWithRe.FindStringSubmatch(raw); m != nil {
		names := trimAtStopper(m[1])
		if names != "" {
			p.Attendees = splitAttendees(names)
			p.Title = "Riunione con " + names
			return
		}
	}

	if m := genericEventRe.FindStringSubmatch(raw); m != nil {
		if title := trimAtStopper(m[1]); title != "" {
			p.Title = title
			return
		}
	}

	if action == ActionCreateEvent {
		p.Title = "Nuovo evento"
	}
}

// trimAtStopper cuts a captured span at the first temporal/filler marker.
func trimAtStopper(s string) string {
	lower := strings.ToLower(s)
	cut := len(s)
	for _, stopper := range titleStoppers {
		if idx := strings.Index(lower, stopper); idx != -1 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(strings.Trim(s[:cut], ",.!?"))
}

func splitAttendees(names string) []string {
	var out []string
	for _, part := range regexp.MustCompile(`(?i)\s+e\s+`).Split(names, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func extractDate(cmd string, p *Parameters) {
	switch {
	case strings.Contains(cmd, "dopodomani"):
		p.Date = "dopodomani"
	case strings.Contains(cmd, "domani"):
		p.Date = "domani"
	case strings.Contains(cmd, "oggi"):
		p.Date = "oggi"
	default:
		if m := weekdayHintRe.FindString(cmd); m != "" {
			p.Date = m
			if strings.Contains(cmd, "prossim") {
				p.Date = m + " prossimo"
			}
		}
	}
}

// extractTimes pulls the start time from "alle HH[:MM]" or a trailing bare
// clock, defaulting the end to one hour later. Hour arithmetic wraps at
// midnight; minutes are unchanged.
func extractTimes(cmd string, p *Parameters) {
	clock := extractClock(cmd)
	if clock == "" {
		if m := endTimeRe.FindStringSubmatch(cmd); m != nil {
			hour, _ := strconv.Atoi(m[1])
			if hour <= 23 {
				minute := 0
				if m[2] != "" {
					minute, _ = strconv.Atoi(m[2])
				}
				if minute <= 59 {
					clock = formatClock(hour, minute)
				}
			}
		}
	}
	if clock == "" {
		return
	}

	p.StartTime = clock

	hour, _ := strconv.Atoi(clock[:2])
	minute, _ := strconv.Atoi(clock[3:])
	p.EndTime = formatClock((hour+1)%24, minute)
}
