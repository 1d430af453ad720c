package interpreter

import (
	"strconv"
	"strings"
)

// multiActionSeparators split compound commands. Each sub-command is meant to
// be interpreted independently by the caller.
var multiActionSeparators = []string{" e poi ", ", poi ", "; "}

// temporalMarkers flag commands that move an event in time.
var temporalMarkers = []string{"sposta", "anticipa", "posticipa"}

// Preprocess scans the raw command before any LLM call: it detects special
// commands that can bypass the model entirely, multi-action commands, and
// coarse temporal hints. The returned string is the normalized (lower-cased,
// trimmed) command used for matching; Metadata carries everything detected.
func Preprocess(raw string) (string, Metadata) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	md := Metadata{}

	detectSpecialCommand(normalized, &md)
	detectTemporalContext(normalized, &md)
	detectMultipleActions(raw, normalized, &md)
	detectDateReferences(normalized, &md)

	return normalized, md
}

// detectSpecialCommand handles bulk deletes: "elimina tutto" and variants
// produce a ready-made action so the LLM round-trip is skipped.
func detectSpecialCommand(cmd string, md *Metadata) {
	if !strings.HasPrefix(cmd, "elimina tutto") && !strings.Contains(cmd, "elimina tutti gli eventi") {
		return
	}

	md.IsSpecialCommand = true
	md.SpecialCommandType = SpecialDeleteAll

	params := Parameters{DeleteAll: true}
	if m := deleteAllDateRe.FindStringSubmatch(cmd); m != nil {
		params.Date = m[1]
	}
	md.DirectResponse = &CanonicalAction{
		Action:     ActionDeleteEvent,
		Parameters: params,
	}
}

func detectTemporalContext(cmd string, md *Metadata) {
	if !containsAny(cmd, temporalMarkers) {
		return
	}
	md.HasTemporalContext = true

	if clock := extractClock(cmd); clock != "" {
		md.Entities.SpecificTime = clock
	}
	if m := hourCountRe.FindStringSubmatch(cmd); m != nil {
		md.Entities.HourModifier = parseAmount(m[1])
		md.Entities.Modifier = UnitHour
	}
	if m := minuteCountRe.FindStringSubmatch(cmd); m != nil {
		md.Entities.MinuteModifier = parseAmount(m[1])
		md.Entities.Modifier = UnitMinute
	}
}

// detectMultipleActions splits on the first separator found, preserving the
// original casing of each sub-command.
func detectMultipleActions(raw, cmd string, md *Metadata) {
	for _, sep := range multiActionSeparators {
		if strings.Contains(cmd, sep) {
			md.HasMultipleActions = true
			parts := strings.Split(raw, sep)
			for _, part := range parts {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					md.SubCommands = append(md.SubCommands, trimmed)
				}
			}
			return
		}
	}
}

func detectDateReferences(cmd string, md *Metadata) {
	switch {
	case strings.Contains(cmd, "dopodomani"):
		md.Entities.SpecificDate = "dopodomani"
	case strings.Contains(cmd, "domani"):
		md.Entities.SpecificDate = "domani"
	case strings.Contains(cmd, "oggi"):
		md.Entities.SpecificDate = "oggi"
	}

	if m := weekdayHintRe.FindString(cmd); m != "" {
		md.Entities.Weekday = m
	}

	for _, period := range []string{"questa settimana", "prossima settimana", "questo mese"} {
		if strings.Contains(cmd, period) {
			md.Entities.Period = period
			break
		}
	}
}

// Enrich appends an explicit " alle HH:MM" to the command when a specific
// time was detected but not spelled out that way, so the model receives an
// unambiguous instruction. Commands with a direct response pass through
// untouched.
func Enrich(raw string, md Metadata) string {
	if md.DirectResponse != nil {
		return raw
	}
	if md.Entities.SpecificTime == "" {
		return raw
	}
	if strings.Contains(strings.ToLower(raw), " alle ") {
		return raw
	}
	return raw + " alle " + md.Entities.SpecificTime
}

// String renders the hour/minute modifier for logging.
func (e Entities) String() string {
	var parts []string
	if e.SpecificDate != "" {
		parts = append(parts, "date="+e.SpecificDate)
	}
	if e.Weekday != "" {
		parts = append(parts, "weekday="+e.Weekday)
	}
	if e.Period != "" {
		parts = append(parts, "period="+e.Period)
	}
	if e.SpecificTime != "" {
		parts = append(parts, "time="+e.SpecificTime)
	}
	if e.HourModifier != 0 {
		parts = append(parts, "hours="+strconv.Itoa(e.HourModifier))
	}
	if e.MinuteModifier != 0 {
		parts = append(parts, "minutes="+strconv.Itoa(e.MinuteModifier))
	}
	return strings.Join(parts, " ")
}
