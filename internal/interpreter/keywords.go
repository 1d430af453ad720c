package interpreter

import (
	"regexp"
	"strconv"
	"strings"
)

// Keyword sets used for local classification, checked in priority order.
var (
	createKeywords = []string{"crea", "aggiungi", "inserisci", "programma", "organizza"}
	updateKeywords = []string{"modifica", "aggiorna", "cambia", "sposta", "anticipa", "posticipa", "ritarda"}
	deleteKeywords = []string{"elimina", "cancella", "rimuovi"}
	viewKeywords   = []string{"mostra", "visualizza", "elenca", "quali", "trovami"}
)

// Shift phrase markers scanned in the user's own words.
var (
	forwardMarkers  = []string{"ora in avanti", "ore in avanti", "posticipa", "ritarda"}
	backwardMarkers = []string{"ora prima", "ore prima", "anticipa"}
)

var (
	alleTimeRe      = regexp.MustCompile(`alle\s+(\d{1,2})(?::(\d{2}))?`)
	trailingTimeRe  = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*$`)
	hourCountRe     = regexp.MustCompile(`(\d+|un[a']?|uno|due|tre|quattro|cinque|sei|sette|otto|nove|dieci)\s*or[ae]`)
	minuteCountRe   = regexp.MustCompile(`(\d+|un[a']?|uno|due|tre|quattro|cinque|sei|sette|otto|nove|dieci)\s*minut[oi]`)
	weekdayHintRe   = regexp.MustCompile(`(lunedì|lunedi|martedì|martedi|mercoledì|mercoledi|giovedì|giovedi|venerdì|venerdi|sabato|domenica)`)
	deleteAllDateRe = regexp.MustCompile(`per\s+(oggi|domani|questa settimana)`)
)

var numberWords = map[string]int{
	"un": 1, "una": 1, "un'": 1, "uno": 1,
	"due": 2, "tre": 3, "quattro": 4, "cinque": 5,
	"sei": 6, "sette": 7, "otto": 8, "nove": 9, "dieci": 10,
}

// parseAmount converts a digit string or an Italian number word to an int.
func parseAmount(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if n, ok := numberWords[s]; ok {
		return n
	}
	return 0
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// formatClock renders hour/minute as "HH:MM".
func formatClock(hour, minute int) string {
	return pad2(hour) + ":" + pad2(minute)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// extractClock pulls an "alle HH[:MM]" time from text, returning "" when
// absent or out of range.
func extractClock(text string) string {
	m := alleTimeRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return ""
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
		if minute > 59 {
			return ""
		}
	}
	return formatClock(hour, minute)
}

// inferShift scans the user's own words for a relative time shift
// ("posticipa di due ore", "un'ora prima"). Returns nil when no shift
// phrasing is present. Default magnitude is 1 when no number is found;
// an explicit minute count overrides an hour interpretation.
func inferShift(text string) *TimeModification {
	text = strings.ToLower(text)

	var direction string
	switch {
	case containsAny(text, forwardMarkers):
		direction = DirectionForward
	case containsAny(text, backwardMarkers):
		direction = DirectionBackward
	default:
		return nil
	}

	amount := 1
	unit := UnitHour
	if m := hourCountRe.FindStringSubmatch(text); m != nil {
		if n := parseAmount(m[1]); n > 0 {
			amount = n
		}
	}
	if m := minuteCountRe.FindStringSubmatch(text); m != nil {
		if n := parseAmount(m[1]); n > 0 {
			amount = n
			unit = UnitMinute
		}
	}

	return &TimeModification{
		Type:      ShiftTypeShift,
		Direction: direction,
		Amount:    amount,
		Unit:      unit,
	}
}

// applyShiftLegacy mirrors a SHIFT in hours onto the legacy
// hoursToShift/moveDirection pair so older consumers keep working.
func applyShiftLegacy(p *Parameters) {
	tm := p.TimeModification
	if tm == nil || tm.Type != ShiftTypeShift || tm.Unit != UnitHour {
		return
	}
	p.HoursToShift = tm.Amount
	if tm.Direction == DirectionBackward {
		p.HoursToShift = -tm.Amount
	}
	p.MoveDirection = tm.Direction
}
