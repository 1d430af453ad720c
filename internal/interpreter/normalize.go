package interpreter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

	// Known model defect: a clock value emitted as "15":00" instead of
	// "15:00". Repaired before parsing.
	brokenClockRe = regexp.MustCompile(`"(\d{1,2})":(\d{2})"`)
)

// actionLabels maps the label variants the model actually produces onto the
// four canonical actions. Keys are upper-cased with spaces collapsed to
// underscores before lookup.
var actionLabels = map[string]ActionType{
	"CREATE_EVENT":      ActionCreateEvent,
	"CREA_EVENTO":       ActionCreateEvent,
	"NEW_EVENT":         ActionCreateEvent,
	"ADD_EVENT":         ActionCreateEvent,
	"UPDATE_EVENT":      ActionUpdateEvent,
	"MODIFY_EVENT":      ActionUpdateEvent,
	"MODIFICA_EVENTO":   ActionUpdateEvent,
	"MOVE_EVENT":        ActionUpdateEvent,
	"SPOSTA_EVENTO":     ActionUpdateEvent,
	"VIEW_EVENTS":       ActionViewEvents,
	"VIEW_EVENT":        ActionViewEvents,
	"LIST_EVENTS":       ActionViewEvents,
	"SHOW_EVENTS":       ActionViewEvents,
	"VISUALIZZA_EVENTI": ActionViewEvents,
	"DELETE_EVENT":      ActionDeleteEvent,
	"DELETE_EVENTS":     ActionDeleteEvent,
	"REMOVE_EVENT":      ActionDeleteEvent,
	"ELIMINA_EVENTO":    ActionDeleteEvent,
	"CANCELLA_EVENTO":   ActionDeleteEvent,
}

// azioneLabels maps the flat Italian schema's azione values.
var azioneLabels = map[string]ActionType{
	"crea_evento":       ActionCreateEvent,
	"crea":              ActionCreateEvent,
	"modifica_evento":   ActionUpdateEvent,
	"modifica":          ActionUpdateEvent,
	"sposta":            ActionUpdateEvent,
	"visualizza_eventi": ActionViewEvents,
	"visualizza":        ActionViewEvents,
	"elimina_evento":    ActionDeleteEvent,
	"elimina":           ActionDeleteEvent,
}

// Normalize turns the model's raw text into a CanonicalAction. It tolerates
// code fences, surrounding prose, Italian field names and the flat Italian
// schema. It fails with ErrUnparsable only when no JSON object can be
// located or no action can be recognized; the caller then falls back to the
// local parser.
func Normalize(rawLLM, originalCommand string) (CanonicalAction, error) {
	jsonText, err := extractJSON(rawLLM)
	if err != nil {
		return CanonicalAction{}, err
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonText), &obj); err != nil {
		return CanonicalAction{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	action, err := decodeAction(obj)
	if err != nil {
		return CanonicalAction{}, err
	}

	enrichFromCommand(&action, originalCommand)
	return action, nil
}

// extractJSON locates the JSON object inside the model's text: code fences
// are stripped, then everything outside the outermost braces is discarded,
// then the broken-clock quoting defect is repaired.
func extractJSON(text string) (string, error) {
	if m := codeFenceRe.FindStringSubmatch(text); len(m) > 1 {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found", ErrUnparsable)
	}
	text = text[start : end+1]

	text = brokenClockRe.ReplaceAllString(text, `"$1:$2"`)
	return strings.TrimSpace(text), nil
}

// decodeAction tries the decode paths in order: canonical nested schema,
// flat Italian schema, then gives up.
func decodeAction(obj map[string]any) (CanonicalAction, error) {
	if label, ok := stringField(obj, "action"); ok {
		params := obj
		if nested, ok := mapField(obj, "parameters", "parametri"); ok {
			params = nested
		}
		return CanonicalAction{
			Action:     normalizeLabel(label),
			Parameters: decodeParameters(params),
		}, nil
	}

	if label, ok := stringField(obj, "azione"); ok {
		return CanonicalAction{
			Action:     normalizeAzione(label),
			Parameters: decodeParameters(obj),
		}, nil
	}

	return CanonicalAction{}, fmt.Errorf("%w: missing action field", ErrUnparsable)
}

// normalizeLabel maps a free-form action label onto the canonical enum.
// Unrecognized labels default to VIEW_EVENTS, the non-destructive choice.
func normalizeLabel(label string) ActionType {
	key := strings.ToUpper(strings.TrimSpace(label))
	key = strings.ReplaceAll(key, " ", "_")
	if action, ok := actionLabels[key]; ok {
		return action
	}
	return ActionViewEvents
}

func normalizeAzione(label string) ActionType {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.ReplaceAll(key, " ", "_")
	if action, ok := azioneLabels[key]; ok {
		return action
	}
	return ActionViewEvents
}

// decodeParameters scavenges known fields from a loosely-shaped object.
// English keys win over their Italian aliases when both are present.
func decodeParameters(obj map[string]any) Parameters {
	p := Parameters{}

	p.Title = firstString(obj, "title", "titolo", "riepilogo", "summary")
	p.Description = firstString(obj, "description", "descrizione")
	p.Date = firstString(obj, "date", "data", "giorno")
	p.StartTime = firstString(obj, "startTime", "start_time", "ora_inizio", "orainizio")
	p.EndTime = firstString(obj, "endTime", "end_time", "ora_fine", "orafine")
	p.EventID = firstString(obj, "eventId", "event_id", "id_evento", "id")
	p.Query = firstString(obj, "query", "ricerca")
	p.AttendeesAction = strings.ToUpper(firstString(obj, "attendeesAction", "attendees_action", "azione_partecipanti"))

	p.Attendees = coerceStringList(firstValue(obj, "attendees", "partecipanti", "invitati"))

	if n, ok := intField(obj, "maxResults", "max_results", "risultati_massimi"); ok {
		p.MaxResults = n
	}
	if b, ok := boolField(obj, "deleteAll", "delete_all", "elimina_tutto", "elimina_tutti"); ok {
		p.DeleteAll = b
	}
	if n, ok := intField(obj, "hoursToShift", "hours_to_shift", "ore_da_spostare"); ok {
		p.HoursToShift = n
	}
	p.MoveDirection = strings.ToUpper(firstString(obj, "moveDirection", "move_direction"))

	if tm, ok := mapField(obj, "timeModification", "time_modification", "modifica_orario"); ok {
		p.TimeModification = decodeTimeModification(tm)
	}

	return p
}

func decodeTimeModification(obj map[string]any) *TimeModification {
	tm := &TimeModification{
		Type:      strings.ToUpper(firstString(obj, "type", "tipo")),
		Direction: strings.ToUpper(firstString(obj, "direction", "direzione")),
		Unit:      strings.ToUpper(firstString(obj, "unit", "unita", "unità")),
		Time:      firstString(obj, "time", "orario", "ora"),
	}
	if n, ok := intField(obj, "amount", "quantita", "quantità"); ok {
		tm.Amount = n
	}

	// Italian variants for the enum values themselves.
	switch tm.Direction {
	case "AVANTI":
		tm.Direction = DirectionForward
	case "INDIETRO":
		tm.Direction = DirectionBackward
	}
	switch tm.Unit {
	case "ORA", "ORE":
		tm.Unit = UnitHour
	case "MINUTO", "MINUTI":
		tm.Unit = UnitMinute
	}
	if tm.Type == "" && tm.Time != "" {
		tm.Type = ShiftTypeExact
	}
	if tm.Type == ShiftTypeShift && tm.Amount <= 0 {
		tm.Amount = 1
	}
	return tm
}

// enrichFromCommand fills gaps in the decoded action using the user's
// original words, never overwriting what the model already supplied.
func enrichFromCommand(action *CanonicalAction, originalCommand string) {
	lower := strings.ToLower(originalCommand)

	switch action.Action {
	case ActionUpdateEvent:
		// Explicit model output wins; only infer a shift when the model
		// gave neither times nor a modification.
		if action.Parameters.TimeModification == nil &&
			action.Parameters.StartTime == "" && action.Parameters.EndTime == "" &&
			action.Parameters.HoursToShift == 0 {
			if shift := inferShift(lower); shift != nil {
				action.Parameters.TimeModification = shift
				applyShiftLegacy(&action.Parameters)
			}
		}

	case ActionDeleteEvent:
		if isEmptyParameters(action.Parameters) &&
			(strings.Contains(lower, "tutto") || strings.Contains(lower, "tutti")) {
			action.Parameters.DeleteAll = true
			action.Parameters.Date = "oggi"
		}

	case ActionViewEvents:
		if action.Parameters.MaxResults == 0 {
			action.Parameters.MaxResults = 10
		}
	}
}

func isEmptyParameters(p Parameters) bool {
	return p.Title == "" && p.Date == "" && p.EventID == "" && !p.DeleteAll &&
		p.StartTime == "" && p.EndTime == "" && p.Query == "" && len(p.Attendees) == 0
}

// --- loose-map field helpers ---

func firstValue(obj map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := stringField(obj, key); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return strings.TrimSpace(s), ok
}

func mapField(obj map[string]any, keys ...string) (map[string]any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			if m, ok := v.(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

func intField(obj map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case float64:
			return int(v), true
		case string:
			var n int
			if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func boolField(obj map[string]any, keys ...string) (bool, bool) {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case bool:
			return v, true
		case string:
			lower := strings.ToLower(v)
			if lower == "true" || lower == "sì" || lower == "si" {
				return true, true
			}
			if lower == "false" || lower == "no" {
				return false, true
			}
		}
	}
	return false, false
}

// coerceStringList always yields a list, even when the source gave a single
// scalar or a comma-joined string.
func coerceStringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}
	return nil
}
