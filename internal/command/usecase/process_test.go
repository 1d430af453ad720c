package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/googleapi"

	"agenda-assistant/internal/command"
	"agenda-assistant/internal/interpreter"
	"agenda-assistant/internal/model"
	"agenda-assistant/pkg/gcalendar"
)

func testScope() model.Scope {
	return model.NewScope("chat-1", "user-1", "mario")
}

func singleResult(t *testing.T, out command.ProcessOutput) command.ActionResult {
	t.Helper()
	if len(out.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(out.Results))
	}
	return out.Results[0]
}

func TestProcessEmptyCommand(t *testing.T) {
	uc := newTestUseCase(&fakeCalendar{}, &fakeLLM{})

	_, err := uc.Process(context.Background(), testScope(), command.ProcessInput{RawCommand: "   "})
	if !errors.Is(err, command.ErrEmptyCommand) {
		t.Fatalf("got %v, want ErrEmptyCommand", err)
	}
}

func TestProcessCreateViaModel(t *testing.T) {
	cal := &fakeCalendar{}
	llm := &fakeLLM{text: `{"action":"CREATE_EVENT","parameters":` +
		`{"title":"Riunione con Mario","date":"domani","startTime":"15:00","attendees":["Mario"]}}`}
	uc := newTestUseCase(cal, llm)
	sc := testScope()

	out, err := uc.Process(context.Background(), sc, command.ProcessInput{
		RawCommand: "Crea una riunione con Mario domani alle 15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if res.Source != command.SourceModel {
		t.Errorf("got source %q, want model", res.Source)
	}
	if len(cal.inserted) != 1 {
		t.Fatalf("got %d inserts, want 1", len(cal.inserted))
	}

	ins := cal.inserted[0]
	wantStart := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	if !ins.StartTime.Equal(wantStart) {
		t.Errorf("got start %v, want %v", ins.StartTime, wantStart)
	}
	if !ins.EndTime.Equal(wantStart.Add(time.Hour)) {
		t.Errorf("got end %v, want start+1h", ins.EndTime)
	}
	if ins.Summary != "Riunione con Mario" {
		t.Errorf("got summary %q", ins.Summary)
	}

	// The created event becomes the session's last touched event.
	if last, ok := uc.resolver.Store().Last(sc.SessionID); !ok || last.EventID != res.EventID {
		t.Errorf("context store not updated: %v %v", last, ok)
	}
}

func TestProcessFallbackWhenModelUnavailable(t *testing.T) {
	cal := &fakeCalendar{}
	llm := &fakeLLM{err: errors.New("all providers failed")}
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Crea una riunione con Mario domani alle 15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if res.Source != command.SourceLocal {
		t.Errorf("got source %q, want local", res.Source)
	}
	if len(cal.inserted) != 1 || cal.inserted[0].Summary != "Riunione con Mario" {
		t.Fatalf("fallback parse did not create the event: %+v", cal.inserted)
	}
}

func TestProcessFallbackWhenModelOutputUnusable(t *testing.T) {
	cal := &fakeCalendar{}
	llm := &fakeLLM{text: "Mi dispiace, non posso aiutarti con questo."}
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Mostra i miei impegni",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if res.Source != command.SourceLocal {
		t.Errorf("got source %q, want local", res.Source)
	}
	if res.Action != interpreter.ActionViewEvents {
		t.Errorf("got action %s, want VIEW_EVENTS", res.Action)
	}
}

func TestProcessDeleteAllSkipsModel(t *testing.T) {
	cal := &fakeCalendar{events: []*gcalendar.Event{
		{ID: "ev-1", Summary: "Standup", StartTime: testNow.Add(25 * time.Hour), EndTime: testNow.Add(26 * time.Hour)},
		{ID: "ev-2", Summary: "Pranzo", StartTime: testNow.Add(28 * time.Hour), EndTime: testNow.Add(29 * time.Hour)},
	}}
	llm := &fakeLLM{text: "should never be called"}
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Elimina tutto per domani",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if llm.calls != 0 {
		t.Errorf("model was called %d times for a special command", llm.calls)
	}
	if res.Source != command.SourceDirect {
		t.Errorf("got source %q, want direct", res.Source)
	}
	if res.DeletedCount != 2 {
		t.Errorf("got %d deleted, want 2", res.DeletedCount)
	}
}

func TestProcessBulkDeleteContinuesPastFailures(t *testing.T) {
	cal := &fakeCalendar{
		events: []*gcalendar.Event{
			{ID: "ev-1", Summary: "Standup", StartTime: testNow.Add(25 * time.Hour)},
			{ID: "ev-2", Summary: "Pranzo", StartTime: testNow.Add(28 * time.Hour)},
			{ID: "ev-3", Summary: "Review", StartTime: testNow.Add(30 * time.Hour)},
		},
		deleteErr: map[string]error{"ev-2": errors.New("gone already")},
	}
	uc := newTestUseCase(cal, &fakeLLM{})

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Elimina tutto per domani",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if !res.Success || res.DeletedCount != 2 {
		t.Errorf("got success=%v count=%d, want best-effort 2", res.Success, res.DeletedCount)
	}
}

func TestProcessCompoundCommand(t *testing.T) {
	cal := &fakeCalendar{}
	llm := &fakeLLM{err: errors.New("model down")} // both parts go through the local parser
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Crea un evento per palestra domani alle 18 e poi mostra i miei impegni",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(out.Results))
	}
	if out.Results[0].Action != interpreter.ActionCreateEvent {
		t.Errorf("first result: got %s, want CREATE_EVENT", out.Results[0].Action)
	}
	if out.Results[1].Action != interpreter.ActionViewEvents {
		t.Errorf("second result: got %s, want VIEW_EVENTS", out.Results[1].Action)
	}
	if len(cal.inserted) != 1 {
		t.Errorf("got %d inserts, want 1", len(cal.inserted))
	}
}

func TestProcessViewDefaultWindow(t *testing.T) {
	cal := &fakeCalendar{}
	llm := &fakeLLM{text: `{"action":"VIEW_EVENTS","parameters":{}}`}
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Mostra i miei impegni",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if !res.Success {
		t.Fatalf("zero matches must still succeed, got %q", res.Message)
	}
	if len(res.Events) != 0 {
		t.Errorf("got %d events, want none", len(res.Events))
	}

	req := cal.listReqs[len(cal.listReqs)-1]
	if !req.TimeMin.Equal(testNow) {
		t.Errorf("got TimeMin %v, want now", req.TimeMin)
	}
	if !req.TimeMax.Equal(testNow.Add(7 * 24 * time.Hour)) {
		t.Errorf("got TimeMax %v, want now+7d", req.TimeMax)
	}
	if req.MaxResults != 10 {
		t.Errorf("got MaxResults %d, want 10", req.MaxResults)
	}
}

func TestProcessViewSingleDay(t *testing.T) {
	cal := &fakeCalendar{events: []*gcalendar.Event{
		{ID: "ev-1", Summary: "Standup", StartTime: time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC)},
	}}
	llm := &fakeLLM{text: `{"action":"VIEW_EVENTS","parameters":{"date":"domani"}}`}
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Cosa ho domani?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if len(res.Events) != 1 || res.Events[0].ID != "ev-1" {
		t.Fatalf("got events %+v, want ev-1", res.Events)
	}

	req := cal.listReqs[len(cal.listReqs)-1]
	wantMin := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	if !req.TimeMin.Equal(wantMin) {
		t.Errorf("got TimeMin %v, want start of tomorrow", req.TimeMin)
	}
	if !req.TimeMax.After(wantMin.Add(23 * time.Hour)) {
		t.Errorf("got TimeMax %v, want end of tomorrow", req.TimeMax)
	}
}

func TestProcessCreateDuplicateWithheld(t *testing.T) {
	existingStart := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []*gcalendar.Event{
		{ID: "ev-1", Summary: "Riunione con Mario", StartTime: existingStart, EndTime: existingStart.Add(time.Hour)},
	}}
	llm := &fakeLLM{text: `{"action":"CREATE_EVENT","parameters":` +
		`{"title":"Riunione con Mario","date":"domani","startTime":"15:00"}}`}
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Crea una riunione con Mario domani alle 15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if res.Success {
		t.Error("duplicate create must not report success")
	}
	if !res.PotentialDuplicate {
		t.Error("expected potentialDuplicate")
	}
	if len(cal.inserted) != 0 {
		t.Errorf("got %d inserts, want none", len(cal.inserted))
	}
}

func TestProcessUpdateShiftsEvent(t *testing.T) {
	start := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []*gcalendar.Event{
		{ID: "ev-1", Summary: "Riunione con Mario", StartTime: start, EndTime: start.Add(time.Hour)},
	}}
	llm := &fakeLLM{text: `{"action":"UPDATE_EVENT","parameters":{"title":"Riunione con Mario",` +
		`"timeModification":{"type":"SHIFT","direction":"FORWARD","amount":1,"unit":"HOUR"}}}`}
	uc := newTestUseCase(cal, llm)
	sc := testScope()

	out, err := uc.Process(context.Background(), sc, command.ProcessInput{
		RawCommand: "Posticipa la riunione con Mario di un'ora",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}

	req, ok := cal.updated["ev-1"]
	if !ok {
		t.Fatal("event was not updated")
	}
	if !req.StartTime.Equal(start.Add(time.Hour)) {
		t.Errorf("got start %v, want 16:00", req.StartTime)
	}
	if !req.EndTime.Equal(start.Add(2 * time.Hour)) {
		t.Errorf("got end %v, want 17:00 (duration preserved)", req.EndTime)
	}

	if last, ok := uc.resolver.Store().Last(sc.SessionID); !ok || last.EventID != "ev-1" {
		t.Error("context store not updated after update")
	}
}

func TestProcessUpdateUsesContextWithoutTitle(t *testing.T) {
	start := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []*gcalendar.Event{
		{ID: "ev-1", Summary: "Riunione", StartTime: start, EndTime: start.Add(time.Hour)},
	}}
	llm := &fakeLLM{text: `{"action":"UPDATE_EVENT","parameters":` +
		`{"timeModification":{"type":"SHIFT","direction":"BACKWARD","amount":30,"unit":"MINUTE"}}}`}
	uc := newTestUseCase(cal, llm)
	sc := testScope()

	uc.resolver.Store().Remember(sc.SessionID, "ev-1", "Riunione")

	out, err := uc.Process(context.Background(), sc, command.ProcessInput{
		RawCommand: "Anticipala di 30 minuti",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	req := cal.updated["ev-1"]
	if !req.StartTime.Equal(start.Add(-30 * time.Minute)) {
		t.Errorf("got start %v, want 14:30", req.StartTime)
	}
}

func TestProcessUpdateNotFound(t *testing.T) {
	cal := &fakeCalendar{}
	llm := &fakeLLM{text: `{"action":"UPDATE_EVENT","parameters":{"title":"Dentista",` +
		`"timeModification":{"type":"SHIFT","direction":"FORWARD","amount":1,"unit":"HOUR"}}}`}
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Posticipa il dentista di un'ora",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if res.Success {
		t.Error("unresolvable reference must fail")
	}
	if !strings.Contains(res.Message, "Non ho trovato") {
		t.Errorf("got message %q, want not-found guidance", res.Message)
	}
}

func TestProcessDeleteSingleByTitle(t *testing.T) {
	start := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []*gcalendar.Event{
		{ID: "ev-1", Summary: "Dentista", StartTime: start, EndTime: start.Add(time.Hour)},
	}}
	llm := &fakeLLM{text: `{"action":"DELETE_EVENT","parameters":{"title":"Dentista"}}`}
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Cancella il dentista",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if !res.Success || res.DeletedCount != 1 {
		t.Fatalf("got success=%v count=%d, want single delete", res.Success, res.DeletedCount)
	}
	if len(cal.deleted) != 1 || cal.deleted[0] != "ev-1" {
		t.Errorf("got deleted %v, want [ev-1]", cal.deleted)
	}
}

func TestProcessAuthExpiredSurfaced(t *testing.T) {
	cal := &fakeCalendar{listErr: &googleapi.Error{Code: 401, Message: "invalid credentials"}}
	llm := &fakeLLM{text: `{"action":"VIEW_EVENTS","parameters":{}}`}
	uc := newTestUseCase(cal, llm)

	out, err := uc.Process(context.Background(), testScope(), command.ProcessInput{
		RawCommand: "Mostra i miei impegni",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := singleResult(t, out)
	if res.Success {
		t.Error("auth failure must not report success")
	}
	if !res.AuthExpired {
		t.Error("expected authExpired flag")
	}
}
