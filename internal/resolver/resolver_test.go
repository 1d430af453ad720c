package resolver_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"agenda-assistant/internal/model"
	"agenda-assistant/internal/resolver"
	"agenda-assistant/pkg/gcalendar"
	"agenda-assistant/pkg/log"
)

type stubCalendar struct {
	events []*gcalendar.Event
	err    error
	gotReq gcalendar.ListEventsRequest
}

func (s *stubCalendar) ListEvents(_ context.Context, req gcalendar.ListEventsRequest) ([]*gcalendar.Event, error) {
	s.gotReq = req
	return s.events, s.err
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newResolver(cal *stubCalendar, ttl time.Duration) *resolver.Resolver {
	return resolver.New(log.NewNop(), cal, resolver.NewContextStore(ttl), "primary")
}

func testScope() model.Scope {
	return model.NewScope("chat-1", "user-1", "mario")
}

func event(id, summary string, start time.Time) *gcalendar.Event {
	return &gcalendar.Event{ID: id, Summary: summary, StartTime: start, EndTime: start.Add(time.Hour)}
}

func TestResolveExactTitleMatch(t *testing.T) {
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("ev-1", "Dentista", testNow.Add(48*time.Hour)),
		event("ev-2", "Riunione con Mario", testNow.Add(24*time.Hour)),
	}}
	r := newResolver(cal, time.Minute)

	got, err := r.Resolve(context.Background(), testScope(), "riunione con mario", testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ev-2" {
		t.Errorf("got %q, want ev-2", got)
	}
}

func TestResolveDuplicateExactTitlesAreAmbiguous(t *testing.T) {
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("ev-1", "Riunione", testNow.Add(2*time.Hour)),
		event("ev-2", "Riunione", testNow.Add(5*time.Hour)),
	}}
	r := newResolver(cal, time.Minute)

	_, err := r.Resolve(context.Background(), testScope(), "Riunione", testNow)
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResolvePartialMatch(t *testing.T) {
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("ev-1", "Pranzo di lavoro", testNow.Add(24*time.Hour)),
		event("ev-2", "Riunione con Mario Rossi", testNow.Add(24*time.Hour)),
	}}
	r := newResolver(cal, time.Minute)

	got, err := r.Resolve(context.Background(), testScope(), "Riunione con Mario", testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ev-2" {
		t.Errorf("got %q, want ev-2", got)
	}
}

func TestResolveRecencyPrefersNearerEvent(t *testing.T) {
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("far", "Pranzo con Mario", testNow.Add(10*24*time.Hour)),
		event("near", "Call con Mario", testNow.Add(24*time.Hour)),
	}}
	r := newResolver(cal, time.Minute)

	got, err := r.Resolve(context.Background(), testScope(), "Mario", testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "near" {
		t.Errorf("got %q, want near", got)
	}
}

func TestResolveTieKeepsFirstSeen(t *testing.T) {
	start := testNow.Add(24 * time.Hour)
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("first", "Palestra", start),
		event("second", "Palestra", start),
	}}
	r := newResolver(cal, time.Minute)

	got, err := r.Resolve(context.Background(), testScope(), "palestra sera", testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "first" {
		t.Errorf("got %q, want first", got)
	}
}

func TestResolveNoMatch(t *testing.T) {
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("ev-1", "Palestra", testNow.Add(24*time.Hour)),
	}}
	r := newResolver(cal, time.Minute)

	_, err := r.Resolve(context.Background(), testScope(), "Dentista", testNow)
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResolveListErrorIsNotNotFound(t *testing.T) {
	cal := &stubCalendar{err: errors.New("backend down")}
	r := newResolver(cal, time.Minute)

	_, err := r.Resolve(context.Background(), testScope(), "Dentista", testNow)
	if err == nil || errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("got %v, want transport error", err)
	}
}

func TestResolveSingleMeetingTodayFallback(t *testing.T) {
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("gym", "Palestra", testNow.Add(26*time.Hour)),
		event("meeting", "Riunione sprint", testNow.Add(3*time.Hour)),
	}}
	r := newResolver(cal, time.Minute)

	// Scores below threshold for every candidate, but the command clearly
	// asks for a meeting and only one meeting happens today.
	got, err := r.Resolve(context.Background(), testScope(), "la riunione del team", testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "meeting" {
		t.Errorf("got %q, want meeting", got)
	}
}

func TestResolveSingleMeetingFallbackRefusesTwoCandidates(t *testing.T) {
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("m1", "Riunione sprint", testNow.Add(2*time.Hour)),
		event("m2", "Riunione board", testNow.Add(6*time.Hour)),
	}}
	r := newResolver(cal, time.Minute)

	_, err := r.Resolve(context.Background(), testScope(), "la riunione del gruppo", testNow)
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResolveSingleMeetingFallbackSkippedWithCon(t *testing.T) {
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("meeting", "Riunione sprint", testNow.Add(3*time.Hour)),
	}}
	r := newResolver(cal, time.Minute)

	// "con <name>" names a specific meeting; today's unrelated meeting must
	// not be returned in its place.
	_, err := r.Resolve(context.Background(), testScope(), "riunione con Giulia", testNow)
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResolveEmptyTitleUsesContext(t *testing.T) {
	cal := &stubCalendar{}
	r := newResolver(cal, time.Minute)
	scope := testScope()

	r.Store().Remember(scope.SessionID, "ev-last", "Riunione con Anna")

	got, err := r.Resolve(context.Background(), scope, "", testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ev-last" {
		t.Errorf("got %q, want ev-last", got)
	}
}

func TestResolveEmptyTitleNoContext(t *testing.T) {
	r := newResolver(&stubCalendar{}, time.Minute)

	_, err := r.Resolve(context.Background(), testScope(), "", testNow)
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResolveContextIsSessionScoped(t *testing.T) {
	r := newResolver(&stubCalendar{}, time.Minute)
	r.Store().Remember("chat-1", "ev-last", "Riunione")

	other := model.NewScope("chat-2", "user-2", "anna")
	_, err := r.Resolve(context.Background(), other, "", testNow)
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestContextStoreExpiry(t *testing.T) {
	store := resolver.NewContextStore(10 * time.Millisecond)
	store.Remember("chat-1", "ev-1", "Riunione")

	if _, ok := store.Last("chat-1"); !ok {
		t.Fatal("entry should be fresh")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := store.Last("chat-1"); ok {
		t.Error("entry should have expired")
	}
}

func TestResolveCandidateWindow(t *testing.T) {
	cal := &stubCalendar{events: []*gcalendar.Event{
		event("ev-1", "Dentista", testNow.Add(24*time.Hour)),
	}}
	r := newResolver(cal, time.Minute)

	if _, err := r.Resolve(context.Background(), testScope(), "Dentista", testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cal.gotReq.TimeMin.Before(testNow) {
		t.Error("window must reach back before now")
	}
	if !cal.gotReq.TimeMax.After(testNow.Add(20 * 24 * time.Hour)) {
		t.Error("window must reach ahead of now")
	}
	if cal.gotReq.MaxResults == 0 {
		t.Error("candidate list must be capped")
	}
}
