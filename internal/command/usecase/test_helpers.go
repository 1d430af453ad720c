package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agenda-assistant/internal/resolver"
	"agenda-assistant/pkg/datemath"
	"agenda-assistant/pkg/gcalendar"
	"agenda-assistant/pkg/llmprovider"
	"agenda-assistant/pkg/log"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// fakeLLM returns a scripted completion and records what it was asked.
type fakeLLM struct {
	text   string
	err    error
	calls  int
	gotReq *llmprovider.Request
}

func (f *fakeLLM) Complete(_ context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	f.calls++
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llmprovider.Response{Text: f.text, ProviderName: "fake", ModelName: "fake-1"}, nil
}

// fakeCalendar is an in-memory calendar recording every mutation.
type fakeCalendar struct {
	events []*gcalendar.Event

	listErr   error
	insertErr error
	updateErr error
	deleteErr map[string]error

	listReqs []gcalendar.ListEventsRequest
	inserted []gcalendar.InsertEventRequest
	updated  map[string]gcalendar.UpdateEventRequest
	deleted  []string
}

func (f *fakeCalendar) ListEvents(_ context.Context, req gcalendar.ListEventsRequest) ([]*gcalendar.Event, error) {
	f.listReqs = append(f.listReqs, req)
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*gcalendar.Event
	for _, ev := range f.events {
		if ev.StartTime.Before(req.TimeMin) || ev.StartTime.After(req.TimeMax) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (f *fakeCalendar) GetEvent(_ context.Context, _, eventID string) (*gcalendar.Event, error) {
	for _, ev := range f.events {
		if ev.ID == eventID {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("event %s does not exist", eventID)
}

func (f *fakeCalendar) InsertEvent(_ context.Context, req gcalendar.InsertEventRequest) (*gcalendar.Event, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = append(f.inserted, req)
	ev := &gcalendar.Event{
		ID:        fmt.Sprintf("created-%d", len(f.inserted)),
		Summary:   req.Summary,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Attendees: req.Attendees,
		HtmlLink:  "https://calendar.example/created",
	}
	f.events = append(f.events, ev)
	return ev, nil
}

func (f *fakeCalendar) UpdateEvent(ctx context.Context, eventID string, req gcalendar.UpdateEventRequest) (*gcalendar.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	existing, err := f.GetEvent(ctx, req.CalendarID, eventID)
	if err != nil {
		return nil, err
	}
	if !req.StartTime.IsZero() {
		existing.StartTime = req.StartTime
		existing.EndTime = req.EndTime
	}
	if req.Attendees != nil {
		existing.Attendees = req.Attendees
	}
	if req.Summary != "" {
		existing.Summary = req.Summary
	}
	if f.updated == nil {
		f.updated = map[string]gcalendar.UpdateEventRequest{}
	}
	f.updated[eventID] = req
	return existing, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, _, eventID string) error {
	if err, ok := f.deleteErr[eventID]; ok {
		return err
	}
	for _, ev := range f.events {
		if ev.ID == eventID {
			f.deleted = append(f.deleted, eventID)
			return nil
		}
	}
	return errors.New("event does not exist")
}

func newTestUseCase(cal *fakeCalendar, llm *fakeLLM) *implUseCase {
	dates, err := datemath.NewResolver("UTC")
	if err != nil {
		panic(err)
	}
	store := resolver.NewContextStore(time.Minute)
	res := resolver.New(log.NewNop(), cal, store, "primary")

	uc := New(log.NewNop(), llm, cal, res, dates, Config{
		CalendarID:      "primary",
		Timezone:        "UTC",
		DuplicateWindow: 5 * time.Minute,
	})
	uc.now = func() time.Time { return testNow }
	return uc
}
