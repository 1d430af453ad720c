package llmprovider_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"agenda-assistant/pkg/llmprovider"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type mockProvider struct {
	name     string
	failures int // number of calls that fail before succeeding
	calls    int
	text     string
	slow     time.Duration
}

func (p *mockProvider) Complete(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	p.calls++
	if p.slow > 0 {
		select {
		case <-time.After(p.slow):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.calls <= p.failures {
		return nil, errors.New("boom")
	}
	return &llmprovider.Response{Text: p.text}, nil
}

func (p *mockProvider) Name() string  { return p.name }
func (p *mockProvider) Model() string { return "mock-model" }

func TestManagerFirstProviderSucceeds(t *testing.T) {
	first := &mockProvider{name: "first", text: "ok"}
	second := &mockProvider{name: "second", text: "nope"}

	m := llmprovider.NewManager(
		[]llmprovider.Provider{first, second},
		&llmprovider.Config{FallbackEnabled: true, RetryAttempts: 1},
		&mockLogger{},
	)

	resp, err := m.Complete(context.Background(), &llmprovider.Request{UserText: "ciao"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "ok" {
		t.Errorf("got text %q, want %q", resp.Text, "ok")
	}
	if resp.ProviderName != "first" {
		t.Errorf("got provider %q, want %q", resp.ProviderName, "first")
	}
	if second.calls != 0 {
		t.Errorf("second provider should not be called, got %d calls", second.calls)
	}
}

func TestManagerFallsBackToNextProvider(t *testing.T) {
	first := &mockProvider{name: "first", failures: 10}
	second := &mockProvider{name: "second", text: "rescued"}

	m := llmprovider.NewManager(
		[]llmprovider.Provider{first, second},
		&llmprovider.Config{FallbackEnabled: true, RetryAttempts: 2, RetryDelay: time.Millisecond},
		&mockLogger{},
	)

	resp, err := m.Complete(context.Background(), &llmprovider.Request{UserText: "ciao"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "rescued" {
		t.Errorf("got text %q, want %q", resp.Text, "rescued")
	}
	if first.calls != 2 {
		t.Errorf("first provider should be retried twice, got %d calls", first.calls)
	}
}

func TestManagerRetrySucceedsSecondAttempt(t *testing.T) {
	p := &mockProvider{name: "flaky", failures: 1, text: "eventually"}

	m := llmprovider.NewManager(
		[]llmprovider.Provider{p},
		&llmprovider.Config{FallbackEnabled: true, RetryAttempts: 3, RetryDelay: time.Millisecond},
		&mockLogger{},
	)

	resp, err := m.Complete(context.Background(), &llmprovider.Request{UserText: "ciao"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "eventually" {
		t.Errorf("got text %q, want %q", resp.Text, "eventually")
	}
}

func TestManagerAllProvidersFail(t *testing.T) {
	first := &mockProvider{name: "first", failures: 10}
	second := &mockProvider{name: "second", failures: 10}

	m := llmprovider.NewManager(
		[]llmprovider.Provider{first, second},
		&llmprovider.Config{FallbackEnabled: true, RetryAttempts: 1},
		&mockLogger{},
	)

	_, err := m.Complete(context.Background(), &llmprovider.Request{UserText: "ciao"})
	if !errors.Is(err, llmprovider.ErrAllProvidersFailed) {
		t.Fatalf("got error %v, want ErrAllProvidersFailed", err)
	}
}

func TestManagerFallbackDisabledStopsAfterFirst(t *testing.T) {
	first := &mockProvider{name: "first", failures: 10}
	second := &mockProvider{name: "second", text: "unused"}

	m := llmprovider.NewManager(
		[]llmprovider.Provider{first, second},
		&llmprovider.Config{FallbackEnabled: false, RetryAttempts: 1},
		&mockLogger{},
	)

	_, err := m.Complete(context.Background(), &llmprovider.Request{UserText: "ciao"})
	if err == nil {
		t.Fatal("expected error")
	}
	if second.calls != 0 {
		t.Errorf("second provider should not be called when fallback is disabled")
	}
}

func TestManagerNoProviders(t *testing.T) {
	m := llmprovider.NewManager(nil, &llmprovider.Config{}, &mockLogger{})

	_, err := m.Complete(context.Background(), &llmprovider.Request{UserText: "ciao"})
	if !errors.Is(err, llmprovider.ErrNoProvidersConfigured) {
		t.Fatalf("got error %v, want ErrNoProvidersConfigured", err)
	}
}

func TestManagerGlobalTimeout(t *testing.T) {
	slow := &mockProvider{name: "slow", slow: 500 * time.Millisecond, text: "late"}

	m := llmprovider.NewManager(
		[]llmprovider.Provider{slow},
		&llmprovider.Config{FallbackEnabled: true, RetryAttempts: 1, MaxTotalTimeout: 20 * time.Millisecond},
		&mockLogger{},
	)

	_, err := m.Complete(context.Background(), &llmprovider.Request{UserText: "ciao"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}
