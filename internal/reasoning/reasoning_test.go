package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// mockProvider is a test double for Provider. Responses are returned in
// order; an empty entry yields a simulated provider error.
type mockProvider struct {
	responses []string
	calls     int
	lastUser  string
}

func (m *mockProvider) Complete(_ context.Context, _, user string, _ int, _ float64) (string, error) {
	m.lastUser = user
	if m.calls >= len(m.responses) {
		return "", fmt.Errorf("mockProvider: no responses configured")
	}
	r := m.responses[m.calls]
	m.calls++
	if r == "" {
		return "", fmt.Errorf("mockProvider: simulated transient failure")
	}
	return r, nil
}

func TestJudge_Success(t *testing.T) {
	p := &mockProvider{responses: []string{`{"satisfied": true, "confidence": 0.85}`}}
	c := New(p, Options{Retries: 1})

	j, err := c.Judge(context.Background(), "greeted the patient", []string{"good morning"})
	if err != nil {
		t.Fatalf("Judge: %v", err)
	}
	if !j.Satisfied || j.Confidence != 0.85 {
		t.Errorf("judgment = %+v, want satisfied with confidence 0.85", j)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
}

func TestJudge_RetriesOnceOnTransientFailure(t *testing.T) {
	p := &mockProvider{responses: []string{"", `{"satisfied": true, "confidence": 0.6}`}}
	c := New(p, Options{Retries: 1})

	j, err := c.Judge(context.Background(), "criterion", nil)
	if err != nil {
		t.Fatalf("Judge after retry: %v", err)
	}
	if !j.Satisfied {
		t.Error("judgment not satisfied after successful retry")
	}
	if p.calls != 2 {
		t.Errorf("provider calls = %d, want 2", p.calls)
	}
}

func TestJudge_RetriesOnUnparseableResponse(t *testing.T) {
	p := &mockProvider{responses: []string{"definitely yes", `{"satisfied": true, "confidence": 0.9}`}}
	c := New(p, Options{Retries: 1})

	if _, err := c.Judge(context.Background(), "criterion", nil); err != nil {
		t.Fatalf("Judge: %v", err)
	}
	if p.calls != 2 {
		t.Errorf("provider calls = %d, want 2", p.calls)
	}
}

func TestJudge_UnavailableAfterRetryBudget(t *testing.T) {
	p := &mockProvider{responses: []string{"", ""}}
	c := New(p, Options{Retries: 1})

	_, err := c.Judge(context.Background(), "criterion", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Judge error = %v, want ErrUnavailable", err)
	}
	if p.calls != 2 {
		t.Errorf("provider calls = %d, want 2 (initial + one retry)", p.calls)
	}
}

func TestJudge_NoRetryAfterCallerContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &mockProvider{responses: []string{"", `{"satisfied": true, "confidence": 0.9}`}}
	c := New(p, Options{Retries: 1})

	_, err := c.Judge(ctx, "criterion", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Judge error = %v, want ErrUnavailable", err)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (no retry once caller context is gone)", p.calls)
	}
}

// slowProvider blocks until its context expires.
type slowProvider struct{}

func (slowProvider) Complete(ctx context.Context, _, _ string, _ int, _ float64) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestJudge_TimeoutBoundsEachCall(t *testing.T) {
	c := New(slowProvider{}, Options{Timeout: 10 * time.Millisecond, Retries: 1})

	start := time.Now()
	_, err := c.Judge(context.Background(), "criterion", nil)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Judge error = %v, want ErrUnavailable", err)
	}
	// Two attempts of ~10ms each; anything near a second means the
	// per-call timeout was not applied.
	if elapsed > 500*time.Millisecond {
		t.Errorf("Judge took %v, want bounded by per-call timeouts", elapsed)
	}
}

func TestJudge_PromptIncludesCriterionAndUtterances(t *testing.T) {
	p := &mockProvider{responses: []string{`{"satisfied": false, "confidence": 0.2}`}}
	c := New(p, Options{})

	_, err := c.Judge(context.Background(), "asked about radiation of the pain", []string{"does it spread anywhere?"})
	if err != nil {
		t.Fatalf("Judge: %v", err)
	}
	for _, want := range []string{"asked about radiation of the pain", "does it spread anywhere?"} {
		if !strings.Contains(p.lastUser, want) {
			t.Errorf("user prompt missing %q:\n%s", want, p.lastUser)
		}
	}
}

func TestJudge_EmptyTranscriptPrompt(t *testing.T) {
	p := &mockProvider{responses: []string{`{"satisfied": false, "confidence": 0.9}`}}
	c := New(p, Options{})

	if _, err := c.Judge(context.Background(), "criterion", nil); err != nil {
		t.Fatalf("Judge: %v", err)
	}
	if !strings.Contains(p.lastUser, "(none)") {
		t.Errorf("user prompt should mark an empty transcript:\n%s", p.lastUser)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider("cohere", "model"); err == nil {
		t.Error("expected error for unknown provider name")
	}
}
