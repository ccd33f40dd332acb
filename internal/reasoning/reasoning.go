// Package reasoning is the semantic-fallback collaborator: given a rubric
// criterion and the evaluated party's utterances, an LLM returns a boolean
// judgment with a confidence in [0,1]. The engine consumes the Client
// interface only; deterministic stubs stand in for providers in tests.
package reasoning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

// ErrUnavailable is returned when the collaborator timed out or errored after
// the retry budget was spent. Callers degrade the affected rubric items to
// "unsatisfied, method = unavailable" instead of failing the evaluation.
var ErrUnavailable = errors.New("reasoning: collaborator unavailable")

// Judgment is the collaborator's decision on one semantic criterion.
type Judgment struct {
	Satisfied  bool    `json:"satisfied"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Provider is the interface for LLM backends.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// NewProvider is the factory for creating LLM providers. It is a package-level
// variable so tests can replace it with a mock without modifying the call site.
// Tests must restore the original value; use t.Cleanup to do so safely.
var NewProvider func(providerName, model string) (Provider, error) = defaultNewProvider

// Client judges semantic criteria against a transcript.
type Client interface {
	Judge(ctx context.Context, criterion string, utterances []string) (Judgment, error)
}

// Options bounds a client's calls to its provider.
type Options struct {
	// Timeout applies to each individual provider call.
	Timeout time.Duration
	// Retries is the number of additional attempts after a transient
	// failure. Degradation policy allows at most one.
	Retries int

	MaxTokens   int
	Temperature float64
}

// New wraps a provider in the timeout/retry policy of Options.
func New(p Provider, opts Options) Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 512
	}
	return &client{provider: p, opts: opts}
}

type client struct {
	provider Provider
	opts     Options
}

// Judge calls the provider at most 1+Retries times. Provider errors and
// unparseable responses both count as transient failures; the final failure
// is wrapped in ErrUnavailable.
func (c *client) Judge(ctx context.Context, criterion string, utterances []string) (Judgment, error) {
	userPrompt := buildUserPrompt(criterion, utterances)

	var lastErr error
	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		if attempt > 0 {
			clog.FromContext(ctx).With("attempt", attempt+1).
				With("error", lastErr.Error()).
				Warn("reasoning call failed, retrying")
		}
		j, err := c.judgeOnce(ctx, userPrompt)
		if err == nil {
			return j, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			// The caller's context is gone; retrying cannot succeed.
			break
		}
	}
	return Judgment{}, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *client) judgeOnce(ctx context.Context, userPrompt string) (Judgment, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	raw, err := c.provider.Complete(callCtx, judgeSystemPrompt, userPrompt, c.opts.MaxTokens, c.opts.Temperature)
	if err != nil {
		return Judgment{}, fmt.Errorf("reasoning: complete: %w", err)
	}
	return ParseJudgment(raw)
}

// judgeSystemPrompt instructs the model to return only the judgment JSON.
const judgeSystemPrompt = `You are an OSCE station examiner judging whether a candidate performed one specific clinical action.

Output ONLY valid JSON conforming to the schema below. No prose, no markdown, no explanation outside the JSON.

Judge strictly from the transcript. Never credit an action the candidate did not voice. When the transcript is ambiguous, lower the confidence instead of guessing.

Output schema (JSON only):
{"satisfied": true, "confidence": 0.85, "reasoning": "one sentence"}`

// buildUserPrompt assembles the per-criterion prompt.
func buildUserPrompt(criterion string, utterances []string) string {
	var sb strings.Builder

	sb.WriteString("Criterion:\n")
	fmt.Fprintf(&sb, "  %s\n", criterion)

	sb.WriteString("\nCandidate utterances (evaluated party only, normalized):\n")
	if len(utterances) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, u := range utterances {
		fmt.Fprintf(&sb, "  - %s\n", u)
	}

	sb.WriteString("\nProduce the JSON judgment now.")
	return sb.String()
}
