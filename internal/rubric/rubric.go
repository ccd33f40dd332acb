// Package rubric decides per-item satisfaction against a normalized
// transcript: a deterministic keyword pass first, then the semantic fallback
// for items that declare one.
package rubric

import (
	"context"
	"errors"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/dshills/oscejudge/internal/reasoning"
	"github.com/dshills/oscejudge/internal/schema"
	"github.com/dshills/oscejudge/internal/transcript"
	"github.com/dshills/oscejudge/internal/truth"
)

// DefaultThreshold is the minimum collaborator confidence for a semantic
// judgment to count as satisfied.
const DefaultThreshold = 0.5

// Evaluator decides rubric item satisfaction. The reasoning client may be
// nil, in which case semantic-only items degrade to unavailable.
type Evaluator struct {
	client    reasoning.Client
	threshold float64
}

// NewEvaluator returns an Evaluator with the given confidence threshold;
// threshold <= 0 selects DefaultThreshold.
func NewEvaluator(client reasoning.Client, threshold float64) *Evaluator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Evaluator{client: client, threshold: threshold}
}

// EvaluateStage produces one outcome per item, in declaration order. The
// returned degraded flag is true when any item fell back to unavailable.
//
// The keyword pass is always checked first and is deterministic: keyword
// outcomes carry confidence 1.0 whether satisfied or not. When several
// keyword alternatives match, the first declared alternative is recorded as
// the matched phrase.
func (e *Evaluator) EvaluateStage(ctx context.Context, items []schema.RubricItem, utterances []string) ([]schema.ItemOutcome, bool) {
	outcomes := make([]schema.ItemOutcome, 0, len(items))
	degraded := false

	for i, item := range items {
		out := schema.ItemOutcome{
			ItemID: truth.ItemID(item, i),
			Weight: item.Weight,
		}

		if phrase, ok := keywordMatch(item.Keywords, utterances); ok {
			out.Satisfied = true
			out.Confidence = 1.0
			out.Method = schema.MethodKeyword
			out.MatchedPhrase = phrase
			outcomes = append(outcomes, out)
			continue
		}

		if item.Semantic == "" {
			// Keyword-only item with no match: a deterministic miss.
			out.Confidence = 1.0
			out.Method = schema.MethodKeyword
			outcomes = append(outcomes, out)
			continue
		}

		j, err := e.judge(ctx, item.Semantic, utterances)
		if err != nil {
			if !errors.Is(err, reasoning.ErrUnavailable) {
				// Judge only fails with ErrUnavailable; anything else
				// still degrades rather than failing the evaluation.
				clog.FromContext(ctx).With("item", out.ItemID).
					With("error", err.Error()).
					Warn("unexpected reasoning error, degrading item")
			}
			out.Method = schema.MethodUnavailable
			degraded = true
			outcomes = append(outcomes, out)
			continue
		}

		out.Method = schema.MethodSemantic
		out.Confidence = j.Confidence
		out.Satisfied = j.Satisfied && j.Confidence >= e.threshold
		outcomes = append(outcomes, out)
	}

	return outcomes, degraded
}

func (e *Evaluator) judge(ctx context.Context, criterion string, utterances []string) (reasoning.Judgment, error) {
	if e.client == nil {
		return reasoning.Judgment{}, reasoning.ErrUnavailable
	}
	return e.client.Judge(ctx, criterion, utterances)
}

// keywordMatch scans alternatives in declaration order and returns the first
// one that occurs, case-insensitive and whitespace-normalized, as a substring
// of any utterance.
func keywordMatch(alternatives, utterances []string) (string, bool) {
	for _, alt := range alternatives {
		needle := transcript.NormalizeText(alt)
		if needle == "" {
			continue
		}
		for _, u := range utterances {
			if strings.Contains(u, needle) {
				return alt, true
			}
		}
	}
	return "", false
}
