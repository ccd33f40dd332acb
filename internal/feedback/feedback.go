// Package feedback converts per-item outcomes into ordered human-readable
// feedback and per-stage scores. No LLM calls are made here.
package feedback

import (
	"fmt"

	"github.com/dshills/oscejudge/internal/phrasing"
	"github.com/dshills/oscejudge/internal/schema"
	"github.com/dshills/oscejudge/internal/truth"
)

// Build produces exactly one feedback string per rubric item, in declaration
// order. Satisfied items are phrased affirmatively; unsatisfied required
// items as a gap; unsatisfied optional items as a missed opportunity. An
// item's own feedback overrides (SatisfiedFeedback / MissedFeedback) win over
// the style templates.
//
// outcomes must be index-aligned with items, as produced by the rubric
// evaluator.
func Build(style phrasing.Style, items []schema.RubricItem, outcomes []schema.ItemOutcome) []string {
	lines := make([]string, 0, len(items))
	for i, item := range items {
		satisfied := i < len(outcomes) && outcomes[i].Satisfied
		lines = append(lines, itemLine(style, item, i, satisfied))
	}
	return lines
}

func itemLine(style phrasing.Style, item schema.RubricItem, ordinal int, satisfied bool) string {
	if satisfied {
		if item.SatisfiedFeedback != "" {
			return item.SatisfiedFeedback
		}
		return fmt.Sprintf(style.Satisfied, truth.ItemText(item, ordinal))
	}
	if item.MissedFeedback != "" {
		return item.MissedFeedback
	}
	if item.Required {
		return fmt.Sprintf(style.MissedRequired, truth.ItemText(item, ordinal))
	}
	return fmt.Sprintf(style.MissedOptional, truth.ItemText(item, ordinal))
}

// StageScore sums the weights of satisfied outcomes. Weights are
// non-negative, so a stage score is never negative.
func StageScore(outcomes []schema.ItemOutcome) int {
	score := 0
	for _, o := range outcomes {
		if o.Satisfied {
			score += o.Weight
		}
	}
	return score
}
