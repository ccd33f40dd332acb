// Package critical detects safety-relevant rubric omissions. It runs over the
// per-item outcomes of a stage evaluation and reports unsatisfied
// criticality-flagged items independently of the numeric score.
package critical

import (
	"github.com/dshills/oscejudge/internal/schema"
	"github.com/dshills/oscejudge/internal/truth"
)

// Detect returns one description per unsatisfied criticality-flagged item, in
// declaration order. Descriptions come from the item's declared description,
// never the matcher text, so matcher detail does not leak to users. A stage
// with no criticality-flagged items yields an empty list; that is a normal
// outcome, not an error.
//
// outcomes must be index-aligned with items, as produced by the rubric
// evaluator.
func Detect(items []schema.RubricItem, outcomes []schema.ItemOutcome) []string {
	errs := []string{}
	for i, item := range items {
		if !item.Critical || i >= len(outcomes) {
			continue
		}
		if outcomes[i].Satisfied {
			continue
		}
		errs = append(errs, truth.ItemText(item, i))
	}
	return errs
}
