// Package truth validates clinical-truth documents and exposes stage-scoped
// rubric lookups. Declaration order of rubric items is preserved everywhere;
// it is the only ordering contract downstream feedback generation relies on.
package truth

import (
	"fmt"
	"strings"

	"github.com/dshills/oscejudge/internal/schema"
)

// ValidationError reports a malformed clinical-truth document or transcript.
// No partial evaluation is performed when validation fails.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("truth: validation: %s: %s", e.Field, e.Message)
}

// UnknownStageError reports a requested stage identifier that is not part of
// the case's declared stage sequence.
type UnknownStageError struct {
	Stage  string
	Stages []string
}

func (e *UnknownStageError) Error() string {
	return fmt.Sprintf("truth: unknown stage %q (case stages: %s)",
		e.Stage, strings.Join(e.Stages, ", "))
}

// Validate checks the invariants of a clinical-truth document:
// a non-empty case identifier and stage sequence, and for every rubric item a
// non-empty matcher specification, a stage tag present in the stage sequence,
// and a non-negative weight. Returns a *ValidationError on the first failure.
func Validate(ct *schema.ClinicalTruth) error {
	if ct == nil {
		return &ValidationError{Field: "truth", Message: "document is missing"}
	}
	if strings.TrimSpace(ct.CaseID) == "" {
		return &ValidationError{Field: "case_id", Message: "case identifier is required"}
	}
	if len(ct.Stages) == 0 {
		return &ValidationError{Field: "stages", Message: "stage sequence is empty"}
	}

	stages := make(map[string]bool, len(ct.Stages))
	for i, s := range ct.Stages {
		if strings.TrimSpace(s) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("stages[%d]", i),
				Message: "stage name is empty",
			}
		}
		if stages[s] {
			return &ValidationError{
				Field:   fmt.Sprintf("stages[%d]", i),
				Message: fmt.Sprintf("duplicate stage %q", s),
			}
		}
		stages[s] = true
	}

	for i, item := range ct.Items {
		if len(item.Keywords) == 0 && strings.TrimSpace(item.Semantic) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: "matcher specification is empty: declare keywords or a semantic description",
			}
		}
		for j, kw := range item.Keywords {
			if strings.TrimSpace(kw) == "" {
				return &ValidationError{
					Field:   fmt.Sprintf("items[%d].keywords[%d]", i, j),
					Message: "keyword alternative is empty",
				}
			}
		}
		if !stages[item.Stage] {
			return &ValidationError{
				Field:   fmt.Sprintf("items[%d].stage", i),
				Message: fmt.Sprintf("stage %q is not in the case stage sequence", item.Stage),
			}
		}
		if item.Weight < 0 {
			return &ValidationError{
				Field:   fmt.Sprintf("items[%d].weight", i),
				Message: fmt.Sprintf("weight %d is negative", item.Weight),
			}
		}
	}
	return nil
}

// HasStage reports whether stage appears in the case's stage sequence.
func HasStage(ct *schema.ClinicalTruth, stage string) bool {
	for _, s := range ct.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// StageItems returns the rubric items tagged to stage, in declaration order.
func StageItems(ct *schema.ClinicalTruth, stage string) []schema.RubricItem {
	var items []schema.RubricItem
	for _, item := range ct.Items {
		if item.Stage == stage {
			items = append(items, item)
		}
	}
	return items
}

// ItemID returns the item's declared identifier, or a stable positional
// fallback ("INTRODUCTION-001") when the document omits one. ordinal is the
// item's zero-based position within its stage.
func ItemID(item schema.RubricItem, ordinal int) string {
	if item.ID != "" {
		return item.ID
	}
	return fmt.Sprintf("%s-%03d", strings.ToUpper(item.Stage), ordinal+1)
}

// ItemText returns the human-readable description of an item for feedback and
// critical-error reporting. The matcher text is never used here, so matcher
// detail does not leak into user-facing output.
func ItemText(item schema.RubricItem, ordinal int) string {
	if item.Description != "" {
		return item.Description
	}
	return ItemID(item, ordinal)
}
