// Package schema defines all canonical data types for the OSCE evaluation engine.
package schema

// Role identifies the speaker of a transcript turn.
type Role string

const (
	// RoleEvaluated marks turns spoken by the party being graded. The raw
	// role label on a turn is matched against the configured synonym set
	// (e.g. "nurse", "student", "learner") rather than this constant.
	RoleEvaluated Role = "evaluated"
	// RoleCounterpart marks turns spoken by the simulated patient or examiner.
	RoleCounterpart Role = "counterpart"
	// RoleSystem marks injected system/narration turns.
	RoleSystem Role = "system"
)

// TranscriptTurn is a single dialogue turn as submitted by the caller.
// Turns are immutable once received; ordinal position is the slice index.
type TranscriptTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// MatchMethod records how a rubric item's satisfaction was decided.
type MatchMethod string

const (
	// MethodKeyword means the deterministic keyword pass decided the outcome.
	MethodKeyword MatchMethod = "keyword"
	// MethodSemantic means the reasoning collaborator decided the outcome.
	MethodSemantic MatchMethod = "semantic"
	// MethodUnavailable means the reasoning collaborator failed after retry
	// and the item degraded to unsatisfied.
	MethodUnavailable MatchMethod = "unavailable"
)

// RubricItem is a single gradable clinical action, scoped to a stage.
// A valid item declares at least one keyword alternative or a semantic
// description; it may declare both, in which case keywords are checked first.
type RubricItem struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Stage       string `json:"stage" yaml:"stage"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Keywords are phrase alternatives matched case-insensitively as
	// substrings of evaluated-party utterances. Declaration order matters:
	// the first matching alternative is recorded for feedback provenance.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Semantic is a free-text criterion for the reasoning collaborator,
	// consulted only when the keyword pass fails.
	Semantic string `json:"semantic,omitempty" yaml:"semantic,omitempty"`

	Weight   int  `json:"weight" yaml:"weight"`
	Critical bool `json:"critical,omitempty" yaml:"critical,omitempty"`
	Required bool `json:"required" yaml:"required"`

	// SatisfiedFeedback and MissedFeedback override the phrasing-style
	// templates when set, e.g. "Good rapport building." / "Missed initial
	// greeting." Absent overrides, feedback is derived from Description.
	SatisfiedFeedback string `json:"satisfied_feedback,omitempty" yaml:"satisfied_feedback,omitempty"`
	MissedFeedback    string `json:"missed_feedback,omitempty" yaml:"missed_feedback,omitempty"`
}

// ClinicalTruth is the structured ground truth for a case: the ordered stage
// sequence and the rubric items scoped to those stages. It is supplied fresh
// per request and never mutated by the engine.
type ClinicalTruth struct {
	CaseID string       `json:"case_id" yaml:"case_id"`
	Title  string       `json:"title,omitempty" yaml:"title,omitempty"`
	Stages []string     `json:"stages" yaml:"stages"`
	Items  []RubricItem `json:"items" yaml:"items"`
}

// ItemOutcome is the per-item result of a stage evaluation.
type ItemOutcome struct {
	ItemID     string      `json:"item_id"`
	Satisfied  bool        `json:"satisfied"`
	Confidence float64     `json:"confidence"`
	Method     MatchMethod `json:"method"`

	// MatchedPhrase is the first declared keyword alternative that matched.
	// Set only when Method == keyword and Satisfied == true.
	MatchedPhrase string `json:"matched_phrase,omitempty"`

	// Weight is copied from the rubric item so session score accumulation
	// does not depend on retaining the truth document.
	Weight int `json:"weight"`
}

// EvaluationResult is the response payload for one stage evaluation.
// Score is the session-accumulated total across all evaluated stages.
// Feedback holds exactly one string per rubric item declared for the
// requested stage, in declaration order. CriticalErrors comes only from
// unsatisfied criticality-flagged items and is reported alongside the score,
// never folded into it; callers apply their own override policy.
type EvaluationResult struct {
	SessionID      string        `json:"session_id"`
	Stage          string        `json:"stage"`
	Score          int           `json:"score"`
	Feedback       []string      `json:"feedback"`
	CriticalErrors []string      `json:"critical_errors"`
	Items          []ItemOutcome `json:"items,omitempty"`

	// Degraded is set when at least one item fell back to unavailable
	// because the reasoning collaborator failed after retry.
	Degraded bool `json:"degraded,omitempty"`

	// Complete is set once every declared stage has at least one result.
	Complete bool `json:"session_complete,omitempty"`
}
