// Package session tracks per-session accumulated results across sequential
// stage evaluations. Sessions are created on first reference and never
// destroyed by the engine; eviction belongs to the store implementation.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/oscejudge/internal/schema"
)

// ConsistencyError reports a request whose case identifier does not match the
// case recorded from a prior evaluation for the same session. Evaluation is
// refused rather than silently run against mismatched truth.
type ConsistencyError struct {
	SessionID string
	Recorded  string
	Requested string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("session %s: case %q does not match recorded case %q",
		e.SessionID, e.Requested, e.Recorded)
}

// StageVisit is one entry in the audit trail of evaluation order.
type StageVisit struct {
	Stage      string    `json:"stage"`
	Ordinal    int       `json:"ordinal"`
	At         time.Time `json:"at"`
	OutOfOrder bool      `json:"out_of_order,omitempty"`
	Correction bool      `json:"correction,omitempty"`
}

// StageResult is the recorded outcome of one stage evaluation. Re-evaluating
// the same stage replaces the prior StageResult atomically (correction
// policy); the audit history keeps every visit.
type StageResult struct {
	Stage       string
	Outcomes    []schema.ItemOutcome
	Ordinal     int
	EvaluatedAt time.Time
	OutOfOrder  bool
}

// Session holds one learner encounter's accumulated results. Callers must
// hold the session lock for the full duration of an evaluation, including any
// reasoning-collaborator calls, so that the at-most-once invariant per
// (session, stage, item) holds under concurrency. Locking one session never
// blocks evaluations of other sessions.
type Session struct {
	mu sync.Mutex

	id      string
	caseID  string
	stages  []string
	results map[string]*StageResult
	history []StageVisit
	visits  int
}

// NewSession returns an empty session with no stages evaluated.
func NewSession(id string) *Session {
	return &Session{
		id:      id,
		results: make(map[string]*StageResult),
	}
}

// Lock acquires the per-session mutual exclusion scope.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases it. Release on all exit paths, including error paths.
func (s *Session) Unlock() { s.mu.Unlock() }

// ID returns the caller-assigned session identifier.
func (s *Session) ID() string { return s.id }

// CaseID returns the recorded case identifier, empty before the first Bind.
func (s *Session) CaseID() string { return s.caseID }

// Bind records the case identity and stage sequence on first use and checks
// consistency on every subsequent call. Callers must hold the session lock.
func (s *Session) Bind(caseID string, stages []string) error {
	if s.caseID == "" {
		s.caseID = caseID
		s.stages = append([]string(nil), stages...)
		return nil
	}
	if s.caseID != caseID {
		return &ConsistencyError{SessionID: s.id, Recorded: s.caseID, Requested: caseID}
	}
	return nil
}

// Evaluated reports whether the stage already has a StageResult.
func (s *Session) Evaluated(stage string) bool {
	_, ok := s.results[stage]
	return ok
}

// nextExpected returns the first declared stage without a result, or "" once
// every stage has been evaluated.
func (s *Session) nextExpected() string {
	for _, st := range s.stages {
		if _, ok := s.results[st]; !ok {
			return st
		}
	}
	return ""
}

// Record commits a stage evaluation. A repeat of an evaluated stage is a
// correction and replaces the prior result; an unevaluated stage other than
// the next expected one is accepted but flagged out of order. Every visit is
// appended to the audit history in the order actually observed. Callers must
// hold the session lock.
func (s *Session) Record(stage string, outcomes []schema.ItemOutcome) *StageResult {
	correction := s.Evaluated(stage)
	outOfOrder := !correction && stage != s.nextExpected()

	s.visits++
	now := time.Now()
	res := &StageResult{
		Stage:       stage,
		Outcomes:    append([]schema.ItemOutcome(nil), outcomes...),
		Ordinal:     s.visits,
		EvaluatedAt: now,
		OutOfOrder:  outOfOrder,
	}
	s.results[stage] = res
	s.history = append(s.history, StageVisit{
		Stage:      stage,
		Ordinal:    s.visits,
		At:         now,
		OutOfOrder: outOfOrder,
		Correction: correction,
	})
	return res
}

// TotalScore sums satisfied weights across all recorded stage results. Since
// a correction replaces its stage's result, no item weight is ever counted
// twice.
func (s *Session) TotalScore() int {
	total := 0
	for _, res := range s.results {
		for _, o := range res.Outcomes {
			if o.Satisfied {
				total += o.Weight
			}
		}
	}
	return total
}

// Complete reports whether every declared stage has at least one result.
// Corrections after completion do not change completion status.
func (s *Session) Complete() bool {
	return len(s.stages) > 0 && s.nextExpected() == ""
}

// History returns a copy of the audit trail of visits in observed order.
func (s *Session) History() []StageVisit {
	return append([]StageVisit(nil), s.history...)
}
