// Package engine orchestrates one stage evaluation: normalize the transcript,
// evaluate the stage's rubric items, detect critical errors, aggregate
// feedback, and commit the result to session state. Evaluations for the same
// session are serialized; unrelated sessions never block each other.
package engine

import (
	"context"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/dshills/oscejudge/internal/config"
	"github.com/dshills/oscejudge/internal/critical"
	"github.com/dshills/oscejudge/internal/feedback"
	"github.com/dshills/oscejudge/internal/phrasing"
	"github.com/dshills/oscejudge/internal/reasoning"
	"github.com/dshills/oscejudge/internal/rubric"
	"github.com/dshills/oscejudge/internal/schema"
	"github.com/dshills/oscejudge/internal/session"
	"github.com/dshills/oscejudge/internal/transcript"
	"github.com/dshills/oscejudge/internal/truth"
)

// Request is one inbound stage evaluation. The transport layer rejects
// malformed shapes before the engine sees them; the engine still validates
// the clinical truth and stage identity itself.
type Request struct {
	SessionID  string                  `json:"session_id"`
	Stage      string                  `json:"stage"`
	Transcript []schema.TranscriptTurn `json:"transcript"`
	Truth      *schema.ClinicalTruth   `json:"clinical_truth"`
}

// Engine is a pure request/response component. Its only state is the injected
// session store, which a failed request never mutates.
type Engine struct {
	cfg   config.Config
	store session.Store
	eval  *rubric.Evaluator
	style phrasing.Style
}

// New builds an engine from its injected collaborators. client may be nil, in
// which case semantic-fallback items degrade to unavailable.
func New(cfg config.Config, store session.Store, client reasoning.Client) (*Engine, error) {
	style := phrasing.Default()
	if cfg.FeedbackStyle != "" {
		var err error
		if style, err = phrasing.Load(cfg.FeedbackStyle); err != nil {
			return nil, err
		}
	}
	return &Engine{
		cfg:   cfg,
		store: store,
		eval:  rubric.NewEvaluator(client, cfg.ConfidenceThreshold),
		style: style,
	}, nil
}

// Evaluate judges one stage of one session. The returned score is the
// session-accumulated total; re-evaluating a stage replaces its prior result
// (correction policy), so weights are never double-counted. All session
// mutation happens at the single commit point after every fallible step has
// succeeded.
func (e *Engine) Evaluate(ctx context.Context, req Request) (*schema.EvaluationResult, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, &truth.ValidationError{Field: "session_id", Message: "session identifier is required"}
	}
	if err := truth.Validate(req.Truth); err != nil {
		return nil, err
	}
	if !truth.HasStage(req.Truth, req.Stage) {
		return nil, &truth.UnknownStageError{Stage: req.Stage, Stages: req.Truth.Stages}
	}

	log := clog.FromContext(ctx).
		With("session", req.SessionID).
		With("case", req.Truth.CaseID).
		With("stage", req.Stage)

	// The lock covers consistency check through commit, including any
	// reasoning-collaborator calls, per the serialization requirement.
	sess := e.store.GetOrCreate(req.SessionID)
	sess.Lock()
	defer sess.Unlock()

	if err := sess.Bind(req.Truth.CaseID, req.Truth.Stages); err != nil {
		return nil, err
	}

	utterances := transcript.Normalize(req.Transcript, e.cfg.EvaluatedRoles)
	items := truth.StageItems(req.Truth, req.Stage)
	log.With("items", len(items)).With("utterances", len(utterances)).
		Debug("evaluating stage")

	outcomes, degraded := e.eval.EvaluateStage(ctx, items, utterances)
	criticals := critical.Detect(items, outcomes)
	lines := feedback.Build(e.style, items, outcomes)

	res := sess.Record(req.Stage, outcomes)

	out := &schema.EvaluationResult{
		SessionID:      req.SessionID,
		Stage:          req.Stage,
		Score:          sess.TotalScore(),
		Feedback:       lines,
		CriticalErrors: criticals,
		Items:          outcomes,
		Degraded:       degraded,
		Complete:       sess.Complete(),
	}

	log.With("score", out.Score).
		With("critical_errors", len(out.CriticalErrors)).
		With("degraded", out.Degraded).
		With("out_of_order", res.OutOfOrder).
		Info("stage evaluated")
	return out, nil
}
