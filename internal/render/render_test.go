package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dshills/oscejudge/internal/schema"
)

func sampleResult() *schema.EvaluationResult {
	return &schema.EvaluationResult{
		SessionID:      "sess-1",
		Stage:          "Management",
		Score:          20,
		Feedback:       []string{"Good: giving aspirin.", "Missed: safety-netting advice."},
		CriticalErrors: []string{"safety-netting advice"},
		Items: []schema.ItemOutcome{
			{ItemID: "MGMT-ASPIRIN", Satisfied: true, Confidence: 1.0, Method: schema.MethodKeyword, MatchedPhrase: "aspirin", Weight: 15},
			{ItemID: "MGMT-SAFETY|NET", Satisfied: false, Confidence: 0.3, Method: schema.MethodSemantic, Weight: 5},
		},
		Degraded: true,
	}
}

func TestRenderJSON_RoundTrips(t *testing.T) {
	b, err := RenderJSON(sampleResult())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var got schema.EvaluationResult
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Score != 20 || got.Stage != "Management" {
		t.Errorf("round-trip result = %+v", got)
	}
}

func TestRenderJSON_NilResult(t *testing.T) {
	if _, err := RenderJSON(nil); err == nil {
		t.Error("expected error for nil result")
	}
}

func TestRenderJSON_EmptyListsNotNull(t *testing.T) {
	b, err := RenderJSON(&schema.EvaluationResult{
		SessionID:      "sess-1",
		Stage:          "Introduction",
		Feedback:       []string{},
		CriticalErrors: []string{},
	})
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	s := string(b)
	if strings.Contains(s, `"critical_errors": null`) || strings.Contains(s, `"feedback": null`) {
		t.Errorf("empty lists rendered as null:\n%s", s)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown(sampleResult())

	for _, want := range []string{
		"## Station Report",
		"**Score:** 20",
		"Good: giving aspirin.",
		"### Critical Errors",
		"safety-netting advice",
		"semantic judging was unavailable",
		"| Item | Outcome | Method | Confidence | Evidence |",
		"`aspirin`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	// Pipe in an item id must not break the table.
	if !strings.Contains(out, `MGMT-SAFETY\|NET`) {
		t.Error("item id pipe not escaped in table cell")
	}
}

func TestRenderMarkdown_NilAndMinimal(t *testing.T) {
	if got := RenderMarkdown(nil); got != "" {
		t.Errorf("RenderMarkdown(nil) = %q, want empty", got)
	}

	out := RenderMarkdown(&schema.EvaluationResult{SessionID: "sess-1", Stage: "Introduction"})
	if strings.Contains(out, "### Critical Errors") {
		t.Error("critical errors section rendered with no critical errors")
	}
	if strings.Contains(out, "### Item Detail") {
		t.Error("item detail section rendered with no items")
	}
}
