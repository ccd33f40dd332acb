package truth

import (
	"errors"
	"testing"

	"github.com/dshills/oscejudge/internal/schema"
)

func validTruth() *schema.ClinicalTruth {
	return &schema.ClinicalTruth{
		CaseID: "CASE-001",
		Stages: []string{"Introduction", "History"},
		Items: []schema.RubricItem{
			{ID: "A", Stage: "Introduction", Keywords: []string{"hello"}, Weight: 10, Required: true},
			{ID: "B", Stage: "History", Semantic: "asked about onset", Weight: 5, Required: true},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validTruth()); err != nil {
		t.Errorf("Validate(valid) = %v, want nil", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*schema.ClinicalTruth)
	}{
		{"missing case id", func(ct *schema.ClinicalTruth) { ct.CaseID = " " }},
		{"empty stage sequence", func(ct *schema.ClinicalTruth) { ct.Stages = nil }},
		{"blank stage name", func(ct *schema.ClinicalTruth) { ct.Stages = []string{"Introduction", ""} }},
		{"duplicate stage", func(ct *schema.ClinicalTruth) { ct.Stages = []string{"History", "History"} }},
		{"empty matcher", func(ct *schema.ClinicalTruth) {
			ct.Items[0].Keywords = nil
			ct.Items[0].Semantic = ""
		}},
		{"blank keyword alternative", func(ct *schema.ClinicalTruth) {
			ct.Items[0].Keywords = []string{"hello", "  "}
		}},
		{"unknown stage tag", func(ct *schema.ClinicalTruth) { ct.Items[1].Stage = "Debrief" }},
		{"negative weight", func(ct *schema.ClinicalTruth) { ct.Items[0].Weight = -1 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ct := validTruth()
			c.mutate(ct)
			err := Validate(ct)
			if err == nil {
				t.Fatal("Validate = nil, want error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("error type = %T, want *ValidationError", err)
			}
		})
	}
}

func TestValidate_NilDocument(t *testing.T) {
	var ve *ValidationError
	if err := Validate(nil); !errors.As(err, &ve) {
		t.Errorf("Validate(nil) = %v, want *ValidationError", err)
	}
}

func TestHasStage(t *testing.T) {
	ct := validTruth()
	if !HasStage(ct, "History") {
		t.Error("HasStage(History) = false, want true")
	}
	if HasStage(ct, "Debrief") {
		t.Error("HasStage(Debrief) = true, want false")
	}
	if HasStage(ct, "") {
		t.Error("HasStage(empty) = true, want false")
	}
}

func TestStageItems_DeclarationOrder(t *testing.T) {
	ct := &schema.ClinicalTruth{
		CaseID: "CASE-002",
		Stages: []string{"History"},
		Items: []schema.RubricItem{
			{ID: "first", Stage: "History", Keywords: []string{"a"}, Weight: 1},
			{ID: "second", Stage: "History", Keywords: []string{"b"}, Weight: 1},
			{ID: "third", Stage: "History", Keywords: []string{"c"}, Weight: 1},
		},
	}
	items := StageItems(ct, "History")
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	for i, want := range []string{"first", "second", "third"} {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, want)
		}
	}
}

func TestStageItems_FiltersByStage(t *testing.T) {
	items := StageItems(validTruth(), "Introduction")
	if len(items) != 1 || items[0].ID != "A" {
		t.Errorf("StageItems(Introduction) = %+v, want just item A", items)
	}
}

func TestItemID_Fallback(t *testing.T) {
	item := schema.RubricItem{Stage: "introduction"}
	if got := ItemID(item, 0); got != "INTRODUCTION-001" {
		t.Errorf("ItemID = %q, want INTRODUCTION-001", got)
	}
	item.ID = "CUSTOM"
	if got := ItemID(item, 0); got != "CUSTOM" {
		t.Errorf("ItemID = %q, want CUSTOM", got)
	}
}

func TestItemText_PrefersDescription(t *testing.T) {
	item := schema.RubricItem{ID: "X", Stage: "History", Description: "asking about allergies"}
	if got := ItemText(item, 0); got != "asking about allergies" {
		t.Errorf("ItemText = %q, want description", got)
	}
	item.Description = ""
	if got := ItemText(item, 0); got != "X" {
		t.Errorf("ItemText = %q, want item ID", got)
	}
}

func TestUnknownStageError_Message(t *testing.T) {
	err := &UnknownStageError{Stage: "Debrief", Stages: []string{"Introduction", "History"}}
	want := `truth: unknown stage "Debrief" (case stages: Introduction, History)`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
