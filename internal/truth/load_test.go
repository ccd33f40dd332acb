package truth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFile_JSON(t *testing.T) {
	ct, err := LoadFile("../../testdata/cases/chest_pain.json")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if ct.CaseID != "CASE-CP-001" {
		t.Errorf("CaseID = %q, want CASE-CP-001", ct.CaseID)
	}
	if len(ct.Stages) != 4 || ct.Stages[0] != "Introduction" {
		t.Errorf("Stages = %v, want 4 stages starting with Introduction", ct.Stages)
	}
	if len(StageItems(ct, "History")) != 3 {
		t.Errorf("History items = %d, want 3", len(StageItems(ct, "History")))
	}
}

func TestLoadFile_YAML(t *testing.T) {
	ct, err := LoadFile("../../testdata/cases/asthma.yaml")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if ct.CaseID != "CASE-AS-002" {
		t.Errorf("CaseID = %q, want CASE-AS-002", ct.CaseID)
	}
	items := StageItems(ct, "Management")
	if len(items) != 1 || !items[0].Critical {
		t.Errorf("Management items = %+v, want one critical item", items)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile("../../testdata/cases/does_not_exist.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFile_InvalidDocumentFailsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	doc := `{"case_id":"X","stages":["A"],"items":[{"stage":"A","weight":-3,"keywords":["k"]}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "weight") {
		t.Errorf("error = %v, want weight validation failure", err)
	}
}
