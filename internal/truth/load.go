package truth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/oscejudge/internal/schema"
)

// LoadFile reads and validates a clinical-truth document. The format is
// chosen by extension: .yaml/.yml documents are parsed as YAML, everything
// else as JSON.
func LoadFile(path string) (*schema.ClinicalTruth, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("truth: read %s: %w", path, err)
	}

	var ct schema.ClinicalTruth
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &ct); err != nil {
			return nil, fmt.Errorf("truth: parse yaml %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &ct); err != nil {
			return nil, fmt.Errorf("truth: parse json %s: %w", path, err)
		}
	}

	if err := Validate(&ct); err != nil {
		return nil, err
	}
	return &ct, nil
}
