// Package phrasing defines named feedback styles that modulate how the
// aggregator words per-item feedback. A style distinguishes satisfied items,
// missed required items, and missed optional items; rubric items may still
// override the wording per item.
package phrasing

import "fmt"

// Style describes one feedback wording strategy. The three templates each
// take the item's description as their single %s argument.
type Style struct {
	Name        string
	Description string
	// Satisfied words an achieved item affirmatively.
	Satisfied string
	// MissedRequired words a required gap as a deficiency.
	MissedRequired string
	// MissedOptional words an optional gap as a missed opportunity,
	// never as a deficiency.
	MissedOptional string
}

// builtins is the registry of built-in styles keyed by name.
var builtins = map[string]Style{
	"clinical": {
		Name:           "clinical",
		Description:    "Default style; direct wording for debrief reports.",
		Satisfied:      "Good: %s.",
		MissedRequired: "Missed: %s.",
		MissedOptional: "Consider also: %s.",
	},
	"examiner": {
		Name:           "examiner",
		Description:    "Formal examiner wording for official station reports.",
		Satisfied:      "Criterion met: %s.",
		MissedRequired: "Criterion not met: %s.",
		MissedOptional: "Opportunity not taken: %s.",
	},
	"coach": {
		Name:           "coach",
		Description:    "Supportive wording for formative practice sessions.",
		Satisfied:      "Well done — %s.",
		MissedRequired: "Next time, make sure to cover: %s.",
		MissedOptional: "You could strengthen this further with: %s.",
	},
}

// Load returns the named built-in style or an error if the name is unknown.
func Load(name string) (Style, error) {
	s, ok := builtins[name]
	if !ok {
		return Style{}, fmt.Errorf("phrasing: unknown style %q (available: clinical, examiner, coach)", name)
	}
	return s, nil
}

// Default returns the style used when none is configured.
func Default() Style {
	return builtins["clinical"]
}
