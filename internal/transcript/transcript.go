// Package transcript normalizes raw dialogue turns into comparable units:
// speaker-filtered, lower-cased, whitespace-collapsed utterances.
package transcript

import (
	"strings"

	"github.com/dshills/oscejudge/internal/schema"
)

// NormalizeText lower-cases s, trims it, and collapses internal whitespace
// runs to single spaces.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Normalize returns the normalized utterances of the evaluated party, in turn
// order. roles is the synonym set of role labels considered "the evaluated
// party"; matching is case-insensitive. A transcript with no matching turns
// yields an empty sequence, not an error.
func Normalize(turns []schema.TranscriptTurn, roles []string) []string {
	evaluated := make(map[string]bool, len(roles))
	for _, r := range roles {
		evaluated[strings.ToLower(strings.TrimSpace(r))] = true
	}

	var out []string
	for _, t := range turns {
		if !evaluated[strings.ToLower(strings.TrimSpace(t.Role))] {
			continue
		}
		u := NormalizeText(t.Text)
		if u == "" {
			continue
		}
		out = append(out, u)
	}
	return out
}
