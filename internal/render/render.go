// Package render produces output from a completed schema.EvaluationResult.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/oscejudge/internal/schema"
)

// RenderJSON produces a pretty-printed JSON representation of the result.
func RenderJSON(result *schema.EvaluationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("render: nil result")
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// RenderMarkdown produces a Markdown debrief of the result, suitable for
// terminal output or a learner-facing report. Every feedback line and every
// critical error in the result appears in the output.
func RenderMarkdown(result *schema.EvaluationResult) string {
	if result == nil {
		return ""
	}
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Station Report — %s\n\n", result.Stage)
	fmt.Fprintf(&sb, "**Session:** %s  \n", result.SessionID)
	fmt.Fprintf(&sb, "**Score:** %d  \n", result.Score)
	if result.Degraded {
		sb.WriteString("**Note:** semantic judging was unavailable for some items; their outcomes are conservative.  \n")
	}
	if result.Complete {
		sb.WriteString("**Encounter complete.**  \n")
	}
	sb.WriteString("\n")

	if len(result.Feedback) > 0 {
		sb.WriteString("### Feedback\n\n")
		for _, line := range result.Feedback {
			fmt.Fprintf(&sb, "- %s\n", line)
		}
		sb.WriteString("\n")
	}

	if len(result.CriticalErrors) > 0 {
		sb.WriteString("### Critical Errors\n\n")
		for _, ce := range result.CriticalErrors {
			fmt.Fprintf(&sb, "- ⚠ %s\n", ce)
		}
		sb.WriteString("\n")
	}

	if len(result.Items) > 0 {
		sb.WriteString("### Item Detail\n\n")
		sb.WriteString("| Item | Outcome | Method | Confidence | Evidence |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, it := range result.Items {
			outcome := "missed"
			if it.Satisfied {
				outcome = "met"
			}
			evidence := ""
			if it.MatchedPhrase != "" {
				evidence = fmt.Sprintf("`%s`", it.MatchedPhrase)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %.2f | %s |\n",
				mdEscape(it.ItemID), outcome, it.Method, it.Confidence, evidence)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
