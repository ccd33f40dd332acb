package reasoning

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fenceRe matches a markdown code fence block (``` or ~~~) with an optional
// language tag and captures the content between the fences. The content group
// uses `.*?` (not `.+?`) to allow empty bodies inside fences.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches only an opening fence line, used to strip orphaned
// opening fences from truncated responses.
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

// stripMarkdownFences removes the code fences LLMs sometimes wrap around JSON
// output (e.g. "```json\n...\n```"). A lone opening fence from a truncated
// response is also stripped so the JSON content can still be parsed.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// invalidJSONEscapeRe matches a backslash followed by any character that is
// not a valid JSON string escape. Models occasionally emit such sequences in
// the reasoning field; the sanitizer double-escapes them so the parser
// accepts the response.
var invalidJSONEscapeRe = regexp.MustCompile(`\\([^"\\/bfnrtu])`)

func fixInvalidJSONEscapes(s string) string {
	return invalidJSONEscapeRe.ReplaceAllString(s, `\\$1`)
}

// ParseJudgment parses a raw model response into a Judgment. Markdown fences
// are stripped and invalid escape sequences sanitized before giving up.
// Confidence is clamped to [0,1].
func ParseJudgment(raw string) (Judgment, error) {
	raw = stripMarkdownFences(raw)

	var j Judgment
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		fixed := fixInvalidJSONEscapes(raw)
		if err2 := json.Unmarshal([]byte(fixed), &j); err2 != nil {
			return Judgment{}, fmt.Errorf("reasoning: parse judgment: %w", err)
		}
	}

	if j.Confidence < 0 {
		j.Confidence = 0
	}
	if j.Confidence > 1 {
		j.Confidence = 1
	}
	return j, nil
}
