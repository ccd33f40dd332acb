package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/oscejudge/internal/schema"
)

// ParseFile reads a plain-text transcript at path. Each turn starts with a
// "Role: text" line; see ParseReader for the format rules.
func ParseFile(path string) ([]schema.TranscriptTurn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseReader(f)
}

// ParseReader parses a plain-text transcript:
//
//	Nurse: Good morning, how are you feeling?
//	Patient: Not great, doctor. My chest hurts.
//
// A line of the form "Role: text" begins a new turn. Lines without a role
// prefix continue the previous turn's text (joined with a space). Blank lines
// and lines starting with '#' are skipped. A continuation line before any
// turn is an error.
func ParseReader(r io.Reader) ([]schema.TranscriptTurn, error) {
	var turns []schema.TranscriptTurn

	scanner := bufio.NewScanner(r)
	// Spoken turns can run long; allow lines up to 1MB.
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if role, text, ok := splitTurn(line); ok {
			turns = append(turns, schema.TranscriptTurn{Role: role, Text: text})
			continue
		}

		if len(turns) == 0 {
			return nil, fmt.Errorf("transcript: line %d: continuation before any role-tagged turn", lineNo)
		}
		last := &turns[len(turns)-1]
		last.Text = last.Text + " " + line
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("transcript: scan: %w", err)
	}
	return turns, nil
}

// splitTurn splits a "Role: text" line. The role label must be a single word
// immediately before the first colon; lines whose prefix contains whitespace
// are treated as continuation text.
func splitTurn(line string) (role, text string, ok bool) {
	i := strings.Index(line, ":")
	if i <= 0 {
		return "", "", false
	}
	label := strings.TrimSpace(line[:i])
	if label == "" || strings.ContainsAny(label, " \t") {
		return "", "", false
	}
	return label, strings.TrimSpace(line[i+1:]), true
}
