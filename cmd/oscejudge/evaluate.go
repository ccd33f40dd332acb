package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/oscejudge/internal/config"
	"github.com/dshills/oscejudge/internal/engine"
	"github.com/dshills/oscejudge/internal/reasoning"
	"github.com/dshills/oscejudge/internal/render"
	"github.com/dshills/oscejudge/internal/schema"
	"github.com/dshills/oscejudge/internal/session"
	"github.com/dshills/oscejudge/internal/transcript"
	"github.com/dshills/oscejudge/internal/truth"
)

// Exit codes. Input problems (bad flags, unreadable or invalid documents,
// unknown stage, case mismatch) are distinguished from provider setup
// failures and from the caller-applied critical-error override.
const (
	exitCodeCritical = 2
	exitCodeBadInput = 3
	exitCodeAPIError = 4
)

type evaluateFlags struct {
	sessionID      string
	stage          string
	transcriptFile string
	truthFile      string
	provider       string
	model          string
	style          string
	format         string
	out            string
	offline        bool
	failOnCritical bool
}

func newEvaluateCmd() *cobra.Command {
	var f evaluateFlags
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one stage of an encounter transcript against a case document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.sessionID, "session", "", "session identifier (required)")
	cmd.Flags().StringVar(&f.stage, "stage", "", "stage to evaluate (required)")
	cmd.Flags().StringVar(&f.transcriptFile, "transcript", "", "transcript file, JSON or 'Role: text' lines (required)")
	cmd.Flags().StringVar(&f.truthFile, "truth", "", "clinical-truth case document, JSON or YAML (required)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "reasoning provider: anthropic, openai, or google")
	cmd.Flags().StringVar(&f.model, "model", "", "reasoning model name")
	cmd.Flags().StringVar(&f.style, "style", "", "feedback phrasing style: clinical, examiner, or coach")
	cmd.Flags().StringVar(&f.format, "format", "json", "output format: json or markdown")
	cmd.Flags().StringVar(&f.out, "out", "-", "output path, '-' for stdout")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "skip the reasoning collaborator; semantic items degrade to unavailable")
	cmd.Flags().BoolVar(&f.failOnCritical, "fail-on-critical", false, fmt.Sprintf("exit %d when critical errors are reported", exitCodeCritical))

	return cmd
}

func runEvaluate(ctx context.Context, f evaluateFlags) error {
	if f.sessionID == "" || f.stage == "" || f.transcriptFile == "" || f.truthFile == "" {
		return &exitError{code: exitCodeBadInput,
			err: fmt.Errorf("evaluate: --session, --stage, --transcript, and --truth are required")}
	}
	if f.format != "json" && f.format != "markdown" {
		return &exitError{code: exitCodeBadInput,
			err: fmt.Errorf("evaluate: unknown format %q", f.format)}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}
	if f.provider != "" {
		cfg.Provider = f.provider
	}
	if f.model != "" {
		cfg.Model = f.model
	}
	if f.style != "" {
		cfg.FeedbackStyle = f.style
	}

	ct, err := truth.LoadFile(f.truthFile)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}
	turns, err := loadTranscript(f.transcriptFile)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}

	var client reasoning.Client
	if !f.offline {
		provider, err := reasoning.NewProvider(cfg.Provider, cfg.Model)
		if err != nil {
			return &exitError{code: exitCodeAPIError, err: err}
		}
		client = reasoning.New(provider, reasoning.Options{
			Timeout:     cfg.ReasoningTimeout,
			Retries:     cfg.ReasoningRetries,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
	}

	eng, err := engine.New(cfg, session.NewMemStore(), client)
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}

	result, err := eng.Evaluate(ctx, engine.Request{
		SessionID:  f.sessionID,
		Stage:      f.stage,
		Transcript: turns,
		Truth:      ct,
	})
	if err != nil {
		return &exitError{code: exitCodeBadInput, err: err}
	}

	if err := writeResult(result, f.format, f.out); err != nil {
		return err
	}

	if f.failOnCritical && len(result.CriticalErrors) > 0 {
		return &exitError{code: exitCodeCritical,
			err: fmt.Errorf("evaluate: %d critical error(s) reported", len(result.CriticalErrors))}
	}
	return nil
}

// loadTranscript reads a transcript file. JSON files hold an array of
// {role, text} turns; everything else is parsed as 'Role: text' lines.
func loadTranscript(path string) ([]schema.TranscriptTurn, error) {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("transcript: read %s: %w", path, err)
		}
		var turns []schema.TranscriptTurn
		if err := json.Unmarshal(b, &turns); err != nil {
			return nil, fmt.Errorf("transcript: parse json %s: %w", path, err)
		}
		return turns, nil
	}
	return transcript.ParseFile(path)
}

func writeResult(result *schema.EvaluationResult, format, out string) error {
	var b []byte
	switch format {
	case "markdown":
		b = []byte(render.RenderMarkdown(result))
	default:
		jb, err := render.RenderJSON(result)
		if err != nil {
			return err
		}
		b = append(jb, '\n')
	}

	if out == "-" || out == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return fmt.Errorf("evaluate: write %s: %w", out, err)
	}
	return nil
}
