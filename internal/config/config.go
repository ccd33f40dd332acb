// Package config holds the injectable engine configuration. Values come from
// the environment via go-envconfig; the CLI may override them with flags.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full knob set consumed by the engine and CLI. Nothing in the
// engine reads the environment directly; this struct is built once and
// injected.
type Config struct {
	// ConfidenceThreshold is the minimum reasoning-collaborator confidence
	// for a semantic judgment to count as satisfied.
	ConfidenceThreshold float64 `env:"OSCE_CONFIDENCE_THRESHOLD, default=0.5"`

	// EvaluatedRoles is the synonym set of transcript role labels treated
	// as the evaluated party.
	EvaluatedRoles []string `env:"OSCE_EVALUATED_ROLES, default=nurse,student,learner"`

	// ReasoningTimeout bounds each reasoning-collaborator call;
	// ReasoningRetries is the number of additional attempts after a
	// transient failure (at most one per the degradation policy).
	ReasoningTimeout time.Duration `env:"OSCE_REASONING_TIMEOUT, default=5s"`
	ReasoningRetries int           `env:"OSCE_REASONING_RETRIES, default=1"`

	// Provider and Model select the reasoning backend.
	Provider    string  `env:"OSCE_PROVIDER, default=anthropic"`
	Model       string  `env:"OSCE_MODEL, default=claude-sonnet-4-0"`
	MaxTokens   int     `env:"OSCE_MAX_TOKENS, default=512"`
	Temperature float64 `env:"OSCE_TEMPERATURE, default=0.2"`

	// FeedbackStyle names a built-in phrasing style.
	FeedbackStyle string `env:"OSCE_FEEDBACK_STYLE, default=clinical"`

	// MaxSessions and SessionTTL size the evicting session store.
	MaxSessions int           `env:"OSCE_MAX_SESSIONS, default=100"`
	SessionTTL  time.Duration `env:"OSCE_SESSION_TTL, default=1h"`
}

// Load reads the configuration from the environment.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration with all defaults applied and no
// environment consulted. Used by tests and embedders.
func Default() Config {
	return Config{
		ConfidenceThreshold: 0.5,
		EvaluatedRoles:      []string{"nurse", "student", "learner"},
		ReasoningTimeout:    5 * time.Second,
		ReasoningRetries:    1,
		Provider:            "anthropic",
		Model:               "claude-sonnet-4-0",
		MaxTokens:           512,
		Temperature:         0.2,
		FeedbackStyle:       "clinical",
		MaxSessions:         100,
		SessionTTL:          time.Hour,
	}
}
