// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New(ctx) returns a Config populated with defaults.
//   - Load(ctx) layers defaults, an optional YAML file and DUET_ env vars.
//   - Errors returned from this package wrap ErrInvalidConfig or ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/duet/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// FreshnessWindow is how old a submission may be to take part in a run.
	// Zero or negative disables the check.
	FreshnessWindow time.Duration `koanf:"freshness_window"`

	// ReasonsShown is how many top reasons each pair highlight carries.
	ReasonsShown int `koanf:"reasons_shown"`

	// MaxParticipants caps the number of records accepted per request.
	MaxParticipants int `koanf:"max_participants"`

	// MaxBodyBytes caps request bodies on the HTTP API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// RateLimitRPS limits pairing requests per second. Zero disables limiting.
	RateLimitRPS float64 `koanf:"rate_limit_rps"`

	// RateLimitBurst is the token bucket size for the rate limiter.
	RateLimitBurst int `koanf:"rate_limit_burst"`

	// Weights overrides points per scoring factor, e.g. work_pace: 14.
	Weights map[string]float64 `koanf:"weights"`
}

// New creates a Config with defaults. The context is accepted to follow the
// project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		FreshnessWindow: 24 * time.Hour,
		ReasonsShown:    2,
		MaxParticipants: 200,
		MaxBodyBytes:    1 << 20,
		RateLimitRPS:    5,
		RateLimitBurst:  10,
		Weights:         map[string]float64{},
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.ReasonsShown < 0 {
		return fmt.Errorf("%w: reasons_shown must not be negative", ErrInvalidConfig)
	}
	if c.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max_participants must be positive", ErrInvalidConfig)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate_limit_burst must be at least 1", ErrInvalidConfig)
	}
	if len(c.Weights) > 0 {
		if _, err := scoring.DefaultTable().WithWeights(c.Weights); err != nil {
			return fmt.Errorf("%w: weights: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}
