// Package ai enriches records with model-generated summaries. Enrichment is
// best effort: any provider or parse failure leaves the record unchanged.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/trendscout/internal/logger"
)

// Provider names accepted in configuration.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Defaults applied when configuration leaves a field unset.
const (
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultMaxTokens      = 1024
	DefaultTimeout        = 60 * time.Second
)

var (
	// ErrDisabled is returned when enrichment is requested but turned off.
	ErrDisabled = errors.New("AI enrichment is disabled")
	// ErrMissingAPIKey is returned when the provider has no credentials.
	ErrMissingAPIKey = errors.New("AI API key is not configured")
	// ErrUnknownProvider is returned for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown AI provider")
	// ErrEmptyResponse is returned when a provider answers without text.
	ErrEmptyResponse = errors.New("empty model response")
)

// Request is one text generation call.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Config holds AI settings.
type Config struct {
	Enabled        bool          `mapstructure:"enabled"         yaml:"enabled"`
	Provider       string        `mapstructure:"provider"        yaml:"provider"`
	Model          string        `mapstructure:"model"           yaml:"model"`
	APIKey         string        `mapstructure:"api_key"         yaml:"api_key"`
	BaseURL        string        `mapstructure:"base_url"        yaml:"base_url"`
	MaxTokens      int           `mapstructure:"max_tokens"      yaml:"max_tokens"`
	SummaryLength  string        `mapstructure:"summary_length"  yaml:"summary_length"`
	MaxConcurrency int           `mapstructure:"max_concurrency" yaml:"max_concurrency"`
	RateLimit      float64       `mapstructure:"rate_limit"      yaml:"rate_limit"`
	Timeout        time.Duration `mapstructure:"timeout"         yaml:"timeout"`
}

// CheckConfig reports why enrichment cannot run with cfg, or nil.
func CheckConfig(cfg Config) error {
	if !cfg.Enabled {
		return ErrDisabled
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return ErrMissingAPIKey
	}
	switch normalizeProvider(cfg.Provider) {
	case ProviderAnthropic, ProviderOpenAI:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: %s, %s)", ErrUnknownProvider, cfg.Provider, ProviderAnthropic, ProviderOpenAI)
	}
}

// NewGenerator builds the configured provider. Misconfiguration is reported
// here, before any record is attempted.
func NewGenerator(cfg Config, log logger.Interface) (Generator, error) {
	if err := CheckConfig(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	var gen Generator
	switch normalizeProvider(cfg.Provider) {
	case ProviderOpenAI:
		gen = NewOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		gen = NewAnthropicGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL)
	}

	if cfg.RateLimit > 0 {
		gen = NewRateLimited(gen, cfg.RateLimit)
	}

	log.WithComponent("ai").Debug("AI generator configured",
		"provider", normalizeProvider(cfg.Provider),
		"model", cfg.Model,
		"rate_limit", cfg.RateLimit,
	)
	return gen, nil
}

func normalizeProvider(p string) string {
	switch p = strings.ToLower(strings.TrimSpace(p)); p {
	case "", "claude":
		return ProviderAnthropic
	default:
		return p
	}
}

// RateLimited spaces calls to the wrapped generator with a token bucket.
type RateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// NewRateLimited allows perSecond calls per second with a burst of one.
func NewRateLimited(next Generator, perSecond float64) *RateLimited {
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Generate waits for a token, then delegates.
func (r *RateLimited) Generate(ctx context.Context, req Request) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Generate(ctx, req)
}
