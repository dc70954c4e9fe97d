// Package aiclient adapts hosted LLM APIs to the single-prompt, single-reply
// contract the classifier uses.
package aiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Defaults applied by Config.SetDefaults.
const (
	DefaultProvider       = ProviderAnthropic
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultMaxTokens      = 200
	DefaultTemperature    = 0.3
	DefaultTimeout        = 30 * time.Second
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("ai provider not configured")
	// ErrEmptyReply is returned when the provider answers without text.
	ErrEmptyReply = errors.New("ai provider returned no text")
)

// Config selects and tunes a provider.
type Config struct {
	Enabled   bool          `env:"AI_ENABLED"    yaml:"enabled"`
	Provider  string        `env:"AI_PROVIDER"   yaml:"provider"`
	APIKey    string        `env:"AI_API_KEY"    yaml:"api_key"`
	Model     string        `env:"AI_MODEL"      yaml:"model"`
	BaseURL   string        `env:"AI_BASE_URL"   yaml:"base_url"`
	Timeout   time.Duration `env:"AI_TIMEOUT"    yaml:"timeout"`
	MaxTokens int           `env:"AI_MAX_TOKENS" yaml:"max_tokens"`
	// Temperature is optional so that an explicit 0 survives SetDefaults.
	Temperature *float64 `env:"AI_TEMPERATURE" yaml:"temperature"`
}

// SetDefaults fills unset values. The model default depends on the provider.
func (c *Config) SetDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		if c.Provider == ProviderOpenAI {
			c.Model = DefaultOpenAIModel
		} else {
			c.Model = DefaultAnthropicModel
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature == nil {
		t := DefaultTemperature
		c.Temperature = &t
	}
}

// temperature reads Temperature, treating nil as the default.
func (c *Config) temperature() float64 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// Configured reports whether the AI tier should be used at all.
func (c *Config) Configured() bool {
	return c.Enabled && strings.TrimSpace(c.APIKey) != ""
}

// Client is what New returns; it satisfies classifier.Completer.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// New builds the configured provider client.
func New(cfg Config) (Client, error) {
	cfg.SetDefaults()
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropic(cfg, httpClient), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
