// Package config holds the service configuration.
package config

import (
	"time"

	infraconfig "github.com/ZP-ING/reportebuenaventura-backend/infrastructure/config"
	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	infraredis "github.com/ZP-ING/reportebuenaventura-backend/infrastructure/redis"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/aiclient"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/database"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/events"
)

// Default configuration values.
const (
	defaultServiceName    = "reporte-buenaventura"
	defaultServiceVersion = "0.1.0"
	defaultServicePort    = 8080
	defaultStreamMaxLen   = 10000

	defaultAIRatePerSecond   = 2.0
	defaultAIBurst           = 5
	defaultBreakerThreshold  = 5
	defaultBreakerOpenPeriod = 30 * time.Second
)

// Config holds the application configuration.
type Config struct {
	Service        ServiceConfig        `yaml:"service"`
	Database       database.Config      `yaml:"database"`
	Redis          RedisConfig          `yaml:"redis"`
	Logging        logger.Config        `yaml:"logging"`
	Auth           AuthConfig           `yaml:"auth"`
	Classification ClassificationConfig `yaml:"classification"`
}

// ServiceConfig holds service-level settings.
type ServiceConfig struct {
	Name           string   `yaml:"name"`
	Version        string   `yaml:"version"`
	Port           int      `env:"PORT"                 yaml:"port"`
	Debug          bool     `env:"APP_DEBUG"            yaml:"debug"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" yaml:"allowed_origins"`
}

// RedisConfig adds the event stream to the connection settings.
type RedisConfig struct {
	infraredis.Config `yaml:",inline"`

	Stream       string `env:"REDIS_EVENT_STREAM" yaml:"stream"`
	StreamMaxLen int64  `yaml:"stream_max_len"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"` //nolint:gosec // signing key config
}

// ClassificationConfig holds the AI tier and its guards.
type ClassificationConfig struct {
	AI AIConfig `yaml:"ai"`
}

// AIConfig is the provider configuration plus orchestrator guards.
type AIConfig struct {
	aiclient.Config `yaml:",inline"`

	RateLimitPerSecond      float64       `env:"AI_RATE_LIMIT_PER_SECOND" yaml:"rate_limit_per_second"`
	Burst                   int           `env:"AI_BURST"                 yaml:"burst"`
	BreakerFailureThreshold int           `yaml:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `yaml:"breaker_timeout"`
}

// Load reads path (a missing file means defaults plus environment).
func Load(path string) (*Config, error) {
	cfg, _, err := infraconfig.LoadOptional[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}
	// The model default follows the provider, which env may have changed.
	cfg.Classification.AI.SetDefaults()
	return cfg, nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	cfg.Database.SetDefaults()
	setRedisDefaults(&cfg.Redis)
	cfg.Logging.SetDefaults()
	setAIDefaults(&cfg.Classification.AI)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultServiceVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setRedisDefaults(r *RedisConfig) {
	r.SetDefaults()
	if r.Stream == "" {
		r.Stream = events.DefaultStream
	}
	if r.StreamMaxLen == 0 {
		r.StreamMaxLen = defaultStreamMaxLen
	}
}

func setAIDefaults(ai *AIConfig) {
	if ai.RateLimitPerSecond == 0 {
		ai.RateLimitPerSecond = defaultAIRatePerSecond
	}
	if ai.Burst == 0 {
		ai.Burst = defaultAIBurst
	}
	if ai.BreakerFailureThreshold == 0 {
		ai.BreakerFailureThreshold = defaultBreakerThreshold
	}
	if ai.BreakerTimeout == 0 {
		ai.BreakerTimeout = defaultBreakerOpenPeriod
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidatePort("database.port", c.Database.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("auth.jwt_secret", c.Auth.JWTSecret); err != nil {
		return err
	}
	if err := infraconfig.ValidateOneOf("logging.level", c.Logging.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	if err := infraconfig.ValidateOneOf("logging.format", c.Logging.Format, "json", "console"); err != nil {
		return err
	}
	ai := c.Classification.AI
	if err := infraconfig.ValidateOneOf(
		"classification.ai.provider", ai.Provider, aiclient.ProviderAnthropic, aiclient.ProviderOpenAI,
	); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositive("classification.ai.burst", ai.Burst); err != nil {
		return err
	}
	if ai.Timeout <= 0 {
		return &infraconfig.ValidationError{Field: "classification.ai.timeout", Message: "must be positive"}
	}
	return nil
}
