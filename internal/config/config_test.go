package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/ZP-ING/reportebuenaventura-backend/infrastructure/config"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/aiclient"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/config"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/events"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Service.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, events.DefaultStream, cfg.Redis.Stream)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, aiclient.ProviderAnthropic, cfg.Classification.AI.Provider)
	assert.Equal(t, 30*time.Second, cfg.Classification.AI.Timeout)
	assert.Equal(t, 5, cfg.Classification.AI.BreakerFailureThreshold)
	assert.False(t, cfg.Classification.AI.Configured())
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	path := writeConfig(t, `
service:
  port: 9090
redis:
  enabled: true
  address: redis:6379
  stream: reports
classification:
  ai:
    enabled: true
    timeout: 10s
    burst: 3
`)
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Service.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "reports", cfg.Redis.Stream)
	assert.Equal(t, 10*time.Second, cfg.Classification.AI.Timeout)
	assert.Equal(t, 3, cfg.Classification.AI.Burst)
	assert.Equal(t, aiclient.ProviderOpenAI, cfg.Classification.AI.Provider)
	assert.Equal(t, aiclient.DefaultOpenAIModel, cfg.Classification.AI.Model)
	assert.True(t, cfg.Classification.AI.Configured())
	require.NoError(t, cfg.Validate())
}

func TestValidate_RequiresJWTSecret(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	err = cfg.Validate()
	var verr *infraconfig.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "auth.jwt_secret", verr.Field)
}
