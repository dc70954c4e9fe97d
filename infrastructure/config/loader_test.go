package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/config"
)

type sample struct {
	Server struct {
		Port    int           `env:"SAMPLE_PORT"    yaml:"port"`
		Timeout time.Duration `env:"SAMPLE_TIMEOUT" yaml:"timeout"`
	} `yaml:"server"`
	Debug   bool     `env:"SAMPLE_DEBUG"   yaml:"debug"`
	Origins []string `env:"SAMPLE_ORIGINS" yaml:"origins"`
	Name    string   `yaml:"name"`
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithDefaults_FileDefaultsAndEnv(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_TIMEOUT", "45s")
	t.Setenv("SAMPLE_ORIGINS", "https://a.example, https://b.example")

	path := writeFile(t, "server:\n  port: 9000\nname: from-file\n")

	cfg, err := config.LoadWithDefaults(path, func(s *sample) {
		if s.Server.Port == 0 {
			s.Server.Port = 8080
		}
		s.Server.Timeout = 10 * time.Second
	})
	if err != nil {
		t.Fatalf("LoadWithDefaults() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 45*time.Second {
		t.Errorf("timeout = %v, want env override 45s", cfg.Server.Timeout)
	}
	if cfg.Name != "from-file" {
		t.Errorf("name = %q", cfg.Name)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.Origins)
	}
}

func TestLoadWithDefaults_MissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	if _, err := config.LoadWithDefaults[sample](filepath.Join(t.TempDir(), "nope.yml"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_DEBUG", "true")

	cfg, found, err := config.LoadOptional(filepath.Join(t.TempDir(), "nope.yml"), func(s *sample) {
		s.Server.Port = 8080
	})
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if found {
		t.Error("found = true for a missing file")
	}
	if cfg.Server.Port != 8080 || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_PORT", "not-a-number")

	path := writeFile(t, "name: x\n")
	if _, err := config.LoadWithDefaults[sample](path, nil); err == nil {
		t.Fatal("expected error for invalid SAMPLE_PORT")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envPath, []byte("SAMPLE_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("ENV_FILE", envPath)
	// Setenv registers the restore; the variable itself must be absent for
	// the env file to apply.
	t.Setenv("SAMPLE_PORT", "")
	if err := os.Unsetenv("SAMPLE_PORT"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	path := writeFile(t, "name: x\n")
	cfg, err := config.LoadWithDefaults[sample](path, nil)
	if err != nil {
		t.Fatalf("LoadWithDefaults() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070 from env file", cfg.Server.Port)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(config.PathEnvVar, "")
	if got := config.GetConfigPath("config.yml"); got != "config.yml" {
		t.Errorf("GetConfigPath() = %q", got)
	}

	t.Setenv(config.PathEnvVar, "/etc/reportes/config.yml")
	if got := config.GetConfigPath("config.yml"); got != "/etc/reportes/config.yml" {
		t.Errorf("GetConfigPath() = %q", got)
	}
}

func TestValidators(t *testing.T) {
	var verr *config.ValidationError

	if err := config.ValidatePort("service.port", 0); err == nil {
		t.Error("port 0 accepted")
	} else if !errors.As(err, &verr) || verr.Field != "service.port" {
		t.Errorf("unexpected error %v", err)
	}
	if err := config.ValidatePort("service.port", 8080); err != nil {
		t.Errorf("port 8080 rejected: %v", err)
	}
	if err := config.ValidateRequired("auth.jwt_secret", ""); err == nil {
		t.Error("empty secret accepted")
	}
	if err := config.ValidateOneOf("provider", "gemini", "anthropic", "openai"); err == nil {
		t.Error("unknown provider accepted")
	}
	if err := config.ValidatePositive("burst", 0); err == nil {
		t.Error("zero burst accepted")
	}
}

func TestLoadWithDefaults_PointerFieldsFromEnv(t *testing.T) {
	type tuning struct {
		Temperature *float64 `env:"SAMPLE_TEMPERATURE" yaml:"temperature"`
		Unset       *float64 `env:"SAMPLE_UNSET"       yaml:"unset"`
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_TEMPERATURE", "0")

	cfg, err := config.LoadWithDefaults(writeFile(t, "{}\n"), func(*tuning) {})
	if err != nil {
		t.Fatalf("LoadWithDefaults() error = %v", err)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0 {
		t.Errorf("temperature = %v, want explicit 0", cfg.Temperature)
	}
	if cfg.Unset != nil {
		t.Errorf("unset = %v, want nil", *cfg.Unset)
	}
}
