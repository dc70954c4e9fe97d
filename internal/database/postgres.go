// Package database is the PostgreSQL implementation of the complaint,
// comment and entity stores.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/retry"
)

const (
	DefaultHost            = "localhost"
	DefaultPort            = 5432
	DefaultUser            = "postgres"
	DefaultName            = "reporte_buenaventura"
	DefaultSSLMode         = "disable"
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 5 * time.Minute
	DefaultPingTimeout     = 5 * time.Second
)

// Config holds PostgreSQL connection settings.
type Config struct {
	Host            string        `env:"POSTGRES_HOST"         yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"         yaml:"port"`
	User            string        `env:"POSTGRES_USER"         yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD"     yaml:"password"` //nolint:gosec // connection config
	Database        string        `env:"POSTGRES_DB"           yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"      yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `env:"POSTGRES_AUTO_MIGRATE" yaml:"auto_migrate"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.User == "" {
		c.User = DefaultUser
	}
	if c.Database == "" {
		c.Database = DefaultName
	}
	if c.SSLMode == "" {
		c.SSLMode = DefaultSSLMode
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = DefaultConnMaxLifetime
	}
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Connect opens a pool and pings it, retrying while the server comes up.
func Connect(ctx context.Context, cfg Config, log logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	retryCfg := retry.DefaultConfig()
	retryCfg.OnRetry = func(attempt int, delay time.Duration, pingErr error) {
		log.Warn("Database not ready, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Error(pingErr))
	}
	err = retry.Do(ctx, retryCfg, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Connected to database",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database))
	return db, nil
}
