package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrate(db *sqlx.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending migration.
func RunMigrations(db *sqlx.DB, log logger.Logger) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("No pending migrations")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.Info("Migrations applied", logger.Int("version", int(version)))
	return nil
}

// MigrateDown rolls back steps migrations, at least one.
func MigrateDown(db *sqlx.DB, steps int, log logger.Logger) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	if steps <= 0 {
		steps = 1
	}

	if err = m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("No migrations to roll back")
			return nil
		}
		return fmt.Errorf("roll back migrations: %w", err)
	}
	log.Info("Migrations rolled back", logger.Int("steps", steps))
	return nil
}
