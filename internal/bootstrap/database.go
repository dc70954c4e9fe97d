package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/config"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/database"
)

// SetupDatabase connects to PostgreSQL and applies migrations when enabled.
func SetupDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*sqlx.DB, error) {
	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if migrateErr := database.RunMigrations(db, log); migrateErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", migrateErr)
		}
	}
	return db, nil
}
