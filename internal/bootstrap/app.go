// Package bootstrap handles application initialization and lifecycle
// management for the complaint service.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/telemetry"
)

const eventDrainTimeout = 10 * time.Second

// Start initializes and runs the service until it is asked to stop.
func Start() error {
	ctx := context.Background()

	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	tp := telemetry.NewProvider()

	// Phase 2: Setup database and entity directory
	db, err := SetupDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()

	deps, err := SetupDomain(ctx, cfg, db, log, tp)
	if err != nil {
		return fmt.Errorf("failed to set up services: %w", err)
	}
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), eventDrainTimeout)
		defer cancel()
		if drainErr := deps.Publisher.Wait(drainCtx); drainErr != nil {
			log.Warn("Pending events were not flushed", logger.Error(drainErr))
		}
		deps.closeRedis()
	}()

	// Phase 3: Setup and run HTTP server
	server := SetupHTTPServer(cfg, db, deps, log, tp)

	log.Info("Starting HTTP server",
		logger.Int("port", cfg.Service.Port),
		logger.Bool("ai_enabled", deps.AIEnabled),
		logger.Bool("events_enabled", deps.Publisher != nil))

	if runErr := server.Run(ctx); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
