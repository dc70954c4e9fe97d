// Command migrate applies or rolls back the embedded schema migrations.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	infraconfig "github.com/ZP-ING/reportebuenaventura-backend/infrastructure/config"
	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/config"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/database"
)

// Exit codes for the migrate command.
const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: migrate <up|down> [steps]")
		return exitFailure
	}

	direction := os.Args[1]
	if direction != "up" && direction != "down" {
		fmt.Fprintf(os.Stderr, "Invalid direction: %q (must be \"up\" or \"down\")\n", direction)
		return exitFailure
	}

	steps := 1
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Invalid steps: %q\n", os.Args[2])
			return exitFailure
		}
		steps = n
	}

	cfg, err := config.Load(infraconfig.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return exitFailure
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return exitFailure
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(context.Background(), cfg.Database, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		return exitFailure
	}
	defer func() { _ = db.Close() }()

	if direction == "up" {
		err = database.RunMigrations(db, log)
	} else {
		err = database.MigrateDown(db, steps, log)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration %s failed: %v\n", direction, err)
		return exitFailure
	}

	fmt.Printf("Migration %s completed successfully\n", direction)
	return exitSuccess
}
