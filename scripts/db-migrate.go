package main

import (
	"context"
	"log"

	"github.com/staffhub-api/config"
	"github.com/staffhub-api/database"
	"github.com/staffhub-api/logger"
)

// Migrates the schema and seeds roles, permissions and statuses without starting the API.
// Set SKIP_SEED=true to only migrate.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	appLog, err := logger.New(cfg.Logging())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	conn, err := database.NewDBConnection("main", cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer conn.Close()

	if err := conn.Migrate(); err != nil {
		appLog.WithError(err).Fatal("Migration failed")
	}

	if config.GetEnv("SKIP_SEED", "false") == "true" {
		appLog.Info("Seeding skipped")
		return
	}

	err = database.Seed(context.Background(), conn.DB, database.SeedOptions{
		CancelledStatusID: cfg.CancelledStatusID,
		AdminEmail:        cfg.SeedAdminEmail,
		AdminPassword:     cfg.SeedAdminPassword,
	}, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Seeding failed")
	}
	appLog.Info("Database migration completed successfully")
}
