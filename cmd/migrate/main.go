package main

import (
	"log"

	"ai-assistant-be/internal/bootstrap"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/pkg/database"
)

func main() {
	cfg := config.Load()

	dsn := cfg.Database.Path
	if cfg.Database.Driver == database.DriverPostgres {
		dsn = cfg.Database.Connection
		if dsn == "" {
			log.Fatal("Error: DB_CONNECTION_STRING is not set")
		}
	}

	db, err := database.NewGormDB(cfg.Database.Driver, dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")

	if err := bootstrap.Migrate(db, cfg); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
