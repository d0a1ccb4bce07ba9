package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-user-credential/config"
	pginfra "github.com/oksasatya/go-ddd-user-credential/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-user-credential/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)

	if cfg.DBDriver != "postgres" {
		logger.WithField("driver", cfg.DBDriver).Info("gorm-managed store; schema is applied by automigrate at startup")
		return
	}
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	logger.Info("migrations applied")
}
