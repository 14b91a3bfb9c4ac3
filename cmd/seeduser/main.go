// cmd/seeduser/main.go: creates the admin account named by ADMIN_EMAIL /
// ADMIN_PASSWORD (env or .env) when it does not exist yet.
// Usage: go run ./cmd/seeduser
package main

import (
	"context"
	"os"
	"time"

	"inventra/internal/config"
	"inventra/internal/infra"
	"inventra/internal/repository"
	"inventra/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	auth := service.NewAuthService(repository.NewUserRepository(db), cfg)
	created, err := auth.EnsureBootstrapAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	if created {
		log.Info().Str("email", cfg.AdminEmail).Msg("admin user created")
	} else {
		log.Info().Str("email", cfg.AdminEmail).Msg("admin user already exists, nothing to do")
	}
}
