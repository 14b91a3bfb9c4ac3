package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventra/internal/config"
	"inventra/internal/infra"
	"inventra/internal/repository"
	"inventra/internal/repository/memory"
	"inventra/internal/router"
	"inventra/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger. dev: pretty, prod: JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	var (
		db    *gorm.DB
		repos repository.Set
	)
	if cfg.UseMemoryStore() {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		repos = memory.New().Set()
	} else {
		db, err = infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		if err := infra.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		repos = repository.NewGormSet(db)
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL not set, product locks and reorder emails are disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := router.BuildServices(cfg, repos, rdb)

	if created, err := svc.Auth.EnsureBootstrapAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to create bootstrap admin")
	} else if !created && cfg.AdminEmail == "" {
		log.Warn().Msg("ADMIN_EMAIL not set, no bootstrap admin ensured")
	}

	startWorkers(ctx, cfg, rdb)
	worker.StartAuditCron(ctx, svc.Audits, cfg.AuditCronInterval)

	r := router.New(cfg, svc, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Inventra backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// startWorkers runs the email job pool when both redis and SMTP are configured.
func startWorkers(ctx context.Context, cfg *config.Config, rdb *redis.Client) {
	if rdb == nil || !cfg.MailEnabled() {
		return
	}
	mailer := infra.NewMailer(cfg)
	breaker := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))

	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueEmail, worker.JobTypeEmail, worker.NewEmailWorker(mailer, breaker))
	pool.Start(ctx, cfg.WorkerPoolSize)
}
