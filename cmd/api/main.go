// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

// Command api is the entry point for the GymFusion HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire the token service, mailer, object store, and metrics.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gymfusion/gymfusion/internal/api"
	"github.com/gymfusion/gymfusion/internal/gym/equipment"
	"github.com/gymfusion/gymfusion/internal/gym/facility"
	"github.com/gymfusion/gymfusion/internal/platform/config"
	"github.com/gymfusion/gymfusion/internal/platform/constants"
	"github.com/gymfusion/gymfusion/internal/platform/mailer"
	"github.com/gymfusion/gymfusion/internal/platform/metrics"
	"github.com/gymfusion/gymfusion/internal/platform/migration"
	"github.com/gymfusion/gymfusion/internal/platform/objstore"
	pgstore "github.com/gymfusion/gymfusion/internal/platform/postgres"
	redisstore "github.com/gymfusion/gymfusion/internal/platform/redis"
	"github.com/gymfusion/gymfusion/internal/platform/sec"
	"github.com/gymfusion/gymfusion/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Platform Services ──────────────────────────────────────────────
	// Missing token secrets abort startup here; they are never retried.
	jwtSvc, err := sec.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	var mailSender mailer.Sender
	if cfg.SMTPHost != "" {
		mailSender = mailer.NewTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SenderMail)
	} else {
		log.Warn("smtp_not_configured_mail_goes_to_log")
		mailSender = &mailer.LogSender{Logger: log}
	}

	var avatarStore auth.AvatarUploader
	if cfg.S3Bucket != "" {
		store, err := objstore.NewStore(startupCtx, objstore.Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKeyID:   cfg.S3AccessKeyID,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		must(log, err, "initialize object storage")
		avatarStore = store
	} else {
		log.Warn("object_storage_not_configured_avatar_uploads_disabled")
		avatarStore = objstore.Disabled{}
	}

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	verifyTokenRepository := auth.NewVerificationTokenRepository(rdb)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	authService := auth.NewService(
		userRepository,
		verifyTokenRepository,
		resetTokenRepository,
		jwtSvc,
		mailSender,
		avatarStore,
		collector,
		auth.Options{
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			PublicBaseURL:   cfg.PublicBaseURL,
		},
		log,
	)
	authHandler := auth.NewHandler(authService)

	facilityService := facility.NewService(facility.NewPostgresRepository(pool), log)
	facilityHandler := facility.NewHandler(facilityService)

	equipmentService := equipment.NewService(equipment.NewPostgresRepository(pool), log)
	equipmentHandler := equipment.NewHandler(equipmentService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Facility:  facilityHandler,
		Equipment: equipmentHandler,
	}

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, authService, api.Observability{
		Collector: collector,
		Gatherer:  registry,
	}, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
