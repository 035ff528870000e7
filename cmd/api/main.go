// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

// Command api is the entry point for the ABCScribe HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire repositories, services, and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"github.com/abcscribe/abcscribe/internal/api"
	"github.com/abcscribe/abcscribe/internal/auth"
	"github.com/abcscribe/abcscribe/internal/journal"
	"github.com/abcscribe/abcscribe/internal/mail"
	"github.com/abcscribe/abcscribe/internal/observation"
	"github.com/abcscribe/abcscribe/internal/platform/config"
	"github.com/abcscribe/abcscribe/internal/platform/constants"
	"github.com/abcscribe/abcscribe/internal/platform/migration"
	pgstore "github.com/abcscribe/abcscribe/internal/platform/postgres"
	redisstore "github.com/abcscribe/abcscribe/internal/platform/redis"
	"github.com/abcscribe/abcscribe/internal/platform/sec"
	"github.com/abcscribe/abcscribe/internal/setting"
	"github.com/abcscribe/abcscribe/internal/subject"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "abcscribe"))
	slog.SetDefault(log)

	log.Info("[ABCScribe] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "abcscribe"))
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

	// Application context outlives startup. It bounds background work such
	// as the rate limiter's cleanup loop, and is cancelled on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

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

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Auth Wiring ────────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	magicLinkRepository := auth.NewMagicLinkRepository(pool)
	sessionStore := auth.NewSessionStore(rdb)

	var mailer auth.Mailer
	if cfg.SMTPAddr == "" {
		log.Info("mailer_selected", slog.String("kind", "log"))
		mailer = mail.NewLogMailer(log)
	} else {
		log.Info("mailer_selected", slog.String("kind", "smtp"), slog.String("addr", cfg.SMTPAddr))
		mailer = mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	}

	authService := auth.NewService(userRepository)
	sessionManager := auth.NewSessionManager(userRepository, sessionStore, authService)
	tokenCodec := sec.NewTokenCodec(cfg.TokenSecret, constants.AppName)
	bearerTokens := auth.NewBearerTokenService(userRepository, tokenCodec)
	magicLinks := auth.NewMagicLinkService(userRepository, magicLinkRepository, mailer, cfg.BaseURL)

	webAuthHandler := auth.NewWebHandler(authService, sessionManager, magicLinks)
	apiAuthHandler := auth.NewAPIHandler(authService, bearerTokens)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	subjectRepository := subject.NewRepository(pool)
	subjectService := subject.NewService(subjectRepository)
	subjectHandler := subject.NewHandler(subjectService)

	settingRepository := setting.NewRepository(pool)
	settingService := setting.NewService(settingRepository)
	settingHandler := setting.NewHandler(settingService)

	settingVerifier := observation.SettingVerifierFunc(func(ctx context.Context, userID, settingID string) error {
		_, err := settingService.Get(ctx, userID, settingID)
		return err
	})
	observationRepository := observation.NewRepository(pool)
	observationService := observation.NewService(observationRepository, subjectService, settingVerifier)
	observationHandler := observation.NewHandler(observationService)

	journalRepository := journal.NewRepository(pool)
	journalService := journal.NewService(journalRepository)
	journalHandler := journal.NewHandler(journalService)
	tagHandler := journal.NewTagHandler(journalService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		WebAuth:     webAuthHandler,
		APIAuth:     apiAuthHandler,
		Subject:     subjectHandler,
		Observation: observationHandler,
		Setting:     settingHandler,
		Journal:     journalHandler,
		Tag:         tagHandler,
	}

	resolvers := api.Resolvers{
		Session: sessionManager,
		Bearer:  bearerTokens,
	}

	server := api.NewServer(appCtx, cfg, log, resolvers, handlers)

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
