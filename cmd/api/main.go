// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Toikana marketplace HTTP API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Open object storage and the event publisher.
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/toikana/marketplace/internal/api"
	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/platform/config"
	"github.com/toikana/marketplace/internal/platform/constants"
	"github.com/toikana/marketplace/internal/platform/events"
	"github.com/toikana/marketplace/internal/platform/migration"
	"github.com/toikana/marketplace/internal/platform/objstore"
	pgstore "github.com/toikana/marketplace/internal/platform/postgres"
	redisstore "github.com/toikana/marketplace/internal/platform/redis"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/upload"
	"github.com/toikana/marketplace/internal/users/auth"
	"github.com/toikana/marketplace/internal/users/profile"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context lives until shutdown; startup gets its own deadline.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Object Storage & Events ────────────────────────────────────────
	var images objstore.Store
	if cfg.S3Endpoint == "" && cfg.IsDevelopment() {
		log.Warn("object_storage_in_memory", slog.String("reason", "S3_ENDPOINT is empty"))
		images = objstore.NewMemory("http://localhost:" + cfg.ServerPort + "/objects")
	} else {
		s3Store, err := objstore.NewS3(objstore.S3Config{
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		must(log, err, "open object storage")
		images = s3Store
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.Dial(cfg.AMQPURL, log)
		must(log, err, "connect to amqp")
		defer func() {
			if cerr := amqpPublisher.Close(); cerr != nil {
				log.Error("amqp_close_error", slog.Any("error", cerr))
			}
		}()
		publisher = amqpPublisher
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	authService := auth.NewService(
		auth.NewIdentityRepository(pool),
		auth.NewSessionRepository(pool),
		auth.NewResetTokenRepository(rdb),
		jwtSvc,
		publisher,
		log,
	)
	profileService := profile.NewService(profile.NewRepository(pool), publisher, log)
	uploadService := upload.NewService(images, cfg.S3Bucket, log)

	go purgeSessions(rootCtx, authService, log)

	liveness, readiness := api.NewHealthHandlers([]api.Check{
		{Name: "postgres", Probe: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		{Name: "redis", Probe: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth: auth.NewHandler(authService, auth.HandlerOptions{
			PasswordResetURL: cfg.PasswordResetURL,
			SecureCookies:    !cfg.IsDevelopment(),
		}),
		Profile: profile.NewHandler(profileService),
		Upload:  upload.NewHandler(uploadService, profileService),
		Catalog: catalog.Dependencies{
			Pool:      pool,
			Cache:     catalog.NewRedisListCache(rdb, cfg.CatalogCacheTTL),
			Publisher: publisher,
			Images:    catalog.Images{Store: images, Bucket: cfg.S3Bucket},
			Roles:     profileService,
			Logger:    log,
		},
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, jwtSvc, handlers)

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := server.Run(signalCtx); err != nil {
		log.Error("server_stopped_with_error", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "toikana"))
	slog.SetDefault(log)
	return log
}

// purgeSessions deletes expired refresh sessions until ctx is cancelled.
func purgeSessions(ctx context.Context, service *auth.Service, log *slog.Logger) {
	ticker := time.NewTicker(constants.SessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := service.PurgeExpiredSessions(ctx); err != nil {
				log.Error("session_purge_failed", slog.Any("error", err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Limited to startup wiring. After startup, all errors are returned and handled.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
