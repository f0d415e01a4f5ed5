package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"linkdeck/api/internal/cache"
	"linkdeck/api/internal/config"
	"linkdeck/api/internal/database"
	"linkdeck/api/internal/handlers"
	"linkdeck/api/internal/jobs"
	"linkdeck/api/internal/log"
	"linkdeck/api/internal/mail"
	"linkdeck/api/internal/repository"
	"linkdeck/api/internal/repository/memstore"
	"linkdeck/api/internal/server"
	"linkdeck/api/internal/storage"
	"linkdeck/api/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.LogLevel)

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init telemetry")
	}

	var (
		store  repository.Store
		dbPool *pgxpool.Pool
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store; data is lost on restart")
		store = memstore.New()
	default:
		dbPool, err = database.Connect(ctx, cfg.Postgres)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize postgres")
		}
		store = repository.NewPostgresStore(dbPool)
	}

	deps := handlers.Dependencies{
		Store:        store,
		SessionCache: cache.NopSessionCache{},
		EnrichQueue:  cache.NopEnrichQueue{},
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		deps.Redis = redisClient
		deps.SessionCache = cache.NewRedisSessionCache(redisClient)
		deps.EnrichQueue = cache.NewRedisEnrichQueue(redisClient, cfg.Redis.EnrichStream)
	}

	if cfg.Storage.Enabled {
		objectStore, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init object store")
		}
		if err := objectStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
		deps.Assets = objectStore
	}

	deps.Mailer, err = mail.New(cfg.Mail, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init mailer")
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, deps)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(cfg.Jobs.SessionSweep, handlerSet.Sessions(), logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, tel, dbPool, redisClient)
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	scheduler *jobs.Scheduler,
	tel *telemetry.Telemetry,
	db *pgxpool.Pool,
	redisClient *redis.Client,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("scheduler stop timed out")
	}

	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("telemetry shutdown failed")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}
	if db != nil {
		db.Close()
	}

	logger.Info().Msg("server exited cleanly")
}
