package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"galleria/api/internal/cache"
	"galleria/api/internal/config"
	"galleria/api/internal/database"
	"galleria/api/internal/handlers"
	"galleria/api/internal/jobs"
	"galleria/api/internal/log"
	"galleria/api/internal/security"
	"galleria/api/internal/server"
	"galleria/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	db, err := database.NewMongoDatabase(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect mongo")
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	verifier, err := security.NewFederatedVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.VerifyTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init federated verifier")
	}

	handlerSet := handlers.NewHandlerSet(logger, db, redisClient, objectStore, verifier, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(handlerSet.Likes(), logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, db, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *mongo.Database, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	if err := db.Client().Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("mongo disconnect error")
	}
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
