package main

import (
	"context"
	"fmt"

	"codeberg.org/adcraft/server/adcraft/workspaces"
	"codeberg.org/adcraft/server/internal/auth"
	"codeberg.org/adcraft/server/internal/config"
	"codeberg.org/adcraft/server/internal/kvstore"
	"codeberg.org/adcraft/server/internal/logger"
	"codeberg.org/adcraft/server/internal/media"
	"codeberg.org/adcraft/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, redisClient, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	services, err := InitializeServices(ctx, cfg, store)
	if err != nil {
		store.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret)
	if err != nil {
		store.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, err
	}

	// share counters across instances when redis is already configured
	limiter, err := ratelimit.New(ratelimit.Config{
		Rate:  cfg.RateLimit,
		Redis: redisClient,
	})
	if err != nil {
		store.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, err
	}

	logger.Info("rate limiting enabled",
		"rate", cfg.RateLimit,
		"store", limiter.Store(),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(logger.RequestLogger(), gin.Recovery())

	server := &Server{
		config:     cfg,
		store:      store,
		services:   services,
		workspaces: workspaces.NewManager(cfg.WorkspaceTTL),
		previews:   media.NewPreviewStore(),
		issuer:     issuer,
		limiter:    limiter,
		router:     router,
	}

	RegisterRoutes(router, server)

	return server, nil
}

// opens the usage store selected by STORE_BACKEND; the redis client is
// returned so the rate limiter can share it
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, *redis.Client, error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		store, err := kvstore.NewRedisStoreFromURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		logger.Info("usage store ready", "backend", cfg.StoreBackend)

		return store, store.Client(), nil
	case config.StorePostgres:
		store, err := kvstore.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		logger.Info("usage store ready", "backend", cfg.StoreBackend)

		return store, nil, nil
	case config.StoreSQLite:
		store, err := kvstore.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}

		logger.Info("usage store ready", "backend", cfg.StoreBackend, "path", cfg.SQLitePath)

		return store, nil, nil
	default:
		logger.Warn("usage store is in memory, counters reset on restart")

		return kvstore.NewMemoryStore(), nil, nil
	}
}

// releases everything NewServer opened
func (s *Server) Close() {
	s.workspaces.Close()

	if err := s.store.Close(); err != nil {
		logger.ErrorErr(err, "failed to close usage store")
	}
}
