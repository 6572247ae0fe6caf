package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"

	"github.com/vanshika/heliumtrace/internal/cache"
	"github.com/vanshika/heliumtrace/internal/config"
	"github.com/vanshika/heliumtrace/internal/graph"
	"github.com/vanshika/heliumtrace/internal/invalidation"
	"github.com/vanshika/heliumtrace/internal/logging"
	"github.com/vanshika/heliumtrace/internal/repository"
	"github.com/vanshika/heliumtrace/internal/server"
	"github.com/vanshika/heliumtrace/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	responseCache, closeCache, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		logger.Error("failed to create response cache", "error", err, "backend", cfg.Cache.Backend)
		os.Exit(1)
	}
	defer closeCache()
	logger.Info("response cache ready", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.TTL)

	if len(cfg.Invalidation.Brokers) > 0 {
		consumer := invalidation.NewConsumer(invalidation.NewKafkaReader(cfg.Invalidation), responseCache, logger)
		defer consumer.Close()
		go func() {
			logger.Info("listening for cache invalidations", "topic", cfg.Invalidation.Topic, "brokers", cfg.Invalidation.Brokers)
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("cache invalidation consumer stopped", "error", err)
			}
		}()
	}

	caching := service.Caching{
		Store:      responseCache,
		TTL:        cfg.Cache.TTL,
		ClusterTTL: cfg.Cache.ClusterTTL,
		Logger:     logger,
	}
	repo := repository.New(graphClient)
	apiHandlers := server.NewAPIHandlers(logger,
		service.NewPaymentService(repo, caching),
		service.NewHotspotService(repo, caching),
	)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:         server.GraphHealthService{Client: graphClient},
		API:            apiHandlers,
		AllowedOrigins: config.ParseCSV(cfg.HTTP.AllowedOriginsCSV),
	})

	srv := server.New(logger, cfg.HTTP, router)
	if err := srv.Run(ctx); err != nil {
		logger.Error("http server failed", "error", err)
	}
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}

func buildCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, func(), error) {
	switch cfg.Backend {
	case config.CacheBackendNone:
		return cache.Noop{}, func() {}, nil
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		rc := cache.NewRedisCache(client, cfg.KeyPrefix)
		if err := rc.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
		}
		return rc, func() { _ = client.Close() }, nil
	default:
		mc := cache.NewMemoryCache()
		sweepCtx, stop := context.WithCancel(ctx)
		go mc.Run(sweepCtx, cfg.SweepInterval)
		return mc, stop, nil
	}
}
