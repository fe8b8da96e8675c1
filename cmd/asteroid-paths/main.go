package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/neoscope/asteroid-paths/internal/api"
	"github.com/neoscope/asteroid-paths/internal/config"
	"github.com/neoscope/asteroid-paths/internal/service"
	"github.com/neoscope/asteroid-paths/pkg/cache"
	"github.com/neoscope/asteroid-paths/pkg/logging"
	"github.com/neoscope/asteroid-paths/pkg/neows"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// app holds the wired components of the service.
type app struct {
	handler http.Handler
	redis   *redis.Client
}

func (a *app) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// buildApp wires the NeoWs client, cache, service and router from cfg.
func buildApp(cfg config.Config, logger zerolog.Logger) (*app, error) {
	client, err := neows.New(cfg.NeoWs)
	if err != nil {
		return nil, fmt.Errorf("create neows client: %w", err)
	}

	a := &app{}
	var (
		store cache.Store
		ready api.ReadinessCheck
	)
	if cfg.RedisURL != "" {
		opts, err := redisOptions(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.redis = redis.NewClient(opts)
		redisStore := cache.NewRedisStore(a.redis, cfg.Cache)
		store, ready = redisStore, redisStore.Ping
	} else {
		store = cache.NewMemoryStore(cfg.Cache)
	}

	svc := service.NewPathService(cache.NewReadThrough(store, client))
	a.handler = api.NewRouter(api.Options{
		Service: svc,
		Logger:  logger,
		Ready:   ready,
	})

	logger.Info().
		Str("neows_base_url", cfg.NeoWs.BaseURL).
		Str("cache_backend", store.Backend()).
		Int("cache_max_size", cfg.Cache.MaxSize).
		Dur("cache_max_age", cfg.Cache.MaxAge).
		Msg("Service wired")
	if cfg.NeoWs.APIKey == neows.DefaultAPIKey {
		logger.Warn().Msg("Using NeoWs DEMO_KEY; set NEOWS_API_KEY for a real quota")
	}

	return a, nil
}

// redisOptions accepts a redis:// URL or a bare host:port.
func redisOptions(raw string) (*redis.Options, error) {
	if strings.Contains(raw, "://") {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: raw}, nil
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	a, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := a.redis.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info().Str("redis_addr", a.redis.Options().Addr).Msg("Connected to Redis")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Starting asteroid-paths server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
