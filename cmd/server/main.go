package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quicktutor/quicktutor-backend/internal/app"
	"github.com/quicktutor/quicktutor-backend/internal/config"
	"github.com/quicktutor/quicktutor-backend/internal/db"
	"github.com/quicktutor/quicktutor-backend/internal/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg.IsProduction)

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to db")
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	metrics.Register()

	container, err := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		DBPool:       pool,
		Redis:        rdb,
		JWTSecret:    cfg.JWTSecret,
		JWTTTL:       cfg.JWTAccessTokenTTL,
		BcryptCost:   cfg.BcryptCost,
		StoragePath:  cfg.StoragePath,
		GeminiAPIKey: cfg.GeminiAPIKey,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application")
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Metrics and health probes live on their own listener so they
	// are never exposed through the public API surface.
	opsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: opsHandler(pool, rdb),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("api server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("api server error")
		}
	}()
	go func() {
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("ops server running")
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("ops server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api server forced to shutdown")
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("ops server forced to shutdown")
	}

	logger.Info().Msg("server exited gracefully")
}

func newLogger(isProduction bool) zerolog.Logger {
	if isProduction {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// pinger is the readiness slice of both the pgx pool and the redis client.
type pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct {
	rdb *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func opsHandler(dbPinger pinger, rdb *redis.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, p := range []pinger{dbPinger, redisPinger{rdb: rdb}} {
			if err := p.Ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("not ready"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
