// Package main is the entry point for the Gift Circle API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/giftcircle/backend/config"
	"github.com/giftcircle/backend/internal/infra/cache"
	"github.com/giftcircle/backend/internal/infra/db"
	"github.com/giftcircle/backend/internal/infra/dependency"
	"github.com/giftcircle/backend/internal/infra/logging"
	"github.com/giftcircle/backend/internal/infra/metrics"
	"github.com/giftcircle/backend/internal/infra/server/router"
)

const (
	shutdownTimeout          = 10 * time.Second
	rateLimitCleanupInterval = time.Minute
)

func main() {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(logging.Setup(cfg.Server.IsProduction(), cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Gift Circle API stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited properly")
}

// run owns every long-lived resource. It returns once ctx is cancelled and
// the server, the email worker and the notification dispatcher have stopped.
func run(ctx context.Context, cfg *config.Config) error {
	slog.Info("Starting Gift Circle API",
		"environment", cfg.Server.Environment,
		"address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		"claim_visibility", cfg.Wishlist.ClaimVisibility,
	)

	database, err := db.Open(&cfg.Database, !cfg.Server.IsProduction() && cfg.Log.Level == "debug")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := database.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	slog.Info("Database migrations completed successfully")

	redisClient := connectRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	injector, err := dependency.NewInjector(cfg, database, redisClient, metrics.New(), dependency.Overrides{})
	if err != nil {
		return fmt.Errorf("wire dependencies: %w", err)
	}

	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: injector.Router.Setup(router.Options{
			Environment:    cfg.Server.Environment,
			AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	if cfg.Email.WorkerEnabled {
		g.Go(func() error {
			injector.EmailWorker.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		injector.MemoryStore.RunCleanup(gctx, rateLimitCleanupInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
		if err := injector.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("notification dispatcher drain: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// connectRedis returns nil when Redis is not configured or unreachable.
// Rate limiting then runs on the in-memory store alone.
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.URL == "" {
		return nil
	}
	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		return nil
	}
	return client
}
