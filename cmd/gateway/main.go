// cmd/gateway/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"aldalil-gateway/internal/common/config"
	"aldalil-gateway/internal/common/logger"
	"aldalil-gateway/internal/common/observability"
	"aldalil-gateway/internal/gateway/cache"
	"aldalil-gateway/internal/gateway/envelope"
	"aldalil-gateway/internal/gateway/quality"
	"aldalil-gateway/internal/gateway/retrier"
	"aldalil-gateway/internal/gateway/router"
	"aldalil-gateway/internal/inference"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting AI gateway...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Cache backend ---
	var store cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		var redisStore *cache.Redis
		err = retryWithBackoff(func() error {
			client, dialErr := cache.NewRedisClient(ctx, cfg.Cache.Redis.Address, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
			if dialErr != nil {
				return dialErr
			}
			redisStore = cache.NewRedis(client, cfg.Cache.TTLDuration())
			return nil
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		store = redisStore
		zapLog.Info("Redis cache connected successfully")
	default:
		store = cache.NewMemory(cfg.Cache.TTLDuration())
		zapLog.Info("In-memory cache initialized")
	}

	// --- Inference client ---
	client := inference.NewHTTPClient(
		cfg.Inference.BaseURL,
		cfg.Inference.APIKey,
		cfg.Inference.TimeoutDuration(),
		log,
	)
	zapLog.Info("Inference client initialized", zap.String("baseURL", cfg.Inference.BaseURL))

	// --- Router ---
	opts := router.Options{
		Primary: retrier.Policy{
			MaxAttempts: cfg.Retry.TranslationAttempts,
			Delay:       cfg.Retry.DelayDuration(),
			Backoff:     cfg.Retry.BackoffFactor,
		},
		Meaning: retrier.Policy{
			MaxAttempts: cfg.Retry.MeaningAttempts,
			Delay:       cfg.Retry.DelayDuration(),
			Backoff:     cfg.Retry.BackoffFactor,
		},
		Rules: quality.DefaultRules(),
	}
	rt := router.New(client, store, log, opts)

	// --- HTTP server ---
	handler := envelope.NewHandler(rt, store, obs, log)
	mux := handler.Routes()
	if cfg.Server.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("Gateway listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping gateway...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Gateway stopped gracefully")
}
