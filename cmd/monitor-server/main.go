// cmd/monitor-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"listing-monitor/internal/common/config"
	"listing-monitor/internal/common/database"
	"listing-monitor/internal/common/logger"
	"listing-monitor/internal/common/observability"
	"listing-monitor/internal/enrichment"
	"listing-monitor/internal/seed"
	"listing-monitor/internal/server"
	"listing-monitor/internal/state"
	"listing-monitor/internal/store"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting monitor server...")

	obs := observability.New("monitor-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init transient enrichment state ---
	var stateStore state.Store
	var redis *database.RedisClient

	switch cfg.State.Backend {
	case "redis":
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		stateStore = state.NewRedis(redis, time.Duration(cfg.State.TTL)*time.Second)
	default:
		stateStore = state.NewMemory()
		zapLog.Info("Using in-memory enrichment state")
	}

	// --- Init store and demo data ---
	st := store.New()
	reviews := seed.Reviews()
	stats := seed.Stats()

	if cfg.App.SeedDemoData {
		for _, listing := range seed.Listings() {
			if err := st.Add(listing); err != nil {
				zapLog.Fatal("seed data load failed", zap.Error(err))
			}
		}
		zapLog.Info("Demo data seeded", zap.Int("listings", st.Len()))
	}

	// --- Init enrichment gateway ---
	client := enrichment.NewClient(enrichment.FromAppConfig(cfg.GenAI))
	gateway := enrichment.NewGateway(client, log)

	srv := server.New(cfg, st, reviews, stats, gateway, stateStore, log, obs)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Monitor server stopped gracefully")
}
