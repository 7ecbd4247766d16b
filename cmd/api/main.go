package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"supplier-payout-gateway/config"
	"supplier-payout-gateway/internal/app"
	"supplier-payout-gateway/internal/telemetry"
	"supplier-payout-gateway/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("PAYOUT_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("cashfree_env", cfg.Cashfree.Environment).
		Msg("Starting Supplier Payout Gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	log.Info().Msg("PostgreSQL and Redis connected")

	// Load OpenAPI spec for Swagger UI
	specBytes, err := os.ReadFile("docs/api/openapi.yaml")
	if err != nil {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(specBytes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var workers sync.WaitGroup

	if a.Consumer != nil {
		workers.Add(1)
		go func() {
			defer workers.Done()
			log.Info().Str("topic", cfg.Kafka.TriggerTopic).Msg("Kafka trigger consumer started")
			a.Consumer.Run(ctx)
		}()
	}

	if cfg.Reconciler.Enabled {
		workers.Add(1)
		go func() {
			defer workers.Done()
			a.Reconciler.Start(ctx)
		}()
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	workers.Wait()

	if err := a.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close resources")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Server exited")
}
