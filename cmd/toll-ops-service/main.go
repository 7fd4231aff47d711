package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toll-ops-service/internal/config"
	httphandler "toll-ops-service/internal/http"
	"toll-ops-service/internal/ingest"
	"toll-ops-service/internal/logger"
	"toll-ops-service/internal/service"
	"toll-ops-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	// Object storage is optional; without it the dataset path is local only.
	r2Client, err := storage.NewR2ClientFromEnv()
	if err != nil && !errors.Is(err, storage.ErrNotConfigured) {
		appLogger.Fatal().Err(err).Msg("failed to initialize R2 client")
	}
	if err != nil {
		appLogger.Warn().Msg("R2 storage not configured, dataset reloads use the local file only")
	}

	loader := ingest.NewLoader(appLogger)
	trafficService := service.NewTrafficService(loader, r2Client, cfg, appLogger)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	info, err := trafficService.Reload(loadCtx)
	cancelLoad()
	if err != nil {
		appLogger.Fatal().Err(err).Str("path", cfg.Data.Path).Msg("failed to load transaction dataset")
	}
	appLogger.Info().
		Str("snapshot_id", info.ID).
		Int("records", info.Records).
		Int("plazas", info.Plazas).
		Msg("initial dataset snapshot ready")

	handler := httphandler.NewHandler(trafficService, cfg, appLogger)
	router := httphandler.NewRouter(handler, cfg.Environment, trafficService)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting toll operations service")

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error().Err(err).Msg("failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server exited")
}
