package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/arso-exporter/internal/api/http"
	"github.com/i474232898/arso-exporter/internal/config"
	"github.com/i474232898/arso-exporter/internal/logging"
	"github.com/i474232898/arso-exporter/internal/scheduler"
	"github.com/i474232898/arso-exporter/internal/store"
	"github.com/i474232898/arso-exporter/internal/weather"
	"github.com/i474232898/arso-exporter/internal/weather/providers"
)

const appName = "arso-exporter"

// Version is injected at build time.
var Version = "dev"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg, Version, appName)

	// Field registry: compiled once, shared by every cycle.
	registry, err := weather.NewRegistry()
	if err != nil {
		logger.Error("failed to build field registry", "err", err)
		os.Exit(1)
	}

	// Gauge store exposing one family per field.
	gauges, err := store.NewMemoryStore(registry.Families())
	if err != nil {
		logger.Error("failed to create metric store", "err", err)
		os.Exit(1)
	}
	refreshMetrics, err := store.NewRefreshMetrics(gauges.Registerer())
	if err != nil {
		logger.Error("failed to register refresh metrics", "err", err)
		os.Exit(1)
	}

	// Shared HTTP client for the outbound document fetch.
	httpClient := &http.Client{
		Timeout: cfg.FetchTimeout,
	}
	backoff := providers.DefaultBackoff
	backoff.MaxRetries = cfg.FetchRetries
	fetcher := providers.NewARSOFetcher(httpClient, cfg.SourceURL, backoff)

	watchlist := weather.NewWatchlist(cfg.Stations)
	syncer := weather.NewSynchronizer(registry, gauges, watchlist, cfg.PruneMissingStations)

	service := weather.NewService(fetcher, registry, syncer,
		weather.WithObserver(refreshMetrics),
		weather.WithLogger(logger),
	)
	logger.Info("watching stations", "count", len(watchlist), "stations", cfg.Stations)

	// Scheduler that periodically refreshes the gauges.
	sched := scheduler.New(service, cfg.RefreshInterval, cfg.CycleTimeout, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "err", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := httpapi.NewApp(appName)
	httpapi.RegisterRoutes(app, gauges, service)

	go func() {
		logger.Info("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "err", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "err", err)
	}
}
