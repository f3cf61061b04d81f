package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/roadscout/report-service/internal/adapter/httpapi"
	kafkaadapter "github.com/roadscout/report-service/internal/adapter/kafka"
	"github.com/roadscout/report-service/internal/adapter/openweather"
	"github.com/roadscout/report-service/internal/adapter/restdb"
	"github.com/roadscout/report-service/internal/adapter/trueway"
	"github.com/roadscout/report-service/internal/adapter/vision"
	"github.com/roadscout/report-service/internal/config"
	"github.com/roadscout/report-service/internal/domain"
	"github.com/roadscout/report-service/internal/observability"
)

func main() {
	// Local development convenience; in deployment the env is set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store := restdb.NewClient(cfg.StoreURL, cfg.StoreAPIKey, cfg.StoreTimeout, metrics, logger)
	reports := domain.NewCollection()

	// Enrichment lookups are feature-flagged; each degrades to "not
	// configured" when its flag is off.
	var geocoder domain.Geocoder
	if cfg.GeocodeEnabled {
		client := trueway.NewClient(cfg.RapidAPIKey, cfg.LookupTimeout, metrics, logger)
		geocoder = trueway.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
		logger.Info("reverse geocoding enabled", "cache_size", cfg.GeocodeCacheSize, "timeout", cfg.LookupTimeout)
	} else {
		logger.Info("reverse geocoding disabled")
	}

	var weather domain.WeatherProvider
	if cfg.WeatherEnabled {
		weather = openweather.NewClient(cfg.RapidAPIKey, cfg.LookupTimeout, metrics, logger)
		logger.Info("weather lookup enabled")
	} else {
		logger.Info("weather lookup disabled")
	}

	var analyzer domain.ImageAnalyzer
	if cfg.VisionEnabled {
		analyzer = vision.NewClient(cfg.RapidAPIKey, cfg.LookupTimeout, metrics, logger)
		logger.Info("image classification enabled")
	} else {
		logger.Info("image classification disabled")
	}

	var events domain.ReportPublisher
	var publisher *kafkaadapter.Publisher
	if cfg.EventsEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		events = publisher
		logger.Info("event publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("event publishing disabled")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		logger.Info("submission rate limiting enabled",
			"limit", cfg.SubmitRateLimit, "window", cfg.SubmitRateWindow)
	} else {
		logger.Info("submission rate limiting disabled")
	}

	// Warm the in-memory collection so the list is served from the first
	// request. A failed initial sync is not fatal; a refresh retries it.
	syncCtx, cancelSync := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	if initial, err := store.GetAll(syncCtx); err != nil {
		logger.Warn("initial report sync failed", "error", err)
	} else {
		reports.ReplaceAll(initial)
		metrics.ReportsInMemory.Set(float64(reports.Len()))
		logger.Info("initial report sync complete", "count", reports.Len())
	}
	cancelSync()

	srv := httpapi.NewServer(httpapi.Deps{
		Store:    store,
		Reports:  reports,
		Geocoder: geocoder,
		Weather:  weather,
		Analyzer: analyzer,
		Events:   events,
		Redis:    rdb,
		Ready:    store,
		Logger:   logger,
		Metrics:  metrics,
	}, httpapi.Options{
		Addr:             cfg.HTTPAddr,
		LocationTimeout:  cfg.LocationTimeout,
		LocationMaxAge:   cfg.LocationMaxAge,
		SubmitRateLimit:  cfg.SubmitRateLimit,
		SubmitRateWindow: cfg.SubmitRateWindow,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
