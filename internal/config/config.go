package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Remote document store (restdb.io-style REST API).
	StoreURL     string
	StoreAPIKey  string
	StoreTimeout time.Duration

	// RapidAPI-hosted enrichment services. Each lookup is feature-flagged:
	// present key enables it unless explicitly disabled.
	RapidAPIKey      string
	GeocodeEnabled   bool
	WeatherEnabled   bool
	VisionEnabled    bool
	LookupTimeout    time.Duration
	GeocodeCacheSize int

	// Device position fix policy.
	LocationTimeout time.Duration
	LocationMaxAge  time.Duration

	// Report-created event publishing (optional).
	EventsEnabled bool
	KafkaBrokers  []string
	KafkaTopic    string

	// Submission rate limiting (optional, requires Redis).
	RedisAddr        string
	SubmitRateLimit  int
	SubmitRateWindow time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	storeTimeout, err := envDuration("RESTDB_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	lookupTimeout, err := envDuration("LOOKUP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	locationTimeout, err := envDuration("LOCATION_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	locationMaxAge, err := envDuration("LOCATION_MAX_AGE", 10*time.Second)
	if err != nil {
		return nil, err
	}
	rateWindow, err := envDuration("SUBMIT_RATE_WINDOW", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cacheSize, err := envInt("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	rateLimit, err := envInt("SUBMIT_RATE_LIMIT", 20)
	if err != nil {
		return nil, err
	}

	rapidKey := os.Getenv("RAPIDAPI_KEY")
	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StoreURL:     os.Getenv("RESTDB_URL"),
		StoreAPIKey:  os.Getenv("RESTDB_APIKEY"),
		StoreTimeout: storeTimeout,

		RapidAPIKey:      rapidKey,
		GeocodeEnabled:   envFlag("GEOCODE_ENABLED", rapidKey != ""),
		WeatherEnabled:   envFlag("WEATHER_ENABLED", rapidKey != ""),
		VisionEnabled:    envFlag("VISION_ENABLED", rapidKey != ""),
		LookupTimeout:    lookupTimeout,
		GeocodeCacheSize: cacheSize,

		LocationTimeout: locationTimeout,
		LocationMaxAge:  locationMaxAge,

		EventsEnabled: envFlag("EVENTS_ENABLED", len(brokers) > 0),
		KafkaBrokers:  brokers,
		KafkaTopic:    envOrDefault("KAFKA_TOPIC", "report-created"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		SubmitRateLimit:  rateLimit,
		SubmitRateWindow: rateWindow,
	}

	if cfg.StoreURL == "" {
		return nil, errors.New("RESTDB_URL is required")
	}
	if cfg.StoreAPIKey == "" {
		return nil, errors.New("RESTDB_APIKEY is required")
	}
	if cfg.RapidAPIKey == "" && (cfg.GeocodeEnabled || cfg.WeatherEnabled || cfg.VisionEnabled) {
		return nil, errors.New("enrichment lookups are enabled but RAPIDAPI_KEY is not set")
	}
	if cfg.EventsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("EVENTS_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFlag(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
