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

	// Upstream feed hosts. Mirrors are lower-priority redundant bases for
	// the same feeds.
	SWPCBaseURL string
	SWPCMirrors []string

	// Quality fetcher tuning.
	FetchTimeout time.Duration
	FetchRetries int
	RetryDelay   time.Duration

	// TTL cache tuning.
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration
	ResponseCacheTTL   time.Duration

	// Circuit breaker tuning.
	BreakerThreshold int
	BreakerCooldown  time.Duration
	BreakerMaxProbes int

	// Report sink (optional Kafka publishing of normalized reports).
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// LoggerLevel implements observability.LoggerConfig.
func (c *Config) LoggerLevel() string { return c.LogLevel }

// LoggerFormat implements observability.LoggerConfig.
func (c *Config) LoggerFormat() string { return c.LogFormat }

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := durationOrDefault("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	retryDelay, err := durationOrDefault("FETCH_RETRY_DELAY", time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := durationOrDefault("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := durationOrDefault("CACHE_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	responseCacheTTL, err := durationOrDefault("RESPONSE_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, err
	}
	breakerCooldown, err := durationOrDefault("BREAKER_COOLDOWN", time.Minute)
	if err != nil {
		return nil, err
	}

	fetchRetries, err := intOrDefault("FETCH_RETRIES", 2)
	if err != nil {
		return nil, err
	}
	cacheMaxSize, err := intOrDefault("CACHE_MAX_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	breakerThreshold, err := intOrDefault("BREAKER_THRESHOLD", 5)
	if err != nil {
		return nil, err
	}
	breakerMaxProbes, err := intOrDefault("BREAKER_MAX_PROBES", 3)
	if err != nil {
		return nil, err
	}

	kafkaBrokers := splitList(envOrDefault("KAFKA_BROKERS", ""))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SWPCBaseURL: envOrDefault("SWPC_BASE_URL", "https://services.swpc.noaa.gov"),
		SWPCMirrors: splitList(os.Getenv("SWPC_MIRROR_URLS")),

		FetchTimeout: fetchTimeout,
		FetchRetries: fetchRetries,
		RetryDelay:   retryDelay,

		CacheMaxSize:       cacheMaxSize,
		CacheTTL:           cacheTTL,
		CacheSweepInterval: sweepInterval,
		ResponseCacheTTL:   responseCacheTTL,

		BreakerThreshold: breakerThreshold,
		BreakerCooldown:  breakerCooldown,
		BreakerMaxProbes: breakerMaxProbes,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "space-weather-reports"),
	}

	if cfg.SWPCBaseURL == "" {
		return nil, errors.New("SWPC_BASE_URL is required")
	}
	if cfg.CacheMaxSize <= 0 {
		return nil, errors.New("CACHE_MAX_SIZE must be positive")
	}
	if cfg.BreakerThreshold <= 0 {
		return nil, errors.New("BREAKER_THRESHOLD must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func intOrDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

// splitList splits a comma-separated list, trimming whitespace and dropping
// empty elements.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
