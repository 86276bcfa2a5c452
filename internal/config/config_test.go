package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "https://services.swpc.noaa.gov", cfg.SWPCBaseURL)
	assert.Empty(t, cfg.SWPCMirrors)

	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2, cfg.FetchRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)

	assert.Equal(t, 1000, cfg.CacheMaxSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Minute, cfg.CacheSweepInterval)
	assert.Equal(t, time.Minute, cfg.ResponseCacheTTL)

	assert.Equal(t, 5, cfg.BreakerThreshold)
	assert.Equal(t, time.Minute, cfg.BreakerCooldown)
	assert.Equal(t, 3, cfg.BreakerMaxProbes)

	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "space-weather-reports", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SWPC_BASE_URL", "http://localhost:9091")
	t.Setenv("SWPC_MIRROR_URLS", "http://mirror-a:9091, http://mirror-b:9091")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_RETRIES", "4")
	t.Setenv("FETCH_RETRY_DELAY", "250ms")
	t.Setenv("CACHE_MAX_SIZE", "50")
	t.Setenv("CACHE_TTL", "10m")
	t.Setenv("CACHE_SWEEP_INTERVAL", "30s")
	t.Setenv("RESPONSE_CACHE_TTL", "45s")
	t.Setenv("BREAKER_THRESHOLD", "10")
	t.Setenv("BREAKER_COOLDOWN", "2m")
	t.Setenv("BREAKER_MAX_PROBES", "1")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:9091", cfg.SWPCBaseURL)
	assert.Equal(t, []string{"http://mirror-a:9091", "http://mirror-b:9091"}, cfg.SWPCMirrors)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.FetchRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 50, cfg.CacheMaxSize)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.CacheSweepInterval)
	assert.Equal(t, 45*time.Second, cfg.ResponseCacheTTL)
	assert.Equal(t, 10, cfg.BreakerThreshold)
	assert.Equal(t, 2*time.Minute, cfg.BreakerCooldown)
	assert.Equal(t, 1, cfg.BreakerMaxProbes)

	assert.True(t, cfg.KafkaEnabled, "setting brokers implies the sink is enabled")
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-reports", cfg.KafkaTopic)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "FETCH_TIMEOUT", "fast"},
		{"negative duration", "CACHE_TTL", "-1m"},
		{"bad int", "FETCH_RETRIES", "two"},
		{"zero cache size", "CACHE_MAX_SIZE", "0"},
		{"zero breaker threshold", "BREAKER_THRESHOLD", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	assert.Error(t, err)
}
