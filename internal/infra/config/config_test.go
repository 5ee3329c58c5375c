package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_ENV", "HTTP_ADDR", "MONGO_URI", "MONGO_DB",
		"KAFKA_BROKERS", "KAFKA_TOPIC_PREFIX",
		"S3_ENDPOINT", "S3_PUBLIC_ENDPOINT", "S3_USE_SSL",
		"SESSION_TTL", "OUTBOX_POLL_INTERVAL", "RETRY_BACKOFF",
		"CURRENCY", "RATE_CLEANING_FEE_CENTS", "RATE_TAX_BP",
		"RATE_LONG_STAY_DISCOUNT_BP", "RATE_LONG_STAY_NIGHTS",
		"VILLA_FIXTURES",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.UseMongo())
	assert.False(t, cfg.UseKafka())
	assert.Equal(t, "MAD", cfg.Currency)
	assert.Equal(t, int64(80_00), cfg.CleaningFeeCents)
	assert.Equal(t, int64(1_000), cfg.TaxBP)
	assert.Equal(t, 7, cfg.LongStayNights)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("RETRY_BACKOFF", "2s,10s")
	t.Setenv("CURRENCY", "eur")
	t.Setenv("RATE_LONG_STAY_NIGHTS", "10")
	t.Setenv("S3_ENDPOINT", "minio:9000")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.True(t, cfg.UseMongo())
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []time.Duration{2 * time.Second, 10 * time.Second}, cfg.RetryBackoff)
	assert.Equal(t, "eur", cfg.Currency)
	assert.Equal(t, 10, cfg.LongStayNights)
	assert.True(t, cfg.S3UseSSL)
	// Public endpoint falls back to the internal one.
	assert.Equal(t, "minio:9000", cfg.S3PublicEndpoint)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("bad currency", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CURRENCY", "dirham")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SESSION_TTL", "never")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad backoff component", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RETRY_BACKOFF", "1s,soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad boolean", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("S3_USE_SSL", "maybe")
		_, err := Load()
		assert.Error(t, err)
	})
}
