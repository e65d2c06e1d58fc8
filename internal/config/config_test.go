package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"APP_ENV", "HTTP_ADDR", "STORE_DRIVER", "DATABASE_URL", "DB_AUTO_MIGRATE",
	"JWT_SECRET", "JWT_ISSUER", "RABBIT_URL", "RABBIT_EXCHANGE",
	"OUTBOX_ENABLED", "OUTBOX_INTERVAL", "OUTBOX_BATCH",
	"REDIS_URL", "CACHE_TTL_DETAILS", "CACHE_TTL_CALENDAR",
	"RL_ENABLED", "RL_IP_LIMIT", "RL_IP_WINDOW", "HTTP_READ_TIMEOUT",
}

// clearEnv blanks every variable Load reads; blank counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing_database_url", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Equal(t, "missing DATABASE_URL", err.Error())
	})

	t.Run("missing_jwt_secret", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/trips")
		_, err := Load()
		require.Error(t, err)
		assert.Equal(t, "missing JWT_SECRET", err.Error())
	})

	t.Run("rabbit_required_outside_dev", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "prod")
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/trips")
		t.Setenv("JWT_SECRET", "s")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RABBIT_URL")
	})

	t.Run("memory_store_needs_no_database", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "s")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, StoreMemory, cfg.StoreDriver)
	})

	t.Run("memory_store_rejected_outside_dev", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "prod")
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("RABBIT_URL", "amqp://localhost")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown_store_driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", "mongo")
		t.Setenv("JWT_SECRET", "s")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/trips")
		t.Setenv("JWT_SECRET", "s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "dev", cfg.AppEnv)
		assert.Equal(t, ":8082", cfg.HTTPAddr)
		assert.Equal(t, "travel.trips", cfg.RabbitExchange)
		assert.Equal(t, "", cfg.RedisURL)
		assert.Equal(t, 5*time.Minute, cfg.CacheTTLDetails)
		assert.Equal(t, 30*time.Second, cfg.CacheTTLCalendar)
		assert.True(t, cfg.OutboxEnabled)
		assert.Equal(t, 50, cfg.OutboxBatch)
		assert.True(t, cfg.RLEnabled)
		assert.Equal(t, 100, cfg.RLLimit)
	})

	t.Run("bad_values_fall_back_to_defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/trips")
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("HTTP_READ_TIMEOUT", "soon")
		t.Setenv("RL_IP_LIMIT", "many")
		t.Setenv("RL_ENABLED", "maybe")
		t.Setenv("CACHE_TTL_CALENDAR", "45s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, cfg.HTTPReadTimeout)
		assert.Equal(t, 100, cfg.RLLimit)
		assert.True(t, cfg.RLEnabled)
		assert.Equal(t, 45*time.Second, cfg.CacheTTLCalendar)
	})

	t.Run("rejects_non_positive_outbox_batch", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/trips")
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("OUTBOX_BATCH", "0")
		_, err := Load()
		assert.Error(t, err)
	})
}
