package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreDriver)
	assert.Equal(t, BackendLocal, cfg.LockBackend)
	assert.Equal(t, 15*time.Minute, cfg.PendingTTL)
	assert.Equal(t, 5*time.Second, cfg.ClaimLockWait)
	assert.False(t, cfg.NeedsRedis())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("LOCK_BACKEND", "zookeeper")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "LOCK_BACKEND")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "MySQL")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("PENDING_TTL", "90s")
	t.Setenv("EVENTS_ENABLED", "yes")
	t.Setenv("RABBITMQ_URL", "amqp://broker:5672/")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMySQL, cfg.StoreDriver)
	assert.True(t, cfg.NeedsRedis())
	assert.Equal(t, 90*time.Second, cfg.PendingTTL)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, "amqp://broker:5672/", cfg.AMQPURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadQueueConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://fallback:5672/")
	t.Setenv("APP_ENV", "prod")

	qc := LoadQueueConfig()
	assert.Equal(t, "amqp://fallback:5672/", qc.AMQPURL)
	assert.Equal(t, "prod", qc.Env)

	t.Setenv("RABBITMQ_URL", "amqp://primary:5672/")
	assert.Equal(t, "amqp://primary:5672/", LoadQueueConfig().AMQPURL)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 3, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, 2*time.Second, rl.RefillInterval)
	assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cc := LoadCacheConfig()
	assert.True(t, cc.Methods["GET"])
	assert.True(t, cc.Methods["HEAD"])
	assert.Equal(t, 30*time.Second, cc.TTL)
}
