package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	t.Run("overlays set variables", func(t *testing.T) {
		t.Setenv("ACCOUNTKEEPER_STORE", "redis")
		t.Setenv("ACCOUNTKEEPER_REDIS_ADDR", "redis:6379")
		t.Setenv("ACCOUNTKEEPER_TIMEOUT", "3s")

		cfg := &Config{}
		cfg.LoadDefaults()
		parseEnv(cfg)

		assert.Equal(t, BackendRedis, cfg.StoreBackend)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, 3*time.Second, cfg.OperationTimeout)
		assert.Equal(t, "accounts.db", cfg.DatabasePath)
	})

	t.Run("malformed duration panics", func(t *testing.T) {
		t.Setenv("ACCOUNTKEEPER_TIMEOUT", "later")

		cfg := &Config{}
		require.Panics(t, func() { parseEnv(cfg) })
	})
}
