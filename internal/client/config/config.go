package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
)

// Names of the supported key-value backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds runtime settings for the accountkeeper CLI.
type Config struct {
	StoreBackend     string
	DatabasePath     string
	RedisAddr        string
	RedisPrefix      string
	LogFormat        string
	LogLevel         string
	OperationTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreBackend = BackendSQLite
	c.DatabasePath = "accounts.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "accountkeeper:"
	c.LogFormat = logging.FormatZap
	c.LogLevel = "warn"
	c.OperationTimeout = 5 * time.Second
}

// Validate reports settings no component can work with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.StoreBackend == BackendSQLite && c.DatabasePath == "" {
		return fmt.Errorf("database path is required for the %s backend", BackendSQLite)
	}
	if c.StoreBackend == BackendRedis && c.RedisAddr == "" {
		return fmt.Errorf("redis address is required for the %s backend", BackendRedis)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("operation timeout must be positive, got %s", c.OperationTimeout)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file, the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
