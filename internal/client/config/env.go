package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig mirrors Config for environment decoding. Empty values leave the
// corresponding Config field untouched.
type EnvConfig struct {
	StoreBackend     string        `env:"ACCOUNTKEEPER_STORE"`
	DatabasePath     string        `env:"ACCOUNTKEEPER_DB"`
	RedisAddr        string        `env:"ACCOUNTKEEPER_REDIS_ADDR"`
	RedisPrefix      string        `env:"ACCOUNTKEEPER_REDIS_PREFIX"`
	LogFormat        string        `env:"ACCOUNTKEEPER_LOG_FORMAT"`
	LogLevel         string        `env:"ACCOUNTKEEPER_LOG_LEVEL"`
	OperationTimeout time.Duration `env:"ACCOUNTKEEPER_TIMEOUT"`
}

// parseEnv overlays cfg with ACCOUNTKEEPER_* variables. Malformed values panic.
func parseEnv(cfg *Config) {
	var ec EnvConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		panic(err)
	}

	overlay(&cfg.StoreBackend, ec.StoreBackend)
	overlay(&cfg.DatabasePath, ec.DatabasePath)
	overlay(&cfg.RedisAddr, ec.RedisAddr)
	overlay(&cfg.RedisPrefix, ec.RedisPrefix)
	overlay(&cfg.LogFormat, ec.LogFormat)
	overlay(&cfg.LogLevel, ec.LogLevel)
	if ec.OperationTimeout > 0 {
		cfg.OperationTimeout = ec.OperationTimeout
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
