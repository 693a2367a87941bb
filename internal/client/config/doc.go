// Package config loads runtime configuration for the accountkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are decoded as YAML, anything else as JSON.
//  3. ACCOUNTKEEPER_* environment variables.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-s string   key-value backend: sqlite, redis or memory
//	-d string   path of the SQLite file
//	-r string   host:port of the Redis server
//	-f string   log format: zap or slog
//	-l string   log level: debug, info, warn, error
//	-t int      per-operation timeout (seconds)
//
// # File schema
//
// Intervals use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "store_backend": "sqlite",
//	  "database_path": "accounts.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_prefix": "accountkeeper:",
//	  "log_format": "zap",
//	  "log_level": "warn",
//	  "operation_timeout": "5s"
//	}
package config
