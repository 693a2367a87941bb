package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Only the flags listed in the package doc are looked at; os.Args is
// filtered with flagx.FilterArgs so -c/-config stays with parseFile.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-r", "-f", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "key-value backend: sqlite, redis or memory")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the SQLite file")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "host:port of the Redis server")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: zap or slog")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	timeout := fs.Int("t", int(cfg.OperationTimeout.Seconds()), "per-operation timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.OperationTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
