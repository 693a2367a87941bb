package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/client/config"
	"github.com/dmitrijs2005/accountkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/accountkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/accountkeeper/internal/filex"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// InitDatabase opens (creating if needed) the SQLite file at dsn and
// migrates it to the latest schema.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// a single connection keeps our own writes from hitting SQLITE_BUSY
	db.SetMaxOpenConns(1)
	return db, nil
}

// Open returns the repository for cfg.StoreBackend and a function closing it.
func Open(ctx context.Context, cfg *config.Config) (metadata.Repository, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		if _, err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
			return nil, nil, err
		}
		db, err := InitDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return metadata.NewSQLiteRepository(db), db.Close, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect to redis %s: %w", cfg.RedisAddr, err)
		}
		return metadata.NewRedisRepository(rdb, cfg.RedisPrefix), rdb.Close, nil

	case config.BackendMemory:
		return metadata.NewMemoryRepository(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
