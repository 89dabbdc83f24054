package db

import (
	"context"
	"fmt"

	"github.com/nrjais/tablesorter/internal/config"
	"github.com/nrjais/tablesorter/internal/migrations"
)

// Open connects the store selected by cfg.Driver. PostgreSQL schemas are
// migrated before the pool is opened.
func Open(ctx context.Context, cfg config.StoreConfig) (ConfigStore, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLiteStore(cfg.SQLiteDir, cfg.CompressionThreshold)
	case "postgres":
		if err := migrations.RunMigrations(cfg.PostgresURL); err != nil {
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		pool, err := ConnectPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(NewPostgresPool(pool), cfg.CompressionThreshold), nil
	case "redis":
		client, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.CompressionThreshold), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
