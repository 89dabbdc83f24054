package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	slog.Info("Database connection established", "db", "PostgreSQL")
	return pool, nil
}

// PostgresStore keeps configurations in the widget_configurations table.
type PostgresStore struct {
	pool                 PostgresPool
	compressionThreshold int
}

func NewPostgresStore(pool PostgresPool, compressionThreshold int) *PostgresStore {
	return &PostgresStore{pool: pool, compressionThreshold: compressionThreshold}
}

func (s *PostgresStore) Load(ctx context.Context, widgetID string) (string, bool, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, "SELECT payload FROM widget_configurations WHERE widget_id = $1", widgetID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to query configuration for widget %s: %w", widgetID, err)
	}

	payload, err := decodePayload(data)
	if err != nil {
		return "", false, fmt.Errorf("failed to decode configuration for widget %s: %w", widgetID, err)
	}
	return payload, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, widgetID string, payload string) error {
	sql := `
        INSERT INTO widget_configurations (widget_id, payload, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (widget_id)
        DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	_, err := s.pool.Exec(ctx, sql, widgetID, encodePayload(payload, s.compressionThreshold))
	if err != nil {
		return fmt.Errorf("failed to upsert configuration for widget %s: %w", widgetID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, widgetID string) error {
	cmdTag, err := s.pool.Exec(ctx, "DELETE FROM widget_configurations WHERE widget_id = $1", widgetID)
	if err != nil {
		return fmt.Errorf("failed to delete configuration for widget %s: %w", widgetID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("widget %s: %w", widgetID, ErrNotFound)
	}
	slog.Info("Configuration deleted", "widget", widgetID, "db", "PostgreSQL")
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
