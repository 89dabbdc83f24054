package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

var ErrNotFound = errors.New("configuration not found")

// ConfigStore persists serialized widget configurations keyed by widget id.
type ConfigStore interface {
	Load(ctx context.Context, widgetID string) (string, bool, error)
	Save(ctx context.Context, widgetID string, payload string) error
	Delete(ctx context.Context, widgetID string) error
	Close() error
}

// PostgresPool represents a PostgreSQL connection pool interface
type PostgresPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Close()
}

// Row represents a single query result row interface
type Row interface {
	Scan(dest ...any) error
}

// CommandTag represents the result of an Exec operation
type CommandTag interface {
	RowsAffected() int64
}

// pgxPoolWrapper wraps pgxpool.Pool to implement PostgresPool interface
type pgxPoolWrapper struct {
	*pgxpool.Pool
}

func (p *pgxPoolWrapper) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return p.Pool.QueryRow(ctx, sql, args...)
}

func (p *pgxPoolWrapper) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	cmdTag, err := p.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return cmdTag, nil
}

// NewPostgresPool creates a PostgresPool wrapper from a pgxpool.Pool
func NewPostgresPool(pool *pgxpool.Pool) PostgresPool {
	return &pgxPoolWrapper{Pool: pool}
}
