package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const sqliteFileName = "configurations.sqlite"

// SQLiteStore keeps configurations in a local SQLite file. A single
// connection is shared and guarded by mu.
type SQLiteStore struct {
	mu                   sync.Mutex
	conn                 *sqlite.Conn
	compressionThreshold int
}

func OpenSQLiteStore(baseDir string, compressionThreshold int) (*SQLiteStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("sqlite base directory cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sqlite directory %s: %w", baseDir, err)
	}

	dbPath := filepath.Join(baseDir, sqliteFileName)
	conn, err := sqlite.OpenConn(dbPath, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite conn at %s: %w", dbPath, err)
	}

	err = sqlitex.ExecuteScript(conn, `
        CREATE TABLE IF NOT EXISTS widget_configurations (
            widget_id  TEXT PRIMARY KEY,
            payload    BLOB NOT NULL,
            updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize configuration table in %s: %w", dbPath, err)
	}

	slog.Info("SQLite connection opened", "path", dbPath)
	return &SQLiteStore{conn: conn, compressionThreshold: compressionThreshold}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, widgetID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	var data []byte
	found := false
	err := sqlitex.Execute(s.conn, "SELECT payload FROM widget_configurations WHERE widget_id = ?", &sqlitex.ExecOptions{
		Args: []any{widgetID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			data = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, data)
			found = true
			return nil
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to query configuration for widget %s: %w", widgetID, err)
	}
	if !found {
		return "", false, nil
	}

	payload, err := decodePayload(data)
	if err != nil {
		return "", false, fmt.Errorf("failed to decode configuration for widget %s: %w", widgetID, err)
	}
	return payload, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, widgetID string, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	sql := `
        INSERT INTO widget_configurations (widget_id, payload, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(widget_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	err := sqlitex.Execute(s.conn, sql, &sqlitex.ExecOptions{
		Args: []any{widgetID, encodePayload(payload, s.compressionThreshold)},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert configuration for widget %s: %w", widgetID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, widgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	err := sqlitex.Execute(s.conn, "DELETE FROM widget_configurations WHERE widget_id = ?", &sqlitex.ExecOptions{
		Args: []any{widgetID},
	})
	if err != nil {
		return fmt.Errorf("failed to delete configuration for widget %s: %w", widgetID, err)
	}
	if s.conn.Changes() == 0 {
		return fmt.Errorf("widget %s: %w", widgetID, ErrNotFound)
	}
	slog.Info("Configuration deleted", "widget", widgetID, "db", "SQLite")
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
