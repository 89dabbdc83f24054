package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed postgres/*.sql
var MigrationsFS embed.FS

// RunMigrations applies the embedded schema to the database at databaseURL.
func RunMigrations(databaseURL string) error {
	slog.Info("Running database migrations from embedded files")

	sourceInstance, err := iofs.New(MigrationsFS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver: %w", err)
	}

	migrateDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migration: %w", err)
	}
	defer func() {
		if cerr := migrateDB.Close(); cerr != nil {
			slog.Warn("Error closing migration db connection", "error", cerr)
		}
	}()

	if err = migrateDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migration: %w", err)
	}

	dbDriver, err := postgres.WithInstance(migrateDB, &postgres.Config{
		MigrationsTable: "tablesorter_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceInstance, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogAdapter{}

	err = m.Up()
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		slog.Warn("Error closing migrator", "source_error", srcErr, "db_error", dbErr)
	}

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		slog.Info("No database schema changes to apply")
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	default:
		slog.Info("Database migrations completed successfully")
	}
	return nil
}

type migrateLogAdapter struct{}

func (l *migrateLogAdapter) Printf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "migrate")
}

func (l *migrateLogAdapter) Verbose() bool {
	return false
}
