package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations. Postgres uses goose's own dialect; DuckDB has none,
// so its version table is kept by duckStore.
func Migrate(db *sql.DB, driver string) error {
	slog.Info("running database migrations")

	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	var provider *goose.Provider
	switch driver {
	case "pgx":
		provider, err = goose.NewProvider(goose.DialectPostgres, db, fsys, goose.WithGoMigrations(auditSeqMigration()))
	case "duckdb":
		provider, err = goose.NewProvider("", db, fsys, goose.WithStore(duckStore{}), goose.WithGoMigrations(auditSeqMigration()))
	default:
		err = fmt.Errorf("unsupported db driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(context.Background())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	for _, r := range results {
		slog.Debug("migration applied", "source", r.Source.Path, "duration", r.Duration)
	}

	slog.Info("database migrations complete", "applied", len(results))
	return nil
}
