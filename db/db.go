// Package db opens the relational store and keeps its schema current.
package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/satheeshds/invoicing/config"
)

// Open creates and returns a database connection for the configured driver. The local
// DuckDB file lives at DB_PATH (default "./data/invoicing.duckdb"); the remote Postgres store
// is reached through DATABASE_URL.
func Open(cfg *config.Config) (*sql.DB, error) {
	var dsn string
	switch cfg.DBDriver {
	case "duckdb":
		// Ensure the directory exists
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		dsn = cfg.DBPath
	case "pgx":
		dsn = cfg.DatabaseURL
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	db, err := sql.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	slog.Info("database connected", "driver", cfg.DBDriver)
	return db, nil
}

// OpenMemory opens a throwaway in-memory DuckDB database with the schema applied.
// Tests across packages use it.
func OpenMemory() (*sql.DB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	if err := Migrate(db, "duckdb"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
