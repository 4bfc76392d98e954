package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3/database"
)

const duckVersionTable = "goose_db_version"

// duckStore keeps goose's version table in DuckDB, which has no goose dialect of its own.
// It differs from the Postgres layout only in how the id is generated.
type duckStore struct{}

var _ database.Store = duckStore{}

func (duckStore) Tablename() string { return duckVersionTable }

func (duckStore) CreateVersionTable(ctx context.Context, db database.DBTxConn) error {
	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS goose_db_version_id_seq START 1`,
		`CREATE TABLE ` + duckVersionTable + ` (
			id BIGINT PRIMARY KEY DEFAULT nextval('goose_db_version_id_seq'),
			version_id BIGINT NOT NULL,
			is_applied BOOLEAN NOT NULL,
			tstamp TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("creating version table: %w", err)
		}
	}
	return nil
}

func (duckStore) TableExists(ctx context.Context, db database.DBTxConn) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1`, duckVersionTable).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (duckStore) Insert(ctx context.Context, db database.DBTxConn, req database.InsertRequest) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO `+duckVersionTable+` (version_id, is_applied) VALUES ($1, TRUE)`, req.Version)
	return err
}

func (duckStore) Delete(ctx context.Context, db database.DBTxConn, version int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM `+duckVersionTable+` WHERE version_id = $1`, version)
	return err
}

func (duckStore) GetMigration(ctx context.Context, db database.DBTxConn, version int64) (*database.GetMigrationResult, error) {
	var res database.GetMigrationResult
	err := db.QueryRowContext(ctx,
		`SELECT tstamp, is_applied FROM `+duckVersionTable+` WHERE version_id = $1 ORDER BY id DESC LIMIT 1`, version).
		Scan(&res.Timestamp, &res.IsApplied)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", database.ErrVersionNotFound, version)
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (duckStore) GetLatestVersion(ctx context.Context, db database.DBTxConn) (int64, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version_id) FROM `+duckVersionTable).Scan(&v); err != nil {
		return -1, err
	}
	if !v.Valid {
		return -1, database.ErrVersionNotFound
	}
	return v.Int64, nil
}

func (duckStore) ListMigrations(ctx context.Context, db database.DBTxConn) ([]*database.ListMigrationsResult, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT version_id, is_applied FROM `+duckVersionTable+` ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*database.ListMigrationsResult
	for rows.Next() {
		var r database.ListMigrationsResult
		if err := rows.Scan(&r.Version, &r.IsApplied); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
