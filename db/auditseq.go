package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// auditSeqMigration moves audit_log.seq onto a database sequence so concurrent writers never
// pick the same value. The sequence starts after the highest seq already stored.
func auditSeqMigration() *goose.Migration {
	up := func(ctx context.Context, tx *sql.Tx) error {
		var next int64
		if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM audit_log").Scan(&next); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS audit_log_seq START %d", next)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_audit_log_seq ON audit_log (seq)")
		return err
	}
	down := func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DROP INDEX IF EXISTS idx_audit_log_seq"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DROP SEQUENCE IF EXISTS audit_log_seq")
		return err
	}
	return goose.NewGoMigration(3, &goose.GoFunc{RunTx: up}, &goose.GoFunc{RunTx: down})
}
