package store

import (
	"context"
	"database/sql"

	"github.com/satheeshds/invoicing/models"
)

func insertAudit(ctx context.Context, q querier, e models.AuditLogEntry) error {
	_, err := q.ExecContext(ctx, `INSERT INTO audit_log (id, seq, invoice_id, action, old_value, new_value, metadata, created_at)
		VALUES ($1, nextval('audit_log_seq'), $2, $3, $4, $5, $6, $7)`,
		e.ID, e.InvoiceID, string(e.Action), rawArg(e.OldValue), rawArg(e.NewValue), rawArg(e.Metadata), e.CreatedAt)
	return err
}

func rawArg(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

// Append writes one audit entry outside any invoice transaction.
func (s *Store) Append(ctx context.Context, e models.AuditLogEntry) error {
	return opErr("audit", "append", insertAudit(ctx, s.db, e))
}

// ListAudit returns an invoice's history, newest first.
func (s *Store) ListAudit(ctx context.Context, invoiceID string) ([]models.AuditLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, invoice_id, action, old_value, new_value, metadata, created_at
		FROM audit_log WHERE invoice_id = $1 ORDER BY created_at DESC, seq DESC`, invoiceID)
	if err != nil {
		return nil, opErr("audit", "list", err)
	}
	defer rows.Close()

	entries := []models.AuditLogEntry{}
	for rows.Next() {
		var (
			e                 models.AuditLogEntry
			oldV, newV, metaV sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.InvoiceID, &e.Action, &oldV, &newV, &metaV, &e.CreatedAt); err != nil {
			return nil, opErr("audit", "list", err)
		}
		e.OldValue = rawValue(oldV)
		e.NewValue = rawValue(newV)
		e.Metadata = rawValue(metaV)
		entries = append(entries, e)
	}
	return entries, opErr("audit", "list", rows.Err())
}

func rawValue(ns sql.NullString) []byte {
	if !ns.Valid {
		return nil
	}
	return []byte(ns.String)
}
