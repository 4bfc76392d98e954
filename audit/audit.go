// Package audit keeps the append-only history of invoices.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/satheeshds/invoicing/models"
)

// Appender persists audit entries. Entries are never updated or removed.
type Appender interface {
	Append(ctx context.Context, e models.AuditLogEntry) error
}

// Lister reads the entries of one invoice, newest first.
type Lister interface {
	ListAudit(ctx context.Context, invoiceID string) ([]models.AuditLogEntry, error)
}

// NewEntry builds an entry with a fresh id. Values and metadata are marshaled as JSON;
// nil stays absent.
func NewEntry(invoiceID string, action models.AuditAction, oldValue, newValue, meta any, now time.Time) (models.AuditLogEntry, error) {
	e := models.AuditLogEntry{
		ID:        uuid.NewString(),
		InvoiceID: invoiceID,
		Action:    action,
		CreatedAt: now.UTC(),
	}
	var err error
	if e.OldValue, err = raw(oldValue); err != nil {
		return e, fmt.Errorf("encoding old value: %w", err)
	}
	if e.NewValue, err = raw(newValue); err != nil {
		return e, fmt.Errorf("encoding new value: %w", err)
	}
	if e.Metadata, err = raw(meta); err != nil {
		return e, fmt.Errorf("encoding metadata: %w", err)
	}
	return e, nil
}

func raw(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Log records and lists invoice history.
type Log struct {
	store interface {
		Appender
		Lister
	}
	logger *slog.Logger
	now    func() time.Time
}

// NewLog returns a Log writing through store. A nil logger uses slog.Default().
func NewLog(store interface {
	Appender
	Lister
}, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{store: store, logger: logger, now: time.Now}
}

// Record appends one entry; a failed write is returned to the caller.
func (l *Log) Record(ctx context.Context, invoiceID string, action models.AuditAction, oldValue, newValue, meta any) error {
	e, err := NewEntry(invoiceID, action, oldValue, newValue, meta, l.now())
	if err != nil {
		return err
	}
	if err := l.store.Append(ctx, e); err != nil {
		return fmt.Errorf("recording %s audit for invoice %s: %w", action, invoiceID, err)
	}
	return nil
}

// RecordBestEffort appends one entry and only logs a failure. It is reserved for side effects
// that already happened, such as a sent email, which must not be reported as failed because
// the history write did not go through.
func (l *Log) RecordBestEffort(ctx context.Context, invoiceID string, action models.AuditAction, oldValue, newValue, meta any) {
	if err := l.Record(ctx, invoiceID, action, oldValue, newValue, meta); err != nil {
		l.logger.Warn("audit write failed", "invoice_id", invoiceID, "action", action, "error", err)
	}
}

// ListFor returns the invoice's entries, newest first.
func (l *Log) ListFor(ctx context.Context, invoiceID string) ([]models.AuditLogEntry, error) {
	return l.store.ListAudit(ctx, invoiceID)
}
