// Package store implements the entity repositories over database/sql. Queries use $n
// placeholders and portable SQL so the same code runs against DuckDB and Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/satheeshds/invoicing/invoicing"
	"github.com/satheeshds/invoicing/lock"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// OpError adds the entity and operation to a storage failure.
type OpError struct {
	Entity string
	Op     string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Entity, e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// opErr wraps a driver error. Domain errors and nil pass through unchanged.
func opErr(entity, op string, err error) error {
	if err == nil || isDomain(err) {
		return err
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	return &OpError{Entity: entity, Op: op, Err: err}
}

func isDomain(err error) bool {
	return invoicing.IsValidation(err) || invoicing.IsState(err) || errors.Is(err, invoicing.ErrCompanyLimit)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store holds the repositories. Create it once and share it.
type Store struct {
	db        *sql.DB
	locker    lock.Locker
	numbering invoicing.Numbering
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLocker sets the lock used for company cap and default changes.
func WithLocker(l lock.Locker) Option {
	return func(s *Store) { s.locker = l }
}

// WithNumbering sets the invoice numbering strategy.
func WithNumbering(n invoicing.Numbering) Option {
	return func(s *Store) { s.numbering = n }
}

// WithLogger sets the logger for failed transactions.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a Store over db. By default it numbers invoices sequentially and locks
// in-process.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:        db,
		locker:    lock.NewLocal(),
		numbering: invoicing.Sequential{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) clock() time.Time {
	return s.now().UTC()
}

// withTx runs fn in a transaction, committing when it returns nil. Driver failures are
// logged; guard and not-found errors are returned silently.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("begin transaction failed", "error", err)
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		if !isDomain(err) && !errors.Is(err, sql.ErrNoRows) && !errors.Is(err, ErrNotFound) {
			s.logger.Warn("transaction rolled back", "error", err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("commit transaction failed", "error", err)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// withLock runs fn while holding the named lock.
func (s *Store) withLock(ctx context.Context, key string, fn func() error) error {
	release, err := s.locker.Acquire(ctx, key)
	if err != nil {
		return fmt.Errorf("acquire %s lock: %w", key, err)
	}
	defer release()
	return fn()
}

// updates collects the SET clause of a partial update.
type updates struct {
	cols []string
	args []any
}

func (u *updates) set(col string, v any) {
	u.args = append(u.args, v)
	u.cols = append(u.cols, fmt.Sprintf("%s = $%d", col, len(u.args)))
}

// setString sets col when p is non-nil.
func (u *updates) setString(col string, p *string) {
	if p != nil {
		u.set(col, *p)
	}
}

// exec runs UPDATE table SET ... WHERE id = ? and reports ErrNotFound when no row matched.
func (u *updates) exec(ctx context.Context, q querier, table, id string) error {
	if len(u.cols) == 0 {
		return nil
	}
	u.args = append(u.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(u.cols, ", "), len(u.args))
	res, err := q.ExecContext(ctx, query, u.args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// filters collects WHERE conditions with numbered placeholders.
type filters struct {
	conds []string
	args  []any
}

// add appends a condition; each %s in cond receives the next placeholder.
func (f *filters) add(cond string, vals ...any) {
	ph := make([]any, len(vals))
	for i, v := range vals {
		f.args = append(f.args, v)
		ph[i] = fmt.Sprintf("$%d", len(f.args))
	}
	f.conds = append(f.conds, fmt.Sprintf(cond, ph...))
}

func (f *filters) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// nullable converts an optional string into a driver argument.
func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func searchPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// validationErr turns a model Validate message into a domain validation error.
func validationErr(field, msg string) error {
	if msg == "" {
		return nil
	}
	return &invoicing.ValidationError{Field: field, Message: msg}
}

type scanner interface {
	Scan(dest ...any) error
}
