package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/satheeshds/invoicing/invoicing"
	"github.com/satheeshds/invoicing/models"
)

const companiesLockKey = "companies"

const companySelectQuery = `SELECT id, name, short_code, tax_id, address, phone, bank_name, bank_account,
		invoice_counter, is_default, created_at, updated_at
		FROM companies`

func scanCompany(s scanner) (models.Company, error) {
	var c models.Company
	err := s.Scan(&c.ID, &c.Name, &c.ShortCode, &c.TaxID, &c.Address, &c.Phone, &c.BankName, &c.BankAccount,
		&c.InvoiceCounter, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func getCompany(ctx context.Context, q querier, id string) (models.Company, error) {
	return scanCompany(q.QueryRowContext(ctx, companySelectQuery+" WHERE id = $1", id))
}

// ListCompanies returns all companies in creation order.
func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := s.db.QueryContext(ctx, companySelectQuery+" ORDER BY created_at, id")
	if err != nil {
		return nil, opErr("company", "list", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, opErr("company", "list", err)
		}
		companies = append(companies, c)
	}
	return companies, opErr("company", "list", rows.Err())
}

func (s *Store) GetCompany(ctx context.Context, id string) (models.Company, error) {
	c, err := getCompany(ctx, s.db, id)
	return c, opErr("company", "get", err)
}

// DefaultCompany returns the company flagged as default, or ErrNotFound when there is none.
func (s *Store) DefaultCompany(ctx context.Context) (models.Company, error) {
	c, err := scanCompany(s.db.QueryRowContext(ctx, companySelectQuery+" WHERE is_default = TRUE"))
	return c, opErr("company", "get default", err)
}

// CreateCompany adds a company. The first company becomes the default; creating more than
// models.MaxCompanies fails with invoicing.ErrCompanyLimit.
func (s *Store) CreateCompany(ctx context.Context, in models.CompanyInput) (models.Company, error) {
	if err := validationErr("company", in.Validate()); err != nil {
		return models.Company{}, err
	}

	id := uuid.NewString()
	now := s.clock()
	err := s.withLock(ctx, companiesLockKey, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			var count int
			if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies").Scan(&count); err != nil {
				return err
			}
			if count >= models.MaxCompanies {
				return invoicing.ErrCompanyLimit
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO companies (id, name, short_code, tax_id, address, phone,
				bank_name, bank_account, invoice_counter, is_default, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $10)`,
				id, in.Name, in.ShortCode, nullable(in.TaxID), nullable(in.Address), nullable(in.Phone),
				nullable(in.BankName), nullable(in.BankAccount), count == 0, now)
			return err
		})
	})
	if err != nil {
		return models.Company{}, opErr("company", "create", err)
	}
	return s.GetCompany(ctx, id)
}

// UpdateCompany applies a partial update. The counter and default flag are not touched.
func (s *Store) UpdateCompany(ctx context.Context, id string, p models.CompanyPatch) (models.Company, error) {
	if err := validationErr("company", p.Validate()); err != nil {
		return models.Company{}, err
	}

	var u updates
	u.setString("name", p.Name)
	u.setString("short_code", p.ShortCode)
	u.setString("tax_id", p.TaxID)
	u.setString("address", p.Address)
	u.setString("phone", p.Phone)
	u.setString("bank_name", p.BankName)
	u.setString("bank_account", p.BankAccount)
	if len(u.cols) > 0 {
		u.set("updated_at", s.clock())
	}
	if err := u.exec(ctx, s.db, "companies", id); err != nil {
		return models.Company{}, opErr("company", "update", err)
	}
	return s.GetCompany(ctx, id)
}

// DeleteCompany removes a company. When it was the default, the oldest remaining company
// becomes the default.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	err := s.withLock(ctx, companiesLockKey, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			var wasDefault bool
			if err := tx.QueryRowContext(ctx, "SELECT is_default FROM companies WHERE id = $1", id).Scan(&wasDefault); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM companies WHERE id = $1", id); err != nil {
				return err
			}
			if !wasDefault {
				return nil
			}

			var next string
			err := tx.QueryRowContext(ctx, "SELECT id FROM companies ORDER BY created_at, id LIMIT 1").Scan(&next)
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, "UPDATE companies SET is_default = TRUE, updated_at = $2 WHERE id = $1", next, s.clock())
			return err
		})
	})
	return opErr("company", "delete", err)
}

// SetDefault makes id the only default company.
func (s *Store) SetDefault(ctx context.Context, id string) (models.Company, error) {
	err := s.withLock(ctx, companiesLockKey, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := getCompany(ctx, tx, id); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `UPDATE companies SET is_default = (id = $1), updated_at = $2
				WHERE is_default <> (id = $1)`, id, s.clock())
			return err
		})
	})
	if err != nil {
		return models.Company{}, opErr("company", "set default", err)
	}
	return s.GetCompany(ctx, id)
}

// counterSequence increments a company's invoice counter inside the caller's transaction.
type counterSequence struct {
	q   querier
	now time.Time
}

func (c counterSequence) Next(ctx context.Context, companyID string) (string, int64, error) {
	var (
		code    string
		counter int64
	)
	err := c.q.QueryRowContext(ctx, `UPDATE companies SET invoice_counter = invoice_counter + 1, updated_at = $2
		WHERE id = $1 RETURNING short_code, invoice_counter`, companyID, c.now).Scan(&code, &counter)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, &invoicing.ValidationError{Field: "company_id", Message: "company not found"}
	}
	return code, counter, err
}
