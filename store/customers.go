package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/satheeshds/invoicing/models"
)

const customerSelectQuery = `SELECT id, name, tax_id, address, phone, bank_name, bank_account,
		contact_person, email, tags, created_at, updated_at
		FROM customers`

func scanCustomer(s scanner) (models.Customer, error) {
	var (
		c    models.Customer
		tags string
	)
	err := s.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Phone, &c.BankName, &c.BankAccount,
		&c.ContactPerson, &c.Email, &tags, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.Tags, err = decodeTags(tags)
	return c, err
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(s string) ([]string, error) {
	tags := []string{}
	if s == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return tags, nil
}

// ListCustomers returns customers by name. search matches name, contact person or tax id.
func (s *Store) ListCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	var f filters
	if search != "" {
		f.add("(LOWER(name) LIKE %[1]s OR LOWER(COALESCE(contact_person, '')) LIKE %[1]s OR LOWER(COALESCE(tax_id, '')) LIKE %[1]s)",
			searchPattern(search))
	}
	rows, err := s.db.QueryContext(ctx, customerSelectQuery+f.where()+" ORDER BY name, id", f.args...)
	if err != nil {
		return nil, opErr("customer", "list", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, opErr("customer", "list", err)
		}
		customers = append(customers, c)
	}
	return customers, opErr("customer", "list", rows.Err())
}

func (s *Store) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx, customerSelectQuery+" WHERE id = $1", id))
	return c, opErr("customer", "get", err)
}

func insertCustomer(ctx context.Context, q querier, id string, in models.CustomerInput, now time.Time) error {
	tags, err := encodeTags(in.Tags)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `INSERT INTO customers (id, name, tax_id, address, phone, bank_name, bank_account,
		contact_person, email, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		id, in.Name, nullable(in.TaxID), nullable(in.Address), nullable(in.Phone), nullable(in.BankName),
		nullable(in.BankAccount), nullable(in.ContactPerson), nullable(in.Email), tags, now)
	return err
}

func (s *Store) CreateCustomer(ctx context.Context, in models.CustomerInput) (models.Customer, error) {
	if err := validationErr("customer", in.Validate()); err != nil {
		return models.Customer{}, err
	}
	id := uuid.NewString()
	if err := insertCustomer(ctx, s.db, id, in, s.clock()); err != nil {
		return models.Customer{}, opErr("customer", "create", err)
	}
	return s.GetCustomer(ctx, id)
}

// BulkCreateCustomers inserts all rows in one transaction. A single invalid row rejects the
// whole batch.
func (s *Store) BulkCreateCustomers(ctx context.Context, inputs []models.CustomerInput) (int, error) {
	for i := range inputs {
		if err := validationErr(fmt.Sprintf("rows[%d]", i), inputs[i].Validate()); err != nil {
			return 0, err
		}
	}
	now := s.clock()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, in := range inputs {
			if err := insertCustomer(ctx, tx, uuid.NewString(), in, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, opErr("customer", "import", err)
	}
	return len(inputs), nil
}

func (s *Store) UpdateCustomer(ctx context.Context, id string, p models.CustomerPatch) (models.Customer, error) {
	if err := validationErr("customer", p.Validate()); err != nil {
		return models.Customer{}, err
	}

	var u updates
	u.setString("name", p.Name)
	u.setString("tax_id", p.TaxID)
	u.setString("address", p.Address)
	u.setString("phone", p.Phone)
	u.setString("bank_name", p.BankName)
	u.setString("bank_account", p.BankAccount)
	u.setString("contact_person", p.ContactPerson)
	u.setString("email", p.Email)
	if p.Tags != nil {
		tags, err := encodeTags(*p.Tags)
		if err != nil {
			return models.Customer{}, err
		}
		u.set("tags", tags)
	}
	if len(u.cols) > 0 {
		u.set("updated_at", s.clock())
	}
	if err := u.exec(ctx, s.db, "customers", id); err != nil {
		return models.Customer{}, opErr("customer", "update", err)
	}
	return s.GetCustomer(ctx, id)
}

// DeleteCustomer removes the row. Invoices keep their customer_id and render a blank buyer.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return opErr("customer", "delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return opErr("customer", "delete", ErrNotFound)
	}
	return nil
}
