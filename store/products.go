package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/satheeshds/invoicing/models"
)

const productSelectQuery = `SELECT id, name, category, unit, unit_price, tax_rate, tax_classification,
		created_at, updated_at
		FROM products`

func scanProduct(s scanner) (models.Product, error) {
	var p models.Product
	err := s.Scan(&p.ID, &p.Name, &p.Category, &p.Unit, &p.UnitPrice, &p.TaxRate, &p.TaxClassification,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListProducts returns products by name, optionally filtered by category and a name search.
func (s *Store) ListProducts(ctx context.Context, category, search string) ([]models.Product, error) {
	var f filters
	if category != "" {
		f.add("category = %s", category)
	}
	if search != "" {
		f.add("LOWER(name) LIKE %s", searchPattern(search))
	}
	rows, err := s.db.QueryContext(ctx, productSelectQuery+f.where()+" ORDER BY name, id", f.args...)
	if err != nil {
		return nil, opErr("product", "list", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, opErr("product", "list", err)
		}
		products = append(products, p)
	}
	return products, opErr("product", "list", rows.Err())
}

func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, productSelectQuery+" WHERE id = $1", id))
	return p, opErr("product", "get", err)
}

func insertProduct(ctx context.Context, q querier, id string, in models.ProductInput, now time.Time) error {
	_, err := q.ExecContext(ctx, `INSERT INTO products (id, name, category, unit, unit_price, tax_rate,
		tax_classification, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		id, in.Name, in.Category, in.Unit, in.UnitPrice.String(), in.TaxRate.String(),
		nullable(in.TaxClassification), now)
	return err
}

func (s *Store) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if err := validationErr("product", in.Validate()); err != nil {
		return models.Product{}, err
	}
	id := uuid.NewString()
	if err := insertProduct(ctx, s.db, id, in, s.clock()); err != nil {
		return models.Product{}, opErr("product", "create", err)
	}
	return s.GetProduct(ctx, id)
}

// BulkCreateProducts inserts all rows in one transaction. A single invalid row rejects the
// whole batch.
func (s *Store) BulkCreateProducts(ctx context.Context, inputs []models.ProductInput) (int, error) {
	for i := range inputs {
		if err := validationErr(fmt.Sprintf("rows[%d]", i), inputs[i].Validate()); err != nil {
			return 0, err
		}
	}
	now := s.clock()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, in := range inputs {
			if err := insertProduct(ctx, tx, uuid.NewString(), in, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, opErr("product", "import", err)
	}
	return len(inputs), nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, p models.ProductPatch) (models.Product, error) {
	if err := validationErr("product", p.Validate()); err != nil {
		return models.Product{}, err
	}

	var u updates
	u.setString("name", p.Name)
	u.setString("category", p.Category)
	u.setString("unit", p.Unit)
	if p.UnitPrice != nil {
		u.set("unit_price", p.UnitPrice.String())
	}
	if p.TaxRate != nil {
		u.set("tax_rate", p.TaxRate.String())
	}
	u.setString("tax_classification", p.TaxClassification)
	if len(u.cols) > 0 {
		u.set("updated_at", s.clock())
	}
	if err := u.exec(ctx, s.db, "products", id); err != nil {
		return models.Product{}, opErr("product", "update", err)
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes the row. Line items copied from it keep their own fields.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return opErr("product", "delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return opErr("product", "delete", ErrNotFound)
	}
	return nil
}
