package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/satheeshds/invoicing/models"
)

const creatorSelectQuery = `SELECT id, name, email, phone, platform, tax_id, remark, created_at, updated_at, deleted_at
		FROM creators`

func scanCreator(s scanner) (models.Creator, error) {
	var c models.Creator
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Platform, &c.TaxID, &c.Remark,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	return c, err
}

// ListCreators returns creators by name. Soft-deleted rows are included only on request.
func (s *Store) ListCreators(ctx context.Context, search string, includeDeleted bool) ([]models.Creator, error) {
	var f filters
	if !includeDeleted {
		f.conds = append(f.conds, "deleted_at IS NULL")
	}
	if search != "" {
		f.add("LOWER(name) LIKE %s", searchPattern(search))
	}
	rows, err := s.db.QueryContext(ctx, creatorSelectQuery+f.where()+" ORDER BY name, id", f.args...)
	if err != nil {
		return nil, opErr("creator", "list", err)
	}
	defer rows.Close()

	creators := []models.Creator{}
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, opErr("creator", "list", err)
		}
		creators = append(creators, c)
	}
	return creators, opErr("creator", "list", rows.Err())
}

func (s *Store) GetCreator(ctx context.Context, id string) (models.Creator, error) {
	c, err := scanCreator(s.db.QueryRowContext(ctx, creatorSelectQuery+" WHERE id = $1 AND deleted_at IS NULL", id))
	return c, opErr("creator", "get", err)
}

func (s *Store) CreateCreator(ctx context.Context, in models.CreatorInput) (models.Creator, error) {
	if err := validationErr("creator", in.Validate()); err != nil {
		return models.Creator{}, err
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO creators (id, name, email, phone, platform, tax_id, remark, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		id, in.Name, nullable(in.Email), nullable(in.Phone), nullable(in.Platform), nullable(in.TaxID),
		nullable(in.Remark), s.clock())
	if err != nil {
		return models.Creator{}, opErr("creator", "create", err)
	}
	return s.GetCreator(ctx, id)
}

// UpdateCreator replaces the editable fields of a live creator.
func (s *Store) UpdateCreator(ctx context.Context, id string, in models.CreatorInput) (models.Creator, error) {
	if err := validationErr("creator", in.Validate()); err != nil {
		return models.Creator{}, err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE creators SET name = $1, email = $2, phone = $3, platform = $4,
		tax_id = $5, remark = $6, updated_at = $7 WHERE id = $8 AND deleted_at IS NULL`,
		in.Name, nullable(in.Email), nullable(in.Phone), nullable(in.Platform), nullable(in.TaxID),
		nullable(in.Remark), s.clock(), id)
	if err != nil {
		return models.Creator{}, opErr("creator", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Creator{}, opErr("creator", "update", ErrNotFound)
	}
	return s.GetCreator(ctx, id)
}

// DeleteCreator soft-deletes a creator; invoices and settlements keep referencing it.
func (s *Store) DeleteCreator(ctx context.Context, id string) error {
	return opErr("creator", "delete", s.softDelete(ctx, "creators", id))
}

const merchantSelectQuery = `SELECT id, name, email, phone, category, tax_id, remark, created_at, updated_at, deleted_at
		FROM merchants`

func scanMerchant(s scanner) (models.Merchant, error) {
	var m models.Merchant
	err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Category, &m.TaxID, &m.Remark,
		&m.CreatedAt, &m.UpdatedAt, &m.DeletedAt)
	return m, err
}

// ListMerchants returns merchants by name. Soft-deleted rows are included only on request.
func (s *Store) ListMerchants(ctx context.Context, search string, includeDeleted bool) ([]models.Merchant, error) {
	var f filters
	if !includeDeleted {
		f.conds = append(f.conds, "deleted_at IS NULL")
	}
	if search != "" {
		f.add("LOWER(name) LIKE %s", searchPattern(search))
	}
	rows, err := s.db.QueryContext(ctx, merchantSelectQuery+f.where()+" ORDER BY name, id", f.args...)
	if err != nil {
		return nil, opErr("merchant", "list", err)
	}
	defer rows.Close()

	merchants := []models.Merchant{}
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			return nil, opErr("merchant", "list", err)
		}
		merchants = append(merchants, m)
	}
	return merchants, opErr("merchant", "list", rows.Err())
}

func (s *Store) GetMerchant(ctx context.Context, id string) (models.Merchant, error) {
	m, err := scanMerchant(s.db.QueryRowContext(ctx, merchantSelectQuery+" WHERE id = $1 AND deleted_at IS NULL", id))
	return m, opErr("merchant", "get", err)
}

func (s *Store) CreateMerchant(ctx context.Context, in models.MerchantInput) (models.Merchant, error) {
	if err := validationErr("merchant", in.Validate()); err != nil {
		return models.Merchant{}, err
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO merchants (id, name, email, phone, category, tax_id, remark, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		id, in.Name, nullable(in.Email), nullable(in.Phone), nullable(in.Category), nullable(in.TaxID),
		nullable(in.Remark), s.clock())
	if err != nil {
		return models.Merchant{}, opErr("merchant", "create", err)
	}
	return s.GetMerchant(ctx, id)
}

func (s *Store) UpdateMerchant(ctx context.Context, id string, in models.MerchantInput) (models.Merchant, error) {
	if err := validationErr("merchant", in.Validate()); err != nil {
		return models.Merchant{}, err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE merchants SET name = $1, email = $2, phone = $3, category = $4,
		tax_id = $5, remark = $6, updated_at = $7 WHERE id = $8 AND deleted_at IS NULL`,
		in.Name, nullable(in.Email), nullable(in.Phone), nullable(in.Category), nullable(in.TaxID),
		nullable(in.Remark), s.clock(), id)
	if err != nil {
		return models.Merchant{}, opErr("merchant", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Merchant{}, opErr("merchant", "update", ErrNotFound)
	}
	return s.GetMerchant(ctx, id)
}

// DeleteMerchant soft-deletes a merchant.
func (s *Store) DeleteMerchant(ctx context.Context, id string) error {
	return opErr("merchant", "delete", s.softDelete(ctx, "merchants", id))
}

func (s *Store) softDelete(ctx context.Context, table, id string) error {
	now := s.clock()
	res, err := s.db.ExecContext(ctx, "UPDATE "+table+" SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL", now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
