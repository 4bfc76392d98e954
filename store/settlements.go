package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/satheeshds/invoicing/models"
)

const settlementSelectQuery = `SELECT s.id, s.creator_id, s.merchant_id, s.period_start, s.period_end, s.settlement_date,
		s.gross_amount, s.commission_amount, s.net_amount, s.status, s.reference, s.created_at,
		c.name, m.name
		FROM settlements s
		LEFT JOIN creators c ON s.creator_id = c.id
		LEFT JOIN merchants m ON s.merchant_id = m.id`

func scanSettlement(sc scanner) (models.Settlement, error) {
	var st models.Settlement
	err := sc.Scan(&st.ID, &st.CreatorID, &st.MerchantID, &st.PeriodStart, &st.PeriodEnd, &st.SettlementDate,
		&st.GrossAmount, &st.CommissionAmount, &st.NetAmount, &st.Status, &st.Reference, &st.CreatedAt,
		&st.CreatorName, &st.MerchantName)
	return st, err
}

// SettlementFilter holds the optional filters of ListSettlements.
type SettlementFilter struct {
	CreatorID  string
	MerchantID string
	Status     string
	From       string
	To         string
}

// ListSettlements returns settlements, latest settlement date first.
func (s *Store) ListSettlements(ctx context.Context, filter SettlementFilter) ([]models.Settlement, error) {
	var f filters
	if filter.CreatorID != "" {
		f.add("s.creator_id = %s", filter.CreatorID)
	}
	if filter.MerchantID != "" {
		f.add("s.merchant_id = %s", filter.MerchantID)
	}
	if filter.Status != "" {
		f.add("s.status = %s", filter.Status)
	}
	if filter.From != "" {
		f.add("s.settlement_date >= %s", filter.From)
	}
	if filter.To != "" {
		f.add("s.settlement_date <= %s", filter.To)
	}

	rows, err := s.db.QueryContext(ctx, settlementSelectQuery+f.where()+" ORDER BY s.settlement_date DESC NULLS LAST, s.created_at DESC", f.args...)
	if err != nil {
		return nil, opErr("settlement", "list", err)
	}
	defer rows.Close()

	settlements := []models.Settlement{}
	for rows.Next() {
		st, err := scanSettlement(rows)
		if err != nil {
			return nil, opErr("settlement", "list", err)
		}
		settlements = append(settlements, st)
	}
	return settlements, opErr("settlement", "list", rows.Err())
}

func (s *Store) GetSettlement(ctx context.Context, id string) (models.Settlement, error) {
	st, err := scanSettlement(s.db.QueryRowContext(ctx, settlementSelectQuery+" WHERE s.id = $1", id))
	return st, opErr("settlement", "get", err)
}

// CreateSettlement records a settlement; the net amount is derived from gross and commission.
func (s *Store) CreateSettlement(ctx context.Context, in models.SettlementInput) (models.Settlement, error) {
	if err := validationErr("settlement", in.Validate()); err != nil {
		return models.Settlement{}, err
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO settlements (id, creator_id, merchant_id, period_start, period_end,
		settlement_date, gross_amount, commission_amount, net_amount, status, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, nullable(in.CreatorID), nullable(in.MerchantID), nullable(in.PeriodStart), nullable(in.PeriodEnd),
		nullable(in.SettlementDate), int64(in.GrossAmount), int64(in.CommissionAmount), int64(in.NetAmount()),
		in.Status, in.Reference, s.clock())
	if err != nil {
		return models.Settlement{}, opErr("settlement", "create", err)
	}
	return s.GetSettlement(ctx, id)
}

func (s *Store) UpdateSettlement(ctx context.Context, id string, in models.SettlementInput) (models.Settlement, error) {
	if err := validationErr("settlement", in.Validate()); err != nil {
		return models.Settlement{}, err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE settlements SET creator_id = $1, merchant_id = $2, period_start = $3,
		period_end = $4, settlement_date = $5, gross_amount = $6, commission_amount = $7, net_amount = $8,
		status = $9, reference = $10 WHERE id = $11`,
		nullable(in.CreatorID), nullable(in.MerchantID), nullable(in.PeriodStart), nullable(in.PeriodEnd),
		nullable(in.SettlementDate), int64(in.GrossAmount), int64(in.CommissionAmount), int64(in.NetAmount()),
		in.Status, in.Reference, id)
	if err != nil {
		return models.Settlement{}, opErr("settlement", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Settlement{}, opErr("settlement", "update", ErrNotFound)
	}
	return s.GetSettlement(ctx, id)
}

func (s *Store) DeleteSettlement(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = $1", id)
	if err != nil {
		return opErr("settlement", "delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return opErr("settlement", "delete", ErrNotFound)
	}
	return nil
}
