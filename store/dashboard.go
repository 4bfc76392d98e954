package store

import (
	"context"
	"time"

	"github.com/satheeshds/invoicing/models"
)

// Dashboard is the summary shown on the home screen.
type Dashboard struct {
	TotalCompanies   int `json:"total_companies"`
	TotalCustomers   int `json:"total_customers"`
	TotalProducts    int `json:"total_products"`
	TotalInvoices    int `json:"total_invoices"`
	TotalCreators    int `json:"total_creators"`
	TotalMerchants   int `json:"total_merchants"`
	TotalSettlements int `json:"total_settlements"`

	DraftInvoices   int `json:"draft_invoices"`
	OverdueInvoices int `json:"overdue_invoices"`

	Receivable     models.Money `json:"receivable"` // total - paid over issued and overdue
	PaidThisMonth  models.Money `json:"paid_this_month"`
	SettlementsNet models.Money `json:"settlements_net"`

	RecentInvoices []models.Invoice `json:"recent_invoices"`
}

// Dashboard collects the summary counts and the five most recent invoices.
func (s *Store) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	now := s.clock()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	scalars := []struct {
		query string
		args  []any
		dest  any
	}{
		{"SELECT COUNT(*) FROM companies", nil, &d.TotalCompanies},
		{"SELECT COUNT(*) FROM customers", nil, &d.TotalCustomers},
		{"SELECT COUNT(*) FROM products", nil, &d.TotalProducts},
		{"SELECT COUNT(*) FROM invoices", nil, &d.TotalInvoices},
		{"SELECT COUNT(*) FROM creators WHERE deleted_at IS NULL", nil, &d.TotalCreators},
		{"SELECT COUNT(*) FROM merchants WHERE deleted_at IS NULL", nil, &d.TotalMerchants},
		{"SELECT COUNT(*) FROM settlements", nil, &d.TotalSettlements},
		{"SELECT COUNT(*) FROM invoices WHERE status = 'draft'", nil, &d.DraftInvoices},
		{"SELECT COUNT(*) FROM invoices WHERE status = 'overdue'", nil, &d.OverdueInvoices},
		{`SELECT CAST(COALESCE(SUM(total - paid_amount), 0) AS BIGINT) FROM invoices
			WHERE status IN ('issued', 'overdue')`, nil, &d.Receivable},
		{`SELECT CAST(COALESCE(SUM(paid_amount), 0) AS BIGINT) FROM invoices
			WHERE status = 'paid' AND updated_at >= $1`, []any{monthStart}, &d.PaidThisMonth},
		{"SELECT CAST(COALESCE(SUM(net_amount), 0) AS BIGINT) FROM settlements", nil, &d.SettlementsNet},
	}
	for _, q := range scalars {
		if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dest); err != nil {
			return d, opErr("dashboard", "get", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, invoiceSelectQuery+" ORDER BY i.created_at DESC, i.id DESC LIMIT 5")
	if err != nil {
		return d, opErr("dashboard", "get", err)
	}
	defer rows.Close()

	d.RecentInvoices = []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return d, opErr("dashboard", "get", err)
		}
		d.RecentInvoices = append(d.RecentInvoices, inv)
	}
	return d, opErr("dashboard", "get", rows.Err())
}
