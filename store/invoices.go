package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/satheeshds/invoicing/audit"
	"github.com/satheeshds/invoicing/invoicing"
	"github.com/satheeshds/invoicing/models"
)

const invoiceSelectQuery = `SELECT i.id, i.invoice_number, i.company_id, i.customer_id, i.creator_id, i.merchant_id,
		i.subtotal, i.total_tax, i.total, i.paid_amount, i.status, i.payment_method, i.remark,
		i.issue_date, i.due_date, i.created_at, i.updated_at,
		co.name, cu.name
		FROM invoices i
		LEFT JOIN companies co ON i.company_id = co.id
		LEFT JOIN customers cu ON i.customer_id = cu.id`

const itemSelectQuery = `SELECT id, product_id, name, quantity, unit, unit_price, tax_rate, amount, tax_amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`

func scanInvoice(s scanner) (models.Invoice, error) {
	var inv models.Invoice
	err := s.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CompanyID, &inv.CustomerID, &inv.CreatorID, &inv.MerchantID,
		&inv.Subtotal, &inv.TotalTax, &inv.Total, &inv.PaidAmount, &inv.Status, &inv.PaymentMethod, &inv.Remark,
		&inv.IssueDate, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
		&inv.CompanyName, &inv.CustomerName)
	return inv, err
}

func loadItems(ctx context.Context, q querier, invoiceID string) ([]models.LineItem, error) {
	rows, err := q.QueryContext(ctx, itemSelectQuery, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var it models.LineItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Quantity, &it.Unit, &it.UnitPrice, &it.TaxRate,
			&it.Amount, &it.TaxAmount); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func getInvoice(ctx context.Context, q querier, id string) (models.Invoice, error) {
	inv, err := scanInvoice(q.QueryRowContext(ctx, invoiceSelectQuery+" WHERE i.id = $1", id))
	if err != nil {
		return inv, err
	}
	inv.Items, err = loadItems(ctx, q, id)
	return inv, err
}

// GetInvoice returns the invoice with its items.
func (s *Store) GetInvoice(ctx context.Context, id string) (models.Invoice, error) {
	inv, err := getInvoice(ctx, s.db, id)
	return inv, opErr("invoice", "get", err)
}

// ListInvoices returns invoices newest first. Items are not loaded.
func (s *Store) ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	var f filters
	if filter.Status != nil {
		f.add("i.status = %s", string(*filter.Status))
	}
	if filter.CompanyID != nil {
		f.add("i.company_id = %s", *filter.CompanyID)
	}
	if filter.CustomerID != nil {
		f.add("i.customer_id = %s", *filter.CustomerID)
	}
	if filter.CreatorID != nil {
		f.add("i.creator_id = %s", *filter.CreatorID)
	}
	if filter.MerchantID != nil {
		f.add("i.merchant_id = %s", *filter.MerchantID)
	}
	if filter.Search != "" {
		f.add("(LOWER(i.invoice_number) LIKE %[1]s OR LOWER(i.remark) LIKE %[1]s OR LOWER(COALESCE(cu.name, '')) LIKE %[1]s)",
			searchPattern(filter.Search))
	}

	rows, err := s.db.QueryContext(ctx, invoiceSelectQuery+f.where()+" ORDER BY i.created_at DESC, i.id DESC", f.args...)
	if err != nil {
		return nil, opErr("invoice", "list", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, opErr("invoice", "list", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, opErr("invoice", "list", rows.Err())
}

// CreateInvoice persists a new invoice in status draft or issued. The number is assigned, the
// invoice and its items are inserted and the created entry is audited in one transaction.
// An empty company falls back to the default company.
func (s *Store) CreateInvoice(ctx context.Context, in models.InvoiceInput, status models.InvoiceStatus) (models.Invoice, error) {
	return s.createInvoice(ctx, in, status, nil)
}

func (s *Store) createInvoice(ctx context.Context, in models.InvoiceInput, status models.InvoiceStatus, meta any) (models.Invoice, error) {
	if err := s.resolveCompany(ctx, &in); err != nil {
		return models.Invoice{}, err
	}
	var err error
	if in.Items, err = fillFromProducts(ctx, s.db, in.Items); err != nil {
		return models.Invoice{}, opErr("invoice", "create", err)
	}
	items, totals, err := invoicing.Prepare(in, status)
	if err != nil {
		return models.Invoice{}, err
	}

	id := uuid.NewString()
	now := s.clock()
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		number, err := s.numbering.Assign(ctx, counterSequence{q: tx, now: now}, in.CompanyID, id, now)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO invoices (id, invoice_number, company_id, customer_id, creator_id,
			merchant_id, subtotal, total_tax, total, paid_amount, status, payment_method, remark, issue_date,
			due_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11, $12, $13, $14, $13, $13)`,
			id, number, in.CompanyID, in.CustomerID, nullable(in.CreatorID), nullable(in.MerchantID),
			int64(models.MoneyFromDecimal(totals.Subtotal)), int64(models.MoneyFromDecimal(totals.TotalTax)),
			int64(models.MoneyFromDecimal(totals.Total)), string(status), in.PaymentMethod, in.Remark, now,
			nullable(in.DueDate))
		if err != nil {
			return err
		}
		if err := insertItems(ctx, tx, id, items); err != nil {
			return err
		}
		newValue := map[string]any{
			"status":         status,
			"invoice_number": number,
			"total":          models.MoneyFromDecimal(totals.Total),
		}
		return s.appendAudit(ctx, tx, id, models.AuditCreated, nil, newValue, meta, now)
	})
	if err != nil {
		return models.Invoice{}, opErr("invoice", "create", err)
	}
	return s.GetInvoice(ctx, id)
}

// resolveCompany fills an empty company with the default company when one exists.
func (s *Store) resolveCompany(ctx context.Context, in *models.InvoiceInput) error {
	if in.CompanyID != "" {
		return nil
	}
	c, err := s.DefaultCompany(ctx)
	if IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	in.CompanyID = c.ID
	return nil
}

// fillFromProducts completes items that name only a product: name, unit, price and tax rate
// are copied from the catalog, the given quantity is kept.
func fillFromProducts(ctx context.Context, q querier, in []models.LineItemInput) ([]models.LineItemInput, error) {
	items := make([]models.LineItemInput, len(in))
	copy(items, in)
	for i, it := range items {
		if it.ProductID == nil || it.Name != "" {
			continue
		}
		p, err := scanProduct(q.QueryRowContext(ctx, productSelectQuery+" WHERE id = $1", *it.ProductID))
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &invoicing.ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "product not found"}
		}
		if err != nil {
			return nil, err
		}
		items[i] = models.LineItemFromProduct(p, it.Quantity)
	}
	return items, nil
}

func insertItems(ctx context.Context, q querier, invoiceID string, items []models.LineItem) error {
	for i, it := range items {
		_, err := q.ExecContext(ctx, `INSERT INTO invoice_items (id, invoice_id, position, product_id, name, quantity,
			unit, unit_price, tax_rate, amount, tax_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			uuid.NewString(), invoiceID, i, nullable(it.ProductID), it.Name, it.Quantity.String(), it.Unit,
			it.UnitPrice.String(), it.TaxRate.String(), int64(it.Amount), int64(it.TaxAmount))
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateInvoice replaces the contents of a draft, issued or overdue invoice and recomputes its
// totals. Non-draft invoices must still pass the submit guards. Number, status, issue date and
// paid amount are kept.
func (s *Store) UpdateInvoice(ctx context.Context, id string, in models.InvoiceInput) (models.Invoice, error) {
	now := s.clock()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := getInvoice(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := invoicing.CheckEditable(cur.Status); err != nil {
			return err
		}
		if in.CompanyID == "" {
			in.CompanyID = cur.CompanyID
		}
		if in.Items, err = fillFromProducts(ctx, tx, in.Items); err != nil {
			return err
		}
		guard := models.StatusIssued
		if cur.Status == models.StatusDraft {
			guard = models.StatusDraft
		}
		items, totals, err := invoicing.Prepare(in, guard)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE invoices SET company_id = $1, customer_id = $2, creator_id = $3,
			merchant_id = $4, subtotal = $5, total_tax = $6, total = $7, payment_method = $8, remark = $9,
			due_date = $10, updated_at = $11 WHERE id = $12`,
			in.CompanyID, in.CustomerID, nullable(in.CreatorID), nullable(in.MerchantID),
			int64(models.MoneyFromDecimal(totals.Subtotal)), int64(models.MoneyFromDecimal(totals.TotalTax)),
			int64(models.MoneyFromDecimal(totals.Total)), in.PaymentMethod, in.Remark, nullable(in.DueDate), now, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = $1", id); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, id, items); err != nil {
			return err
		}
		return s.appendAudit(ctx, tx, id, models.AuditUpdated, contentSnapshot(cur.Items, cur.Total),
			contentSnapshot(items, models.MoneyFromDecimal(totals.Total)), nil, now)
	})
	if err != nil {
		return models.Invoice{}, opErr("invoice", "update", err)
	}
	return s.GetInvoice(ctx, id)
}

func contentSnapshot(items []models.LineItem, total models.Money) map[string]any {
	return map[string]any{"items": len(items), "total": total}
}

// TransitionInvoice moves an invoice to another status through the lifecycle and audits the
// change in the same transaction.
func (s *Store) TransitionInvoice(ctx context.Context, id string, to models.InvoiceStatus) (models.Invoice, error) {
	now := s.clock()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := getInvoice(ctx, tx, id)
		if err != nil {
			return err
		}
		change, err := invoicing.Transition(cur, to)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "UPDATE invoices SET status = $1, paid_amount = $2, updated_at = $3 WHERE id = $4",
			string(change.To), int64(change.PaidAmount), now, id)
		if err != nil {
			return err
		}
		return s.appendAudit(ctx, tx, id, change.Action, change.OldValue(), change.NewValue(), nil, now)
	})
	if err != nil {
		return models.Invoice{}, opErr("invoice", "transition", err)
	}
	return s.GetInvoice(ctx, id)
}

// VoidInvoice is TransitionInvoice to void.
func (s *Store) VoidInvoice(ctx context.Context, id string) (models.Invoice, error) {
	return s.TransitionInvoice(ctx, id, models.StatusVoid)
}

// DuplicateInvoice copies an invoice's contents into a new draft with a fresh number.
func (s *Store) DuplicateInvoice(ctx context.Context, id string) (models.Invoice, error) {
	src, err := s.GetInvoice(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	in := models.InvoiceInput{
		CompanyID:     src.CompanyID,
		CustomerID:    src.CustomerID,
		CreatorID:     src.CreatorID,
		MerchantID:    src.MerchantID,
		PaymentMethod: src.PaymentMethod,
		Remark:        src.Remark,
	}
	for _, it := range src.Items {
		in.Items = append(in.Items, models.LineItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			TaxRate:   it.TaxRate,
		})
	}
	return s.createInvoice(ctx, in, models.StatusDraft, map[string]any{"duplicated_from": src.InvoiceNumber})
}

// DeleteInvoice hard-deletes an invoice. Paid invoices are refused and anything past draft
// needs confirmed. The deleted entry is audited before the row goes.
func (s *Store) DeleteInvoice(ctx context.Context, id string, confirmed bool) error {
	now := s.clock()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanInvoice(tx.QueryRowContext(ctx, invoiceSelectQuery+" WHERE i.id = $1", id))
		if err != nil {
			return err
		}
		if err := invoicing.CheckDelete(cur.Status, confirmed); err != nil {
			return err
		}
		oldValue := map[string]any{
			"status":         cur.Status,
			"total":          cur.Total,
			"invoice_number": cur.InvoiceNumber,
		}
		if err := s.appendAudit(ctx, tx, id, models.AuditDeleted, oldValue, nil, map[string]any{"confirmed": confirmed}, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = $1", id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
		return err
	})
	return opErr("invoice", "delete", err)
}

func (s *Store) appendAudit(ctx context.Context, q querier, invoiceID string, action models.AuditAction, oldValue, newValue, meta any, now time.Time) error {
	e, err := audit.NewEntry(invoiceID, action, oldValue, newValue, meta, now)
	if err != nil {
		return err
	}
	return insertAudit(ctx, q, e)
}
