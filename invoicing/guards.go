package invoicing

import (
	"fmt"
	"strings"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/money"
)

// CheckSubmit runs the guards an invoice must pass before it can be issued.
func CheckSubmit(in models.InvoiceInput) error {
	if strings.TrimSpace(in.CompanyID) == "" {
		return &ValidationError{Field: "company_id", Message: "a billing company must be selected"}
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return &ValidationError{Field: "customer_id", Message: "a customer must be selected"}
	}
	if len(in.Items) == 0 {
		return &ValidationError{Field: "items", Message: "at least one line item is required"}
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.Name) == "" {
			return &ValidationError{Field: fmt.Sprintf("items[%d].name", i), Message: "name is required"}
		}
		if !it.Quantity.IsPositive() {
			return &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "quantity must be greater than 0"}
		}
	}
	return nil
}

// BuildItems derives amounts for every line and the invoice totals.
func BuildItems(inputs []models.LineItemInput) ([]models.LineItem, money.Totals, error) {
	items := make([]models.LineItem, 0, len(inputs))
	lines := make([]money.Line, 0, len(inputs))
	for i, in := range inputs {
		l, err := money.ComputeLine(in.Quantity, in.UnitPrice, in.TaxRate)
		if err != nil {
			return nil, money.Totals{}, &ValidationError{Field: fmt.Sprintf("items[%d]", i), Message: err.Error()}
		}
		lines = append(lines, l)
		items = append(items, models.LineItem{
			ProductID: in.ProductID,
			Name:      strings.TrimSpace(in.Name),
			Quantity:  in.Quantity,
			Unit:      in.Unit,
			UnitPrice: in.UnitPrice,
			TaxRate:   in.TaxRate,
			Amount:    models.MoneyFromDecimal(l.Amount),
			TaxAmount: models.MoneyFromDecimal(l.TaxAmount),
		})
	}
	return items, money.AggregateTotals(lines), nil
}

// Prepare validates in for the requested initial status and computes its items and totals.
func Prepare(in models.InvoiceInput, status models.InvoiceStatus) ([]models.LineItem, money.Totals, error) {
	if msg := in.Validate(); msg != "" {
		return nil, money.Totals{}, &ValidationError{Field: "invoice", Message: msg}
	}
	switch status {
	case models.StatusDraft:
	case models.StatusIssued:
		if err := CheckSubmit(in); err != nil {
			return nil, money.Totals{}, err
		}
	default:
		return nil, money.Totals{}, &ValidationError{Field: "status", Message: "new invoices start as draft or issued"}
	}
	return BuildItems(in.Items)
}
