// Package render turns an invoice into a printable document.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/money"
)

// Party is the seller or buyer block of a document. Missing values render blank.
type Party struct {
	Name        string
	TaxID       string
	Address     string
	Phone       string
	BankName    string
	BankAccount string
}

// Row is one line-item row.
type Row struct {
	Index     int
	Name      string
	Unit      string
	Quantity  string
	UnitPrice string
	TaxRate   string
	Amount    string
	TaxAmount string
}

// Document is everything a renderer needs; it holds display strings only.
type Document struct {
	Number        string
	Status        string
	IssueDate     string
	DueDate       string
	Seller        Party
	Buyer         Party
	Rows          []Row
	Subtotal      string
	TotalTax      string
	Total         string
	TotalUpper    string
	PaymentMethod string
	Remark        string
}

// Renderer produces a document in some output format.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// Build resolves the display form of inv. A nil customer (deleted or never chosen) yields
// a blank buyer block.
func Build(inv models.Invoice, company models.Company, customer *models.Customer) (Document, error) {
	upper, err := money.ToChineseUpper(inv.Total.Decimal())
	if err != nil {
		return Document{}, fmt.Errorf("formatting total: %w", err)
	}

	doc := Document{
		Number:        inv.InvoiceNumber,
		Status:        string(inv.Status),
		IssueDate:     inv.IssueDate.In(time.UTC).Format("2006-01-02"),
		DueDate:       deref(inv.DueDate),
		Seller:        sellerOf(company),
		Subtotal:      inv.Subtotal.String(),
		TotalTax:      inv.TotalTax.String(),
		Total:         inv.Total.String(),
		TotalUpper:    upper,
		PaymentMethod: inv.PaymentMethod,
		Remark:        inv.Remark,
	}
	if customer != nil {
		doc.Buyer = buyerOf(*customer)
	}
	for i, it := range inv.Items {
		doc.Rows = append(doc.Rows, Row{
			Index:     i + 1,
			Name:      it.Name,
			Unit:      it.Unit,
			Quantity:  it.Quantity.String(),
			UnitPrice: it.UnitPrice.StringFixed(2),
			TaxRate:   it.TaxRate.Shift(2).String() + "%",
			Amount:    it.Amount.String(),
			TaxAmount: it.TaxAmount.String(),
		})
	}
	return doc, nil
}

func sellerOf(c models.Company) Party {
	return Party{
		Name:        c.Name,
		TaxID:       deref(c.TaxID),
		Address:     deref(c.Address),
		Phone:       deref(c.Phone),
		BankName:    deref(c.BankName),
		BankAccount: deref(c.BankAccount),
	}
}

func buyerOf(c models.Customer) Party {
	return Party{
		Name:        c.Name,
		TaxID:       deref(c.TaxID),
		Address:     deref(c.Address),
		Phone:       deref(c.Phone),
		BankName:    deref(c.BankName),
		BankAccount: deref(c.BankAccount),
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
