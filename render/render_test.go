package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/satheeshds/invoicing/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() models.Invoice {
	return models.Invoice{
		InvoiceNumber: "SOLL-202610-0001",
		Status:        models.StatusIssued,
		IssueDate:     time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC),
		Items: []models.LineItem{{
			Name:      "Design",
			Unit:      "项",
			Quantity:  decimal.NewFromInt(2),
			UnitPrice: decimal.NewFromInt(100),
			TaxRate:   decimal.RequireFromString("0.06"),
			Amount:    20000,
			TaxAmount: 1200,
		}},
		Subtotal:      20000,
		TotalTax:      1200,
		Total:         21200,
		PaymentMethod: "bank_transfer",
	}
}

func TestBuild(t *testing.T) {
	tax := "91310000MA1"
	company := models.Company{Name: "Soll Studio", ShortCode: "SOLL", TaxID: &tax}
	customer := &models.Customer{Name: "Acme"}

	doc, err := Build(sampleInvoice(), company, customer)
	require.NoError(t, err)
	assert.Equal(t, "贰佰壹拾贰元整", doc.TotalUpper)
	assert.Equal(t, "212.00", doc.Total)
	assert.Equal(t, "2026-10-19", doc.IssueDate)
	assert.Equal(t, "Soll Studio", doc.Seller.Name)
	assert.Equal(t, tax, doc.Seller.TaxID)
	assert.Equal(t, "Acme", doc.Buyer.Name)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, Row{Index: 1, Name: "Design", Unit: "项", Quantity: "2", UnitPrice: "100.00", TaxRate: "6%", Amount: "200.00", TaxAmount: "12.00"}, doc.Rows[0])
}

func TestBuild_MissingCustomer(t *testing.T) {
	doc, err := Build(sampleInvoice(), models.Company{Name: "Soll Studio"}, nil)
	require.NoError(t, err)
	assert.Equal(t, Party{}, doc.Buyer)
}

func TestHTML_Render(t *testing.T) {
	h, err := NewHTML()
	require.NoError(t, err)

	doc, err := Build(sampleInvoice(), models.Company{Name: "Soll <Studio>"}, nil)
	require.NoError(t, err)
	out, err := h.Render(context.Background(), doc)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "SOLL-202610-0001")
	assert.Contains(t, html, "贰佰壹拾贰元整")
	assert.Contains(t, html, "Soll &lt;Studio&gt;")
	assert.False(t, strings.Contains(html, "已作废"))
	assert.Equal(t, ".html", h.Extension())
}

func TestHTML_RenderCancelled(t *testing.T) {
	h, err := NewHTML()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Render(ctx, Document{})
	assert.ErrorIs(t, err, context.Canceled)
}
