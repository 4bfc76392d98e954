package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the unified invoice status. The quick-invoicing vocabulary
// (draft/issued/paid/void) and the merchant-billing vocabulary
// (draft/pending/paid/overdue/voided) both map onto it.
type InvoiceStatus string

const (
	StatusDraft   InvoiceStatus = "draft"
	StatusIssued  InvoiceStatus = "issued"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
	StatusVoid    InvoiceStatus = "void"
)

// ParseInvoiceStatus accepts the canonical names and their aliases.
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return StatusDraft, true
	case "issued", "pending", "sent":
		return StatusIssued, true
	case "paid":
		return StatusPaid, true
	case "overdue":
		return StatusOverdue, true
	case "void", "voided", "cancelled":
		return StatusVoid, true
	}
	return "", false
}

// SuggestedPaymentMethods are offered by the API; any text is storable.
var SuggestedPaymentMethods = []string{"bank_transfer", "cash", "alipay", "wechat_pay", "check", "other"}

// Invoice is a receivable invoice with its line items and derived totals.
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	CompanyID     string        `json:"company_id"`
	CustomerID    string        `json:"customer_id"`
	CreatorID     *string       `json:"creator_id"`
	MerchantID    *string       `json:"merchant_id"`
	Items         []LineItem    `json:"items"`
	Subtotal      Money         `json:"subtotal"`
	TotalTax      Money         `json:"total_tax"`
	Total         Money         `json:"total"`
	PaidAmount    Money         `json:"paid_amount"`
	Status        InvoiceStatus `json:"status"`
	PaymentMethod string        `json:"payment_method"`
	Remark        string        `json:"remark"`
	IssueDate     time.Time     `json:"issue_date"`
	DueDate       *string       `json:"due_date"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	// Computed fields
	CompanyName  *string `json:"company_name,omitempty"`
	CustomerName *string `json:"customer_name,omitempty"`
}

// LineItem is one row of an invoice. Amount and TaxAmount are always derived.
type LineItem struct {
	ID        string          `json:"id"`
	ProductID *string         `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Amount    Money           `json:"amount"`
	TaxAmount Money           `json:"tax_amount"`
}

// InvoiceInput is used for creating invoices and replacing their contents.
type InvoiceInput struct {
	CompanyID     string          `json:"company_id"`
	CustomerID    string          `json:"customer_id"`
	CreatorID     *string         `json:"creator_id"`
	MerchantID    *string         `json:"merchant_id"`
	Items         []LineItemInput `json:"items" validate:"dive"`
	PaymentMethod string          `json:"payment_method"`
	Remark        string          `json:"remark"`
	DueDate       *string         `json:"due_date" validate:"omitnil,datetime=2006-01-02"`
}

// LineItemInput carries the editable fields of a line item.
type LineItemInput struct {
	ProductID *string         `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gte=0"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
	TaxRate   decimal.Decimal `json:"tax_rate" validate:"taxrate"`
}

// Validate checks the shape of the input. Whether the invoice may leave draft is decided by
// the lifecycle guards, not here.
func (i *InvoiceInput) Validate() string {
	return check(i)
}

// LineItemFromProduct copies a product's fields into a line item input.
func LineItemFromProduct(p Product, quantity decimal.Decimal) LineItemInput {
	id := p.ID
	return LineItemInput{
		ProductID: &id,
		Name:      p.Name,
		Quantity:  quantity,
		Unit:      p.Unit,
		UnitPrice: p.UnitPrice,
		TaxRate:   p.TaxRate,
	}
}

// InvoiceFilter holds the equality filters supported by invoice listing.
type InvoiceFilter struct {
	Status     *InvoiceStatus
	CompanyID  *string
	CustomerID *string
	CreatorID  *string
	MerchantID *string
	Search     string
}

// StatusInput is the body of a status change request.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

func (s *StatusInput) Validate() string {
	return check(s)
}
