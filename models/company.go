package models

import "time"

// MaxCompanies caps the number of billing entities.
const MaxCompanies = 3

// Company is a billing entity: the seller printed on an invoice.
type Company struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ShortCode      string    `json:"short_code"`
	TaxID          *string   `json:"tax_id"`
	Address        *string   `json:"address"`
	Phone          *string   `json:"phone"`
	BankName       *string   `json:"bank_name"`
	BankAccount    *string   `json:"bank_account"`
	InvoiceCounter int64     `json:"invoice_counter"`
	IsDefault      bool      `json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CompanyInput is used for creating companies.
type CompanyInput struct {
	Name        string  `json:"name" validate:"required"`
	ShortCode   string  `json:"short_code" validate:"required,max=10"`
	TaxID       *string `json:"tax_id"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone" validate:"omitnil,omitempty,phone"`
	BankName    *string `json:"bank_name"`
	BankAccount *string `json:"bank_account"`
}

func (c *CompanyInput) Validate() string {
	return check(c)
}

// CompanyPatch is a partial update; nil fields are left unchanged. The invoice counter and
// the default flag are not patchable.
type CompanyPatch struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	ShortCode   *string `json:"short_code" validate:"omitnil,min=1,max=10"`
	TaxID       *string `json:"tax_id"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone" validate:"omitnil,omitempty,phone"`
	BankName    *string `json:"bank_name"`
	BankAccount *string `json:"bank_account"`
}

func (c *CompanyPatch) Validate() string {
	return check(c)
}
