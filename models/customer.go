package models

import "time"

// SuggestedCustomerTags are offered by the API; any tag is storable.
var SuggestedCustomerTags = []string{"VIP", "Regular", "New", "Wholesale", "Retail"}

// Customer is the buyer printed on an invoice.
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TaxID         *string   `json:"tax_id"`
	Address       *string   `json:"address"`
	Phone         *string   `json:"phone"`
	BankName      *string   `json:"bank_name"`
	BankAccount   *string   `json:"bank_account"`
	ContactPerson *string   `json:"contact_person"`
	Email         *string   `json:"email"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CustomerInput is used for creating customers and for import rows.
type CustomerInput struct {
	Name          string   `json:"name" validate:"required"`
	TaxID         *string  `json:"tax_id"`
	Address       *string  `json:"address"`
	Phone         *string  `json:"phone" validate:"omitnil,omitempty,phone"`
	BankName      *string  `json:"bank_name"`
	BankAccount   *string  `json:"bank_account"`
	ContactPerson *string  `json:"contact_person"`
	Email         *string  `json:"email" validate:"omitnil,omitempty,email"`
	Tags          []string `json:"tags"`
}

func (c *CustomerInput) Validate() string {
	return check(c)
}

// CustomerPatch is a partial update; nil fields are left unchanged.
type CustomerPatch struct {
	Name          *string   `json:"name" validate:"omitnil,min=1"`
	TaxID         *string   `json:"tax_id"`
	Address       *string   `json:"address"`
	Phone         *string   `json:"phone" validate:"omitnil,omitempty,phone"`
	BankName      *string   `json:"bank_name"`
	BankAccount   *string   `json:"bank_account"`
	ContactPerson *string   `json:"contact_person"`
	Email         *string   `json:"email" validate:"omitnil,omitempty,email"`
	Tags          *[]string `json:"tags"`
}

func (c *CustomerPatch) Validate() string {
	return check(c)
}
