package models

import "time"

// Creator is a content creator billed through the merchant-billing flow.
type Creator struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	Platform  *string    `json:"platform"`
	TaxID     *string    `json:"tax_id"`
	Remark    *string    `json:"remark"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// CreatorInput is used for creating and updating creators.
type CreatorInput struct {
	Name     string  `json:"name" validate:"required"`
	Email    *string `json:"email" validate:"omitnil,omitempty,email"`
	Phone    *string `json:"phone" validate:"omitnil,omitempty,phone"`
	Platform *string `json:"platform"`
	TaxID    *string `json:"tax_id"`
	Remark   *string `json:"remark"`
}

func (c *CreatorInput) Validate() string {
	return check(c)
}

// Merchant is a brand or shop that settles with creators.
type Merchant struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	Category  *string    `json:"category"`
	TaxID     *string    `json:"tax_id"`
	Remark    *string    `json:"remark"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// MerchantInput is used for creating and updating merchants.
type MerchantInput struct {
	Name     string  `json:"name" validate:"required"`
	Email    *string `json:"email" validate:"omitnil,omitempty,email"`
	Phone    *string `json:"phone" validate:"omitnil,omitempty,phone"`
	Category *string `json:"category"`
	TaxID    *string `json:"tax_id"`
	Remark   *string `json:"remark"`
}

func (m *MerchantInput) Validate() string {
	return check(m)
}
