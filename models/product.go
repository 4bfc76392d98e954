package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SuggestedProductCategories are offered by the API; any category is storable.
var SuggestedProductCategories = []string{"goods", "service", "software", "consulting", "other"}

// Product is a template for invoice line items.
type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Unit              string          `json:"unit"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	TaxClassification *string         `json:"tax_classification"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductInput is used for creating products and for import rows.
type ProductInput struct {
	Name              string          `json:"name" validate:"required"`
	Category          string          `json:"category"`
	Unit              string          `json:"unit"`
	UnitPrice         decimal.Decimal `json:"unit_price" validate:"gte=0"`
	TaxRate           decimal.Decimal `json:"tax_rate" validate:"taxrate"`
	TaxClassification *string         `json:"tax_classification"`
}

func (p *ProductInput) Validate() string {
	return check(p)
}

// ProductPatch is a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Name              *string          `json:"name" validate:"omitnil,min=1"`
	Category          *string          `json:"category"`
	Unit              *string          `json:"unit"`
	UnitPrice         *decimal.Decimal `json:"unit_price" validate:"omitnil,gte=0"`
	TaxRate           *decimal.Decimal `json:"tax_rate" validate:"omitnil,taxrate"`
	TaxClassification *string          `json:"tax_classification"`
}

func (p *ProductPatch) Validate() string {
	return check(p)
}
