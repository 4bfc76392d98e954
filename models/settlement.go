package models

import "time"

// Settlement records a payout between a merchant and a creator for a period.
type Settlement struct {
	ID               string    `json:"id"`
	CreatorID        *string   `json:"creator_id"`
	MerchantID       *string   `json:"merchant_id"`
	PeriodStart      *string   `json:"period_start"`
	PeriodEnd        *string   `json:"period_end"`
	SettlementDate   *string   `json:"settlement_date"`
	GrossAmount      Money     `json:"gross_amount"`
	CommissionAmount Money     `json:"commission_amount"`
	NetAmount        Money     `json:"net_amount"`
	Status           string    `json:"status"` // pending, settled
	Reference        string    `json:"reference"`
	CreatedAt        time.Time `json:"created_at"`
	// Computed fields
	CreatorName  *string `json:"creator_name,omitempty"`
	MerchantName *string `json:"merchant_name,omitempty"`
}

// SettlementInput is used for creating/updating settlement records.
type SettlementInput struct {
	CreatorID        *string `json:"creator_id"`
	MerchantID       *string `json:"merchant_id"`
	PeriodStart      *string `json:"period_start" validate:"omitnil,datetime=2006-01-02"`
	PeriodEnd        *string `json:"period_end" validate:"omitnil,datetime=2006-01-02"`
	SettlementDate   *string `json:"settlement_date" validate:"omitnil,datetime=2006-01-02"`
	GrossAmount      Money   `json:"gross_amount" validate:"gte=0"`
	CommissionAmount Money   `json:"commission_amount" validate:"gte=0"`
	Status           string  `json:"status" validate:"omitempty,oneof=pending settled"`
	Reference        string  `json:"reference"`
}

func (s *SettlementInput) Validate() string {
	if msg := check(s); msg != "" {
		return msg
	}
	if s.CreatorID == nil && s.MerchantID == nil {
		return "creator_id or merchant_id is required"
	}
	if s.CommissionAmount > s.GrossAmount {
		return "commission_amount must not exceed gross_amount"
	}
	if s.Status == "" {
		s.Status = "pending"
	}
	return ""
}

// NetAmount is gross minus commission.
func (s *SettlementInput) NetAmount() Money {
	return s.GrossAmount - s.CommissionAmount
}
