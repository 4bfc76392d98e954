package handlers

import (
	"net/http"

	"github.com/satheeshds/invoicing/invoicing"
	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/money"
	"github.com/shopspring/decimal"
)

// CalculateRequest is the body of a totals preview.
type CalculateRequest struct {
	Items []models.LineItemInput `json:"items"`
}

// CalculateResult carries the derived lines and totals of a preview.
type CalculateResult struct {
	Items      []models.LineItem `json:"items"`
	Subtotal   models.Money      `json:"subtotal"`
	TotalTax   models.Money      `json:"total_tax"`
	Total      models.Money      `json:"total"`
	TotalUpper string            `json:"total_upper"`
}

// Calculate previews line amounts and totals without saving anything
// @Summary      Calculate totals
// @Description  Compute per-line amounts, taxes and invoice totals, including the capitalized Chinese total.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        items  body      CalculateRequest  true  "Line items"
// @Success      200    {object}  Response{data=CalculateResult}
// @Failure      400    {object}  Response{error=string}
// @Router       /calculate [post]
// @Security     BasicAuth
func (a *API) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := models.InvoiceInput{Items: req.Items}
	if msg := in.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	items, totals, err := invoicing.BuildItems(req.Items)
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	upper, err := money.ToChineseUpper(totals.Total)
	if err != nil {
		a.fail(w, r, "invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, CalculateResult{
		Items:      items,
		Subtotal:   models.MoneyFromDecimal(totals.Subtotal),
		TotalTax:   models.MoneyFromDecimal(totals.TotalTax),
		Total:      models.MoneyFromDecimal(totals.Total),
		TotalUpper: upper,
	})
}

// Vocabulary lists the suggested values the UI offers in pickers.
type Vocabulary struct {
	CustomerTags      []string          `json:"customer_tags"`
	ProductCategories []string          `json:"product_categories"`
	PaymentMethods    []string          `json:"payment_methods"`
	Statuses          []string          `json:"statuses"`
	TaxRates          []decimal.Decimal `json:"tax_rates"`
}

// GetVocabulary returns suggested tags, categories, payment methods, statuses and tax rates
// @Summary      Get vocabulary
// @Tags         meta
// @Produce      json
// @Success      200  {object}  Response{data=Vocabulary}
// @Router       /vocabulary [get]
// @Security     BasicAuth
func (a *API) GetVocabulary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Vocabulary{
		CustomerTags:      models.SuggestedCustomerTags,
		ProductCategories: models.SuggestedProductCategories,
		PaymentMethods:    models.SuggestedPaymentMethods,
		Statuses: []string{
			string(models.StatusDraft), string(models.StatusIssued), string(models.StatusPaid),
			string(models.StatusOverdue), string(models.StatusVoid),
		},
		TaxRates: money.SupportedTaxRates,
	})
}
