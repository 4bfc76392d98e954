// Package money holds the invoice arithmetic: per-line amounts and taxes, invoice totals and
// the capitalized Chinese rendering of an amount.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places every computed amount is rounded to.
const Places = 2

// ErrNegative is returned when a quantity, price, amount or rate is below zero.
var ErrNegative = errors.New("money: value must be non-negative")

// SupportedTaxRates are the tax rates offered for products and line items.
var SupportedTaxRates = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("0.01"),
	decimal.RequireFromString("0.03"),
	decimal.RequireFromString("0.06"),
	decimal.RequireFromString("0.09"),
	decimal.RequireFromString("0.13"),
}

// IsSupportedTaxRate reports whether rate is one of SupportedTaxRates.
func IsSupportedTaxRate(rate decimal.Decimal) bool {
	for _, r := range SupportedTaxRates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

// Line is a computed invoice line.
type Line struct {
	Amount    decimal.Decimal
	TaxAmount decimal.Decimal
}

// Totals are the aggregates of an invoice.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	TotalTax decimal.Decimal `json:"total_tax"`
	Total    decimal.Decimal `json:"total"`
}

// LineAmount returns quantity * price rounded to two places.
func LineAmount(quantity, price decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() || price.IsNegative() {
		return decimal.Zero, ErrNegative
	}
	return quantity.Mul(price).Round(Places), nil
}

// LineTax returns amount * rate rounded to two places. Rates outside SupportedTaxRates are
// computed all the same; validation decides whether to accept them.
func LineTax(amount, rate decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() || rate.IsNegative() {
		return decimal.Zero, ErrNegative
	}
	return amount.Mul(rate).Round(Places), nil
}

// ComputeLine derives both the amount and the tax of a line.
func ComputeLine(quantity, price, rate decimal.Decimal) (Line, error) {
	amount, err := LineAmount(quantity, price)
	if err != nil {
		return Line{}, err
	}
	tax, err := LineTax(amount, rate)
	if err != nil {
		return Line{}, err
	}
	return Line{Amount: amount, TaxAmount: tax}, nil
}

// AggregateTotals sums the already rounded line values and rounds the sums again.
// Rounding happens per line and then per aggregate; totals can therefore differ by a few cents
// from pricing all quantities in one go.
func AggregateTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount)
		tax = tax.Add(l.TaxAmount)
	}
	subtotal = subtotal.Round(Places)
	tax = tax.Round(Places)
	return Totals{
		Subtotal: subtotal,
		TotalTax: tax,
		Total:    subtotal.Add(tax).Round(Places),
	}
}
