// Package checkout holds the order total calculation.
package checkout

import (
	"github.com/markur/jesus-walks-napa/models"
	"github.com/shopspring/decimal"
)

// ComputeTotal combines the cart subtotal with the selected shipping rate.
// Pure function: no I/O, no side effects. Every time the selected rate
// changes the caller must recompute and create a new payment intent; stale
// totals must never be charged.
func ComputeTotal(subtotal decimal.Decimal, selected *models.ShippingRateQuote) decimal.Decimal {
	if selected == nil {
		return subtotal
	}
	return subtotal.Add(selected.Rate)
}
