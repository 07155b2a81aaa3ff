package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/models"
)

// LineAmount returns quantity × rate.
func LineAmount(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate)
}

// CalculateTotals derives the money figures of an invoice from its items and adjustments.
//
// The order of operations is fixed:
//   - subtotal   = Σ quantity × rate
//   - taxable    = subtotal - discount + shipping
//   - tax        = taxable × taxRate / 100
//   - total      = taxable + tax
//   - balanceDue = total - amountPaid
//
// Discount and shipping are both applied before tax, so shipping is taxed and
// the discount shrinks the taxable base. The balance due is not clamped and goes
// negative when the invoice is overpaid. No rounding happens here.
func CalculateTotals(items []models.LineItem, adj models.Adjustments) models.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineAmount(item.Quantity, item.Rate))
	}

	taxable := subtotal.Sub(adj.Discount).Add(adj.Shipping)
	// Shift(-2) divides by 100 without the precision cap of Div.
	tax := taxable.Mul(adj.TaxRate).Shift(-2)
	total := taxable.Add(tax)

	return models.Totals{
		Subtotal:   subtotal,
		Taxable:    taxable,
		Tax:        tax,
		Total:      total,
		BalanceDue: total.Sub(adj.AmountPaid),
	}
}
