package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/models"
)

// StatusSummary aggregates the invoices in one status.
type StatusSummary struct {
	Count      int
	Total      decimal.Decimal
	BalanceDue decimal.Decimal
}

// Summary represents the portfolio figures shown on the invoice dashboard.
type Summary struct {
	InvoiceCount int
	TotalRevenue decimal.Decimal // Σ total over every invoice
	PaidCount    int
	Pending      decimal.Decimal // Σ total of sent invoices
	Overdue      decimal.Decimal // Σ balance due of overdue invoices
	Outstanding  decimal.Decimal // Σ balance due of sent and overdue invoices
	ByStatus     map[models.Status]StatusSummary
}

// SummarizeInvoices computes dashboard figures across many invoices.
// Totals are recomputed from items and adjustments rather than trusted from the
// stored record, so a stale record cannot skew the summary.
func SummarizeInvoices(invoices []*models.Invoice) Summary {
	summary := Summary{
		TotalRevenue: decimal.Zero,
		Pending:      decimal.Zero,
		Overdue:      decimal.Zero,
		Outstanding:  decimal.Zero,
		ByStatus:     make(map[models.Status]StatusSummary, len(models.Statuses)),
	}
	for _, st := range models.Statuses {
		summary.ByStatus[st] = StatusSummary{Total: decimal.Zero, BalanceDue: decimal.Zero}
	}

	for _, inv := range invoices {
		totals := CalculateTotals(inv.Items, inv.Adjustments)

		summary.InvoiceCount++
		summary.TotalRevenue = summary.TotalRevenue.Add(totals.Total)

		bucket := summary.ByStatus[inv.Status]
		bucket.Count++
		bucket.Total = bucket.Total.Add(totals.Total)
		bucket.BalanceDue = bucket.BalanceDue.Add(totals.BalanceDue)
		summary.ByStatus[inv.Status] = bucket

		switch inv.Status {
		case models.StatusPaid:
			summary.PaidCount++
		case models.StatusSent:
			summary.Pending = summary.Pending.Add(totals.Total)
			summary.Outstanding = summary.Outstanding.Add(totals.BalanceDue)
		case models.StatusOverdue:
			summary.Overdue = summary.Overdue.Add(totals.BalanceDue)
			summary.Outstanding = summary.Outstanding.Add(totals.BalanceDue)
		}
	}

	return summary
}
