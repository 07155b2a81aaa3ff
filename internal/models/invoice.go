package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an invoice.
// Any status may be set directly; there is no enforced transition graph.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusDraft, StatusSent, StatusPaid, StatusOverdue}

// ParseStatus converts a string to a Status.
// Returns an error if the value is not one of the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown invoice status %q", s)
}

// Label returns the human readable name of the status ("Draft", "Sent", ...).
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSent:
		return "Sent"
	case StatusPaid:
		return "Paid"
	case StatusOverdue:
		return "Overdue"
	}
	return string(s)
}

// LineItem represents a single billable row on an invoice.
type LineItem struct {
	// ID is the unique identifier for the item within its invoice.
	ID string

	// Description is the free-text name of the goods or service.
	Description string

	// Quantity is the number of units billed. Never negative.
	Quantity decimal.Decimal

	// Unit is the unit label shown next to the quantity (e.g., "hrs", "pcs").
	Unit string

	// Rate is the price per unit. Never negative.
	Rate decimal.Decimal

	// Amount is Quantity × Rate. It is derived and must only be written
	// through the ledger.
	Amount decimal.Decimal
}

// Adjustments are the invoice-level values applied on top of the line items.
type Adjustments struct {
	// Discount reduces the taxable base.
	Discount decimal.Decimal

	// Shipping is added to the taxable base (shipping is taxed).
	Shipping decimal.Decimal

	// TaxRate is a percentage, e.g. 10 for 10%.
	TaxRate decimal.Decimal

	// AmountPaid is subtracted from the total to get the balance due.
	AmountPaid decimal.Decimal
}

// Totals holds the derived money figures of an invoice.
// All fields are recomputed together; none is ever set on its own.
type Totals struct {
	Subtotal   decimal.Decimal
	Taxable    decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	BalanceDue decimal.Decimal // may be negative when overpaid
}

// Invoice represents a billing document issued to a client.
type Invoice struct {
	// ID is the unique identifier for the invoice (UUID format).
	ID string

	// Number is the human readable invoice number (e.g., "INV-0042").
	Number string

	ClientName    string
	ClientEmail   string
	ClientAddress string
	ShipToAddress string

	// IssueDate and DueDate are calendar dates in YYYY-MM-DD form.
	IssueDate string
	DueDate   string

	PaymentTerms string
	PONumber     string
	Status       Status

	// Items are kept in display order.
	Items []LineItem

	Headers  HeaderSchema
	Currency string

	Adjustments
	Totals Totals

	Notes string
	Terms string

	// CreatedBy is the user ID of whoever first saved the invoice, if known.
	CreatedBy string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Clone returns a deep copy of the invoice.
func (inv *Invoice) Clone() *Invoice {
	c := *inv
	c.Items = append([]LineItem(nil), inv.Items...)
	return &c
}
