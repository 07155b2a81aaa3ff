package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/currency"
	"github.com/mmynk/invoicer/internal/models"
)

const (
	// DefaultUnit is the unit label of a fresh line item.
	DefaultUnit = "pcs"

	DefaultPaymentTerms = "Net 30"
	DefaultTerms        = "Payment is due within 30 days of invoice date. Late fees may apply."
)

// Units are the unit labels offered for line items. Any other label is accepted.
var Units = []string{
	"pcs", "pieces", "units", "items",
	"hrs", "hours", "days", "weeks", "months",
	"kg", "lbs", "grams", "tons",
	"m", "ft", "cm", "inches", "yards",
	"liters", "gallons", "ml", "cups",
	"sqft", "sqm", "acres",
	"sessions", "meetings", "calls",
	"licenses", "subscriptions", "users",
}

// Defaults are the values a new draft starts with.
type Defaults struct {
	Currency     string
	TaxRate      decimal.Decimal
	PaymentTerms string
	Terms        string
	Headers      models.HeaderSchema
}

// StandardDefaults returns USD, 10% tax, Net 30 and the stock headers.
func StandardDefaults() Defaults {
	return Defaults{
		Currency:     currency.DefaultCode,
		TaxRate:      decimal.NewFromInt(10),
		PaymentTerms: DefaultPaymentTerms,
		Terms:        DefaultTerms,
		Headers:      models.DefaultHeaderSchema(),
	}
}
