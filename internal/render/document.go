// Package render turns an invoice into a print-ready document.
//
// Rendering happens in two steps. Build lays the invoice out as a Document,
// a plain value holding every string that will appear on the page. A
// serializer (HTML or PDF) then writes that Document out and owns escaping of
// user-supplied text. Both steps are deterministic: the same invoice,
// organization and logo always produce the same bytes.
package render

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/invoice"
	"github.com/mmynk/invoicer/internal/models"
)

const (
	// DefaultNotes is printed when an invoice has no notes.
	DefaultNotes = "Notes - any relevant information not already covered"

	// ShipToPlaceholder is printed when an invoice has no ship-to address.
	ShipToPlaceholder = "(optional)"

	// LogoPlaceholder is the text of the empty logo box.
	LogoPlaceholder = "LOGO"
)

// SymbolLookup resolves a currency code to its display symbol.
// currency.Registry satisfies it.
type SymbolLookup interface {
	Symbol(code string) string
}

// Document is the laid-out content of one invoice page.
type Document struct {
	Title     string
	IssueDate string

	// Currency is the invoice currency code; Symbol prefixes every money value.
	Currency string
	Symbol   string

	// Logo is nil when the placeholder box should be drawn instead.
	Logo         *Logo
	Organization OrganizationBlock

	// Meta holds the right-aligned invoice details in print order.
	Meta []MetaLine

	BillTo Party
	ShipTo Party

	Columns [5]string
	Rows    []Row

	Totals []TotalLine

	Notes Section
	Terms Section
}

// OrganizationBlock is the issuer contact block next to the logo.
type OrganizationBlock struct {
	Name    string
	Address string
	Contact string // "phone | email"
	Website string // empty when not set
}

// MetaLine is one "Label Value" row of invoice details.
type MetaLine struct {
	Label string
	Value string
}

// Party is a bill-to or ship-to column.
type Party struct {
	Heading     string
	Name        string
	Address     string
	Placeholder bool // Address holds placeholder text
}

// Row is one formatted line item.
type Row struct {
	Description string
	Quantity    string
	Unit        string
	Rate        string
	Amount      string
}

// TotalKind classifies a totals line for styling.
type TotalKind string

const (
	TotalPlain    TotalKind = "plain"
	TotalDiscount TotalKind = "discount"
	TotalGrand    TotalKind = "grand"
	TotalBalance  TotalKind = "balance"
)

// TotalLine is one label/value row of the totals block.
type TotalLine struct {
	Label string
	Value string
	Kind  TotalKind
}

// Section is a titled footer column.
type Section struct {
	Title string
	Body  string
}

// FormatMoney prefixes the currency symbol to the value rounded to two places.
func FormatMoney(symbol string, v decimal.Decimal) string {
	return symbol + v.StringFixed(2)
}

// Build lays out an invoice. Totals are recomputed from the items and
// adjustments so the page can never disagree with the line items.
func Build(inv *models.Invoice, org models.Organization, logo *Logo, symbols SymbolLookup) Document {
	symbol := symbols.Symbol(inv.Currency)
	money := func(v decimal.Decimal) string { return FormatMoney(symbol, v) }
	totals := calculator.CalculateTotals(inv.Items, inv.Adjustments)

	doc := Document{
		Title:     "Invoice " + inv.Number,
		IssueDate: inv.IssueDate,
		Currency:  inv.Currency,
		Symbol:    symbol,
		Logo:      logo,
		Organization: OrganizationBlock{
			Name:    org.Name,
			Address: org.Address,
			Contact: org.Phone + " | " + org.Email,
			Website: org.Website,
		},
		Meta: []MetaLine{
			{Label: "#", Value: inv.Number},
			{Label: "Date:", Value: inv.IssueDate},
			{Label: "Payment Terms:", Value: inv.PaymentTerms},
			{Label: "Due Date:", Value: inv.DueDate},
		},
		BillTo: Party{
			Heading: "Bill To",
			Name:    inv.ClientName,
			Address: inv.ClientAddress,
		},
		ShipTo: Party{
			Heading: "Ship To",
			Address: inv.ShipToAddress,
		},
		Columns: inv.Headers.Labels(),
		Notes:   Section{Title: "Notes", Body: orDefault(inv.Notes, DefaultNotes)},
		Terms:   Section{Title: "Terms", Body: orDefault(inv.Terms, invoice.DefaultTerms)},
	}

	if inv.PONumber != "" {
		doc.Meta = append(doc.Meta, MetaLine{Label: "P.O. Number:", Value: inv.PONumber})
	}
	if strings.TrimSpace(doc.ShipTo.Address) == "" {
		doc.ShipTo.Address = ShipToPlaceholder
		doc.ShipTo.Placeholder = true
	}

	doc.Rows = make([]Row, len(inv.Items))
	for i, item := range inv.Items {
		doc.Rows[i] = Row{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			Unit:        item.Unit,
			Rate:        money(item.Rate),
			Amount:      money(calculator.LineAmount(item.Quantity, item.Rate)),
		}
	}

	doc.Totals = append(doc.Totals, TotalLine{Label: "Subtotal:", Value: money(totals.Subtotal), Kind: TotalPlain})
	if !inv.Discount.IsZero() {
		doc.Totals = append(doc.Totals, TotalLine{Label: "Discount:", Value: "-" + money(inv.Discount), Kind: TotalDiscount})
	}
	if !inv.Shipping.IsZero() {
		doc.Totals = append(doc.Totals, TotalLine{Label: "Shipping:", Value: money(inv.Shipping), Kind: TotalPlain})
	}
	doc.Totals = append(doc.Totals,
		TotalLine{Label: "Tax (" + inv.TaxRate.String() + "%):", Value: money(totals.Tax), Kind: TotalPlain},
		TotalLine{Label: "Total:", Value: money(totals.Total), Kind: TotalGrand},
	)
	if inv.AmountPaid.IsPositive() {
		doc.Totals = append(doc.Totals,
			TotalLine{Label: "Amount Paid:", Value: money(inv.AmountPaid), Kind: TotalPlain},
			TotalLine{Label: "Balance Due:", Value: money(totals.BalanceDue), Kind: TotalBalance},
		)
	}

	return doc
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
