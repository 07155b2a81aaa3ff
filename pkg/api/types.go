// Package api defines the request and response messages of the invoicer RPC
// services. Messages are plain Go structs carried as JSON; money values are
// decimal strings on the wire.
package api

import "github.com/shopspring/decimal"

// LineItem is a billable row. Amount is ignored on input and always
// recomputed from Quantity and Rate.
type LineItem struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Adjustments are the invoice-level money inputs. TaxRate is a percentage.
type Adjustments struct {
	Discount   decimal.Decimal `json:"discount"`
	Shipping   decimal.Decimal `json:"shipping"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// Totals are the derived money figures at full precision.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Taxable    decimal.Decimal `json:"taxable"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

// Headers are the column labels of the line-item table.
type Headers struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Rate     string `json:"rate"`
	Amount   string `json:"amount"`
}

// InvoiceInput carries the editable fields of an invoice.
// On create, empty fields and nil pointers keep the configured defaults.
// On update, the input replaces every editable field except where nil.
type InvoiceInput struct {
	ClientName    string       `json:"client_name"`
	ClientEmail   string       `json:"client_email,omitempty"`
	ClientAddress string       `json:"client_address,omitempty"`
	ShipToAddress string       `json:"ship_to_address,omitempty"`
	IssueDate     string       `json:"issue_date,omitempty"`
	DueDate       string       `json:"due_date,omitempty"`
	PaymentTerms  string       `json:"payment_terms,omitempty"`
	PONumber      string       `json:"po_number,omitempty"`
	Status        string       `json:"status,omitempty"`
	Currency      string       `json:"currency,omitempty"`
	Headers       *Headers     `json:"headers,omitempty"`
	Items         []LineItem   `json:"items,omitempty"`
	Adjustments   *Adjustments `json:"adjustments,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	Terms         string       `json:"terms,omitempty"`
}

// Invoice is a persisted invoice with its derived totals.
type Invoice struct {
	ID            string      `json:"id"`
	Number        string      `json:"number"`
	ClientName    string      `json:"client_name"`
	ClientEmail   string      `json:"client_email"`
	ClientAddress string      `json:"client_address"`
	ShipToAddress string      `json:"ship_to_address"`
	IssueDate     string      `json:"issue_date"`
	DueDate       string      `json:"due_date"`
	PaymentTerms  string      `json:"payment_terms"`
	PONumber      string      `json:"po_number"`
	Status        string      `json:"status"`
	Currency      string      `json:"currency"`
	Headers       Headers     `json:"headers"`
	Items         []LineItem  `json:"items"`
	Adjustments   Adjustments `json:"adjustments"`
	Totals        Totals      `json:"totals"`
	Notes         string      `json:"notes"`
	Terms         string      `json:"terms"`
	CreatedBy     string      `json:"created_by,omitempty"`
	CreatedAt     int64       `json:"created_at"`
	UpdatedAt     int64       `json:"updated_at"`
}

type CalculateTotalsRequest struct {
	Items       []LineItem  `json:"items"`
	Adjustments Adjustments `json:"adjustments"`
}

type CalculateTotalsResponse struct {
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}

type CreateInvoiceRequest struct {
	Invoice InvoiceInput `json:"invoice"`
}

type CreateInvoiceResponse struct {
	Invoice Invoice `json:"invoice"`
}

type GetInvoiceRequest struct {
	ID string `json:"id"`
}

type GetInvoiceResponse struct {
	Invoice Invoice `json:"invoice"`
}

// ListInvoicesRequest filters the invoice list. Status is one status or
// "all"/empty; Search matches client name and invoice number.
type ListInvoicesRequest struct {
	Status string `json:"status,omitempty"`
	Search string `json:"search,omitempty"`
}

type ListInvoicesResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type UpdateInvoiceRequest struct {
	ID      string       `json:"id"`
	Invoice InvoiceInput `json:"invoice"`
}

type UpdateInvoiceResponse struct {
	Invoice Invoice `json:"invoice"`
}

type SetInvoiceStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SetInvoiceStatusResponse struct {
	Invoice Invoice `json:"invoice"`
}

type DeleteInvoiceRequest struct {
	ID string `json:"id"`
}

type DeleteInvoiceResponse struct{}

// RenderInvoiceRequest renders a stored invoice by ID, or an unsaved draft
// when Draft is set instead.
type RenderInvoiceRequest struct {
	ID     string        `json:"id,omitempty"`
	Draft  *InvoiceInput `json:"draft,omitempty"`
	Format string        `json:"format"`
}

type RenderInvoiceResponse struct {
	ContentType  string `json:"content_type"`
	Filename     string `json:"filename"`
	Body         []byte `json:"body"`
	LogoFallback bool   `json:"logo_fallback,omitempty"`
}

type GetSummaryRequest struct{}

type StatusSummary struct {
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

type GetSummaryResponse struct {
	InvoiceCount int                      `json:"invoice_count"`
	TotalRevenue decimal.Decimal          `json:"total_revenue"`
	PaidCount    int                      `json:"paid_count"`
	Pending      decimal.Decimal          `json:"pending"`
	Overdue      decimal.Decimal          `json:"overdue"`
	Outstanding  decimal.Decimal          `json:"outstanding"`
	ByStatus     map[string]StatusSummary `json:"by_status"`
}

type Currency struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Symbol string `json:"symbol"`
}

type ListCurrenciesRequest struct{}

type ListCurrenciesResponse struct {
	Currencies []Currency `json:"currencies"`
}

type AddCurrencyRequest struct {
	Code   string `json:"code"`
	Label  string `json:"label,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

type AddCurrencyResponse struct {
	Currency Currency `json:"currency"`
}

type Organization struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	TaxID   string `json:"tax_id"`
	Logo    string `json:"logo,omitempty"`
}

type GetOrganizationRequest struct{}

type GetOrganizationResponse struct {
	Organization Organization `json:"organization"`
}

type UpdateOrganizationRequest struct {
	Organization Organization `json:"organization"`
}

type UpdateOrganizationResponse struct {
	Organization Organization `json:"organization"`
}

type ListUnitsRequest struct{}

type ListUnitsResponse struct {
	Units       []string `json:"units"`
	DefaultUnit string   `json:"default_unit"`
}
