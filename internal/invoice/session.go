// Package invoice implements the invoice aggregate: the line-item ledger, the
// editing session that keeps totals consistent, and invoice numbering.
package invoice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/currency"
	"github.com/mmynk/invoicer/internal/models"
)

const dateLayout = "2006-01-02"

// Saver persists invoices. storage.Store satisfies it.
type Saver interface {
	// CreateInvoice persists a new invoice; the ID is assigned by the store when empty.
	CreateInvoice(ctx context.Context, inv *models.Invoice) error

	// UpdateInvoice replaces an existing invoice.
	UpdateInvoice(ctx context.Context, inv *models.Invoice) error
}

// Parties groups the client-side contact fields.
type Parties struct {
	ClientName    string
	ClientEmail   string
	ClientAddress string
	ShipToAddress string
}

// Session is one editing pass over an invoice.
// Every mutation recomputes the totals in full. Nothing reaches the store
// until Commit is called. A Session is not safe for concurrent use.
type Session struct {
	inv      *models.Invoice
	ledger   *Ledger
	isNew    bool
	saver    Saver
	numberer Numberer
	clock    func() time.Time
	newID    IDFunc
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for dates and timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

// WithIDFunc overrides the generator used for line item IDs.
func WithIDFunc(newID IDFunc) Option {
	return func(s *Session) { s.newID = newID }
}

func newSession(saver Saver, numberer Numberer, opts []Option) *Session {
	s := &Session{
		saver:    saver,
		numberer: numberer,
		clock:    time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSession opens a draft invoice with one default line item.
func NewSession(saver Saver, numberer Numberer, defaults Defaults, opts ...Option) *Session {
	s := newSession(saver, numberer, opts)
	s.isNew = true
	s.inv = &models.Invoice{
		IssueDate:    s.clock().Format(dateLayout),
		PaymentTerms: defaults.PaymentTerms,
		Status:       models.StatusDraft,
		Headers:      defaults.Headers,
		Currency:     currency.Normalize(defaults.Currency),
		Adjustments: models.Adjustments{
			Discount:   decimal.Zero,
			Shipping:   decimal.Zero,
			TaxRate:    defaults.TaxRate,
			AmountPaid: decimal.Zero,
		},
		Terms: defaults.Terms,
	}
	s.ledger, _ = NewLedger(s.newID)
	s.ledger.Add()
	s.recalculate()
	return s
}

// EditSession opens a session over a persisted invoice.
// The invoice is copied; the caller's value is never modified.
func EditSession(saver Saver, existing *models.Invoice, opts ...Option) (*Session, error) {
	s := newSession(saver, nil, opts)
	s.inv = existing.Clone()
	ledger, err := NewLedger(s.newID, s.inv.Items...)
	if err != nil {
		return nil, err
	}
	s.ledger = ledger
	s.recalculate()
	return s, nil
}

func (s *Session) recalculate() {
	s.inv.Items = s.ledger.Items()
	s.inv.Totals = calculator.CalculateTotals(s.inv.Items, s.inv.Adjustments)
}

// Invoice returns a snapshot of the invoice being edited.
func (s *Session) Invoice() *models.Invoice {
	return s.inv.Clone()
}

// Totals returns the current derived figures.
func (s *Session) Totals() models.Totals {
	return s.inv.Totals
}

// IsNew reports whether the invoice has never been committed.
func (s *Session) IsNew() bool {
	return s.isNew
}

// AddItem appends a default line item.
func (s *Session) AddItem() models.LineItem {
	item := s.ledger.Add()
	s.recalculate()
	return item
}

// UpdateItem sets one field of a line item.
func (s *Session) UpdateItem(id string, field ItemField, value string) (models.LineItem, error) {
	item, err := s.ledger.Update(id, field, value)
	if err != nil {
		return models.LineItem{}, err
	}
	s.recalculate()
	return item, nil
}

// RemoveItem deletes a line item. Removing the last item is a no-op.
func (s *Session) RemoveItem(id string) bool {
	removed := s.ledger.Remove(id)
	if removed {
		s.recalculate()
	}
	return removed
}

// ReplaceItems swaps the whole ledger, e.g. when a client submits every row at once.
func (s *Session) ReplaceItems(items []models.LineItem) error {
	ledger, err := NewLedger(s.newID, items...)
	if err != nil {
		return err
	}
	s.ledger = ledger
	s.recalculate()
	return nil
}

func (s *Session) setAdjustment(field string, dst *decimal.Decimal, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid(field, "must not be negative")
	}
	*dst = v
	s.recalculate()
	return nil
}

// SetDiscount sets the discount applied before tax.
func (s *Session) SetDiscount(v decimal.Decimal) error {
	return s.setAdjustment("discount", &s.inv.Discount, v)
}

// SetShipping sets the shipping charge, which is taxed.
func (s *Session) SetShipping(v decimal.Decimal) error {
	return s.setAdjustment("shipping", &s.inv.Shipping, v)
}

// SetTaxRate sets the tax percentage.
func (s *Session) SetTaxRate(v decimal.Decimal) error {
	return s.setAdjustment("tax_rate", &s.inv.TaxRate, v)
}

// SetAmountPaid records how much has already been paid.
func (s *Session) SetAmountPaid(v decimal.Decimal) error {
	return s.setAdjustment("amount_paid", &s.inv.AmountPaid, v)
}

// SetHeader renames one column of the line-item table.
func (s *Session) SetHeader(field models.HeaderField, label string) error {
	if err := s.inv.Headers.Set(field, label); err != nil {
		return invalid("headers", "%v", err)
	}
	return nil
}

// SetHeaders replaces all column labels.
func (s *Session) SetHeaders(h models.HeaderSchema) {
	s.inv.Headers = h
}

// SetCurrency selects the currency code. Unregistered codes are allowed.
func (s *Session) SetCurrency(code string) error {
	code = currency.Normalize(code)
	if code == "" {
		return invalid("currency", "must not be empty")
	}
	s.inv.Currency = code
	return nil
}

// SetStatus sets the status directly; any known status is accepted.
func (s *Session) SetStatus(status models.Status) error {
	st, err := models.ParseStatus(string(status))
	if err != nil {
		return invalid("status", "%v", err)
	}
	s.inv.Status = st
	return nil
}

// SetParties sets the bill-to and ship-to details.
func (s *Session) SetParties(p Parties) {
	s.inv.ClientName = p.ClientName
	s.inv.ClientEmail = p.ClientEmail
	s.inv.ClientAddress = p.ClientAddress
	s.inv.ShipToAddress = p.ShipToAddress
}

// SetDates sets the issue and due dates (YYYY-MM-DD, either may be empty).
func (s *Session) SetDates(issue, due string) error {
	if err := checkDate("issue_date", issue); err != nil {
		return err
	}
	if err := checkDate("due_date", due); err != nil {
		return err
	}
	s.inv.IssueDate = issue
	s.inv.DueDate = due
	return nil
}

// SetPaymentTerms sets the payment terms label (e.g., "Net 30").
func (s *Session) SetPaymentTerms(terms string) {
	s.inv.PaymentTerms = terms
}

// SetPONumber sets the purchase order reference.
func (s *Session) SetPONumber(po string) {
	s.inv.PONumber = po
}

// SetNotes sets the free-text notes footer.
func (s *Session) SetNotes(notes string) {
	s.inv.Notes = notes
}

// SetTerms sets the terms footer.
func (s *Session) SetTerms(terms string) {
	s.inv.Terms = terms
}

// SetCreatedBy records who first saved the invoice. Ignored after the first commit.
func (s *Session) SetCreatedBy(userID string) {
	if s.isNew {
		s.inv.CreatedBy = userID
	}
}

// Validate checks the preconditions of a save: a client name and at least one item.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.inv.ClientName) == "" {
		return invalid("client_name", "is required")
	}
	if s.ledger.Len() == 0 {
		return invalid("items", "at least one line item is required")
	}
	return nil
}

// Commit validates the invoice and writes it to the store.
// New invoices get an invoice number first. Store errors are returned unchanged.
func (s *Session) Commit(ctx context.Context) (*models.Invoice, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.recalculate()

	now := s.clock().Unix()
	inv := s.inv.Clone()
	inv.UpdatedAt = now

	if s.isNew {
		if inv.Number == "" {
			number, err := s.numberer.Next(ctx)
			if err != nil {
				return nil, err
			}
			inv.Number = number
		}
		inv.CreatedAt = now
		if err := s.saver.CreateInvoice(ctx, inv); err != nil {
			return nil, err
		}
		s.isNew = false
	} else {
		if err := s.saver.UpdateInvoice(ctx, inv); err != nil {
			return nil, err
		}
	}

	s.inv = inv.Clone()
	return inv, nil
}

func checkDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return invalid(field, "%q is not a YYYY-MM-DD date", value)
	}
	return nil
}
