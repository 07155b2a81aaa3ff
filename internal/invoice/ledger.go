package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/models"
)

// ItemField names an editable field of a line item.
type ItemField string

const (
	FieldDescription ItemField = "description"
	FieldQuantity    ItemField = "quantity"
	FieldUnit        ItemField = "unit"
	FieldRate        ItemField = "rate"
	FieldAmount      ItemField = "amount"
)

// IDFunc generates identifiers for new records.
type IDFunc func() string

// Ledger is the ordered collection of line items of one invoice.
// Every item's Amount is kept equal to Quantity × Rate.
type Ledger struct {
	items []models.LineItem
	newID IDFunc
}

// NewLedger creates a ledger holding a copy of items.
// Amounts are recomputed, missing IDs are assigned, and negative quantities or
// rates are rejected.
func NewLedger(newID IDFunc, items ...models.LineItem) (*Ledger, error) {
	l := &Ledger{items: make([]models.LineItem, 0, len(items)), newID: newID}
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if item.Quantity.IsNegative() {
			return nil, invalid("items", "item %d has a negative quantity", i+1)
		}
		if item.Rate.IsNegative() {
			return nil, invalid("items", "item %d has a negative rate", i+1)
		}
		if item.ID == "" {
			item.ID = newID()
		}
		if seen[item.ID] {
			return nil, invalid("items", "item %d repeats id %q", i+1, item.ID)
		}
		seen[item.ID] = true
		item.Amount = calculator.LineAmount(item.Quantity, item.Rate)
		l.items = append(l.items, item)
	}
	return l, nil
}

// Add appends a default row: quantity 1, unit "pcs", rate 0.
func (l *Ledger) Add() models.LineItem {
	item := models.LineItem{
		ID:       l.newID(),
		Quantity: decimal.NewFromInt(1),
		Unit:     DefaultUnit,
		Rate:     decimal.Zero,
		Amount:   decimal.Zero,
	}
	l.items = append(l.items, item)
	return item
}

// Update sets one field of the item with the given ID.
// Quantity and rate are parsed as decimals and must not be negative; changing
// either recomputes the amount. The amount itself cannot be set.
func (l *Ledger) Update(id string, field ItemField, value string) (models.LineItem, error) {
	idx := l.index(id)
	if idx < 0 {
		return models.LineItem{}, ErrItemNotFound
	}
	item := l.items[idx]

	switch field {
	case FieldDescription:
		item.Description = value
	case FieldUnit:
		item.Unit = value
	case FieldQuantity:
		qty, err := parseNonNegative(string(field), value)
		if err != nil {
			return models.LineItem{}, err
		}
		item.Quantity = qty
		item.Amount = calculator.LineAmount(item.Quantity, item.Rate)
	case FieldRate:
		rate, err := parseNonNegative(string(field), value)
		if err != nil {
			return models.LineItem{}, err
		}
		item.Rate = rate
		item.Amount = calculator.LineAmount(item.Quantity, item.Rate)
	case FieldAmount:
		return models.LineItem{}, ErrDerivedField
	default:
		return models.LineItem{}, invalid("field", "unknown line item field %q", field)
	}

	l.items[idx] = item
	return item, nil
}

// Remove deletes the item with the given ID and reports whether anything was removed.
// Removing the last remaining item, or an unknown ID, is a no-op.
func (l *Ledger) Remove(id string) bool {
	if len(l.items) <= 1 {
		return false
	}
	idx := l.index(id)
	if idx < 0 {
		return false
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return true
}

// Items returns a copy of the items in order.
func (l *Ledger) Items() []models.LineItem {
	return append([]models.LineItem(nil), l.items...)
}

// Len returns the number of items.
func (l *Ledger) Len() int {
	return len(l.items)
}

func (l *Ledger) index(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

func parseNonNegative(field, value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, invalid(field, "%q is not a number", value)
	}
	if d.IsNegative() {
		return decimal.Zero, invalid(field, "must not be negative")
	}
	return d, nil
}
