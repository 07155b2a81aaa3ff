package models

import "fmt"

// HeaderField names one column of the line-item table.
type HeaderField string

const (
	HeaderItem     HeaderField = "item"
	HeaderQuantity HeaderField = "quantity"
	HeaderUnit     HeaderField = "unit"
	HeaderRate     HeaderField = "rate"
	HeaderAmount   HeaderField = "amount"
)

// HeaderFields lists the columns in table order.
var HeaderFields = []HeaderField{HeaderItem, HeaderQuantity, HeaderUnit, HeaderRate, HeaderAmount}

// HeaderSchema holds the customizable column labels of the line-item table.
// Labels are display text only and never take part in any computation.
type HeaderSchema struct {
	Item     string
	Quantity string
	Unit     string
	Rate     string
	Amount   string
}

// DefaultHeaderSchema returns the stock labels.
func DefaultHeaderSchema() HeaderSchema {
	return HeaderSchema{
		Item:     "Item",
		Quantity: "Quantity",
		Unit:     "Unit",
		Rate:     "Rate",
		Amount:   "Amount",
	}
}

// Set renames one column.
func (h *HeaderSchema) Set(field HeaderField, value string) error {
	switch field {
	case HeaderItem:
		h.Item = value
	case HeaderQuantity:
		h.Quantity = value
	case HeaderUnit:
		h.Unit = value
	case HeaderRate:
		h.Rate = value
	case HeaderAmount:
		h.Amount = value
	default:
		return fmt.Errorf("unknown header field %q", field)
	}
	return nil
}

// Label returns the label of one column.
func (h HeaderSchema) Label(field HeaderField) string {
	switch field {
	case HeaderItem:
		return h.Item
	case HeaderQuantity:
		return h.Quantity
	case HeaderUnit:
		return h.Unit
	case HeaderRate:
		return h.Rate
	case HeaderAmount:
		return h.Amount
	}
	return ""
}

// Labels returns all five labels in table order.
func (h HeaderSchema) Labels() [5]string {
	return [5]string{h.Item, h.Quantity, h.Unit, h.Rate, h.Amount}
}
