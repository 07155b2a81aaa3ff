// Package currency provides the in-memory currency registry used to format amounts.
package currency

import (
	"strings"
	"sync"

	"github.com/mmynk/invoicer/internal/models"
)

// DefaultCode is the currency new invoices start with.
const DefaultCode = "USD"

// Seed is the built-in currency set.
var Seed = []models.Currency{
	{Code: "USD", Label: "USD ($)", Symbol: "$"},
	{Code: "EUR", Label: "EUR (€)", Symbol: "€"},
	{Code: "GBP", Label: "GBP (£)", Symbol: "£"},
	{Code: "CAD", Label: "CAD ($)", Symbol: "C$"},
	{Code: "JPY", Label: "JPY (¥)", Symbol: "¥"},
	{Code: "AUD", Label: "AUD ($)", Symbol: "A$"},
	{Code: "INR", Label: "INR (₹)", Symbol: "₹"},
	{Code: "CHF", Label: "CHF", Symbol: "CHF"},
}

// Registry maps currency codes to display labels and symbols.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]models.Currency
	order   []string
}

// NewRegistry creates a registry seeded with Seed.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]models.Currency, len(Seed))}
	for _, c := range Seed {
		r.Add(c.Code, c.Label, c.Symbol)
	}
	return r
}

// Normalize trims and upper-cases a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Entry builds a normalized registry entry. Empty label or symbol fall back to the code.
func Entry(code, label, symbol string) models.Currency {
	code = Normalize(code)
	if strings.TrimSpace(label) == "" {
		label = code
	}
	if strings.TrimSpace(symbol) == "" {
		symbol = code
	}
	return models.Currency{Code: code, Label: label, Symbol: symbol}
}

// Add registers a currency, replacing any existing entry with the same code.
// The stored entry is returned.
func (r *Registry) Add(code, label, symbol string) models.Currency {
	c := Entry(code, label, symbol)
	code = c.Code

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[code]; !exists {
		r.order = append(r.order, code)
	}
	r.entries[code] = c
	return c
}

// Lookup returns the registered entry for code.
func (r *Registry) Lookup(code string) (models.Currency, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[Normalize(code)]
	return c, ok
}

// Symbol returns the display symbol for code.
// Unknown codes are echoed back unchanged.
func (r *Registry) Symbol(code string) string {
	if c, ok := r.Lookup(code); ok {
		return c.Symbol
	}
	return code
}

// List returns all entries, seed currencies first, then in registration order.
func (r *Registry) List() []models.Currency {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Currency, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.entries[code])
	}
	return out
}
