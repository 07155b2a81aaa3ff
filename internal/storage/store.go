// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/invoicer/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// InvoiceFilter narrows ListInvoices results. The zero value matches everything.
type InvoiceFilter struct {
	// Status restricts results to one status; empty means all.
	Status models.Status

	// Search matches case-insensitively against client name and invoice number.
	Search string
}

// Store defines the interface for invoice storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateInvoice persists a new invoice.
	// The invoice.ID field will be populated by the store when empty.
	CreateInvoice(ctx context.Context, inv *models.Invoice) error

	// GetInvoice retrieves an invoice with its line items.
	// Returns an error wrapping ErrNotFound if the invoice does not exist.
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)

	// ListInvoices returns invoices matching the filter, newest first.
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]*models.Invoice, error)

	// UpdateInvoice replaces an existing invoice and its line items.
	// Returns an error wrapping ErrNotFound if the invoice does not exist.
	UpdateInvoice(ctx context.Context, inv *models.Invoice) error

	// DeleteInvoice removes an invoice and its line items.
	// Returns an error wrapping ErrNotFound if the invoice does not exist.
	DeleteInvoice(ctx context.Context, id string) error

	// NextInvoiceSequence atomically increments and returns the invoice number sequence.
	NextInvoiceSequence(ctx context.Context) (int64, error)

	// GetOrganization returns the saved organization profile.
	// Returns an error wrapping ErrNotFound if none was saved yet.
	GetOrganization(ctx context.Context) (*models.Organization, error)

	// SaveOrganization creates or replaces the organization profile.
	SaveOrganization(ctx context.Context, org *models.Organization) error

	// ListCurrencies returns the custom currencies registered at runtime.
	ListCurrencies(ctx context.Context) ([]models.Currency, error)

	// SaveCurrency creates or replaces a custom currency.
	SaveCurrency(ctx context.Context, c models.Currency) error

	// Close releases any resources held by the store.
	Close() error
}
