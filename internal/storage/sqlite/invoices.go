package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

const invoiceColumns = `id, number, client_name, client_email, client_address, ship_to_address,
	issue_date, due_date, payment_terms, po_number, status,
	header_item, header_quantity, header_unit, header_rate, header_amount,
	currency, discount, shipping, tax_rate, amount_paid,
	subtotal, tax, total, balance_due,
	notes, terms, created_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var status string
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.ClientName, &inv.ClientEmail, &inv.ClientAddress, &inv.ShipToAddress,
		&inv.IssueDate, &inv.DueDate, &inv.PaymentTerms, &inv.PONumber, &status,
		&inv.Headers.Item, &inv.Headers.Quantity, &inv.Headers.Unit, &inv.Headers.Rate, &inv.Headers.Amount,
		&inv.Currency, &inv.Discount, &inv.Shipping, &inv.TaxRate, &inv.AmountPaid,
		&inv.Totals.Subtotal, &inv.Totals.Tax, &inv.Totals.Total, &inv.Totals.BalanceDue,
		&inv.Notes, &inv.Terms, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = models.Status(status)
	inv.Totals.Taxable = inv.Totals.Subtotal.Sub(inv.Discount).Add(inv.Shipping)
	return inv, nil
}

// CreateInvoice persists a new invoice and its line items in one transaction.
func (s *SQLiteStore) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	// Generate IDs if not set
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}
	if inv.UpdatedAt == 0 {
		inv.UpdatedAt = inv.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (`+invoiceColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Number, inv.ClientName, inv.ClientEmail, inv.ClientAddress, inv.ShipToAddress,
		inv.IssueDate, inv.DueDate, inv.PaymentTerms, inv.PONumber, string(inv.Status),
		inv.Headers.Item, inv.Headers.Quantity, inv.Headers.Unit, inv.Headers.Rate, inv.Headers.Amount,
		inv.Currency, inv.Discount, inv.Shipping, inv.TaxRate, inv.AmountPaid,
		inv.Totals.Subtotal, inv.Totals.Tax, inv.Totals.Total, inv.Totals.BalanceDue,
		inv.Notes, inv.Terms, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	if err := insertLineItems(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertLineItems(ctx context.Context, tx *sql.Tx, inv *models.Invoice) error {
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO line_items (id, invoice_id, position, description, quantity, unit, rate, amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, inv.ID, i, item.Description, item.Quantity, item.Unit, item.Rate, item.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}
	return nil
}

// GetInvoice retrieves an invoice by ID, including its line items in order.
func (s *SQLiteStore) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := scanInvoice(s.db.QueryRowContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if inv.Items, err = s.lineItems(ctx, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *SQLiteStore) lineItems(ctx context.Context, invoiceID string) ([]models.LineItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, quantity, unit, rate, amount
		 FROM line_items WHERE invoice_id = ? ORDER BY position`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ID, &item.Description, &item.Quantity, &item.Unit, &item.Rate, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}
	return items, nil
}

// ListInvoices returns invoices matching the filter, newest first.
func (s *SQLiteStore) ListInvoices(ctx context.Context, filter storage.InvoiceFilter) ([]*models.Invoice, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		where = append(where, `(lower(client_name) LIKE ? ESCAPE '\' OR lower(number) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := "SELECT " + invoiceColumns + " FROM invoices"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, number DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	// Close before loading items: the pool holds a single connection.
	rows.Close()

	for _, inv := range invoices {
		if inv.Items, err = s.lineItems(ctx, inv.ID); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// UpdateInvoice replaces an invoice row and all of its line items.
func (s *SQLiteStore) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	if inv.UpdatedAt == 0 {
		inv.UpdatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE invoices SET
			number = ?, client_name = ?, client_email = ?, client_address = ?, ship_to_address = ?,
			issue_date = ?, due_date = ?, payment_terms = ?, po_number = ?, status = ?,
			header_item = ?, header_quantity = ?, header_unit = ?, header_rate = ?, header_amount = ?,
			currency = ?, discount = ?, shipping = ?, tax_rate = ?, amount_paid = ?,
			subtotal = ?, tax = ?, total = ?, balance_due = ?,
			notes = ?, terms = ?, updated_at = ?
		 WHERE id = ?`,
		inv.Number, inv.ClientName, inv.ClientEmail, inv.ClientAddress, inv.ShipToAddress,
		inv.IssueDate, inv.DueDate, inv.PaymentTerms, inv.PONumber, string(inv.Status),
		inv.Headers.Item, inv.Headers.Quantity, inv.Headers.Unit, inv.Headers.Rate, inv.Headers.Amount,
		inv.Currency, inv.Discount, inv.Shipping, inv.TaxRate, inv.AmountPaid,
		inv.Totals.Subtotal, inv.Totals.Tax, inv.Totals.Total, inv.Totals.BalanceDue,
		inv.Notes, inv.Terms, inv.UpdatedAt,
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("invoice %s: %w", inv.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM line_items WHERE invoice_id = ?", inv.ID); err != nil {
		return fmt.Errorf("failed to delete line items: %w", err)
	}
	if err := insertLineItems(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteInvoice deletes an invoice; its line items cascade.
func (s *SQLiteStore) DeleteInvoice(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("invoice %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
