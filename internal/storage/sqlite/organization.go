package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// GetOrganization returns the stored organization profile.
func (s *SQLiteStore) GetOrganization(ctx context.Context) (*models.Organization, error) {
	var org models.Organization
	err := s.db.QueryRowContext(ctx,
		`SELECT name, address, phone, email, website, tax_id, logo
		 FROM organization WHERE id = 1`,
	).Scan(&org.Name, &org.Address, &org.Phone, &org.Email, &org.Website, &org.TaxID, &org.Logo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("organization: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

// SaveOrganization upserts the single organization row.
func (s *SQLiteStore) SaveOrganization(ctx context.Context, org *models.Organization) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO organization (id, name, address, phone, email, website, tax_id, logo)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, address = excluded.address, phone = excluded.phone,
			email = excluded.email, website = excluded.website, tax_id = excluded.tax_id,
			logo = excluded.logo`,
		org.Name, org.Address, org.Phone, org.Email, org.Website, org.TaxID, org.Logo,
	)
	if err != nil {
		return fmt.Errorf("failed to save organization: %w", err)
	}
	return nil
}

// ListCurrencies returns custom currencies in registration order.
func (s *SQLiteStore) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT code, label, symbol FROM currencies ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []models.Currency
	for rows.Next() {
		var c models.Currency
		if err := rows.Scan(&c.Code, &c.Label, &c.Symbol); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate currencies: %w", err)
	}
	return currencies, nil
}

// SaveCurrency upserts a currency by code. Re-saving keeps the original position.
func (s *SQLiteStore) SaveCurrency(ctx context.Context, c models.Currency) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO currencies (code, label, symbol, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET label = excluded.label, symbol = excluded.symbol`,
		c.Code, c.Label, c.Symbol, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save currency: %w", err)
	}
	return nil
}
