package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/currency"
	"github.com/mmynk/invoicer/internal/invoice"
	"github.com/mmynk/invoicer/internal/render"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/pkg/api"
	"github.com/mmynk/invoicer/pkg/api/apiconnect"
)

// SettingsService implements the Connect SettingsService: currencies,
// the organization profile and the unit list.
type SettingsService struct {
	apiconnect.UnimplementedSettingsServiceHandler
	store      storage.Store
	currencies *currency.Registry
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store storage.Store, currencies *currency.Registry) *SettingsService {
	return &SettingsService{store: store, currencies: currencies}
}

// LoadCurrencies registers the persisted custom currencies.
// It is called once at startup.
func LoadCurrencies(ctx context.Context, store storage.Store, registry *currency.Registry) error {
	stored, err := store.ListCurrencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to load currencies: %w", err)
	}
	for _, c := range stored {
		registry.Add(c.Code, c.Label, c.Symbol)
	}
	slog.Info("Custom currencies loaded", "count", len(stored))
	return nil
}

func (s *SettingsService) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	entries := s.currencies.List()
	out := make([]api.Currency, len(entries))
	for i, c := range entries {
		out[i] = toAPICurrency(c)
	}
	return connect.NewResponse(&api.ListCurrenciesResponse{Currencies: out}), nil
}

// AddCurrency persists a custom currency, then makes it available to renders.
// Adding an existing code replaces its label and symbol.
func (s *SettingsService) AddCurrency(ctx context.Context, req *connect.Request[api.AddCurrencyRequest]) (*connect.Response[api.AddCurrencyResponse], error) {
	entry := currency.Entry(req.Msg.Code, req.Msg.Label, req.Msg.Symbol)
	if entry.Code == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("currency code is required"))
	}

	if err := s.store.SaveCurrency(ctx, entry); err != nil {
		slog.Error("AddCurrency failed", "code", entry.Code, "error", err)
		return nil, toConnectError(err)
	}
	c := s.currencies.Add(entry.Code, entry.Label, entry.Symbol)
	slog.Info("Currency registered", "code", c.Code, "symbol", c.Symbol)
	return connect.NewResponse(&api.AddCurrencyResponse{Currency: toAPICurrency(c)}), nil
}

func (s *SettingsService) GetOrganization(ctx context.Context, req *connect.Request[api.GetOrganizationRequest]) (*connect.Response[api.GetOrganizationResponse], error) {
	org, err := loadOrganization(ctx, s.store)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetOrganizationResponse{Organization: toAPIOrganization(org)}), nil
}

// UpdateOrganization saves the organization profile. A logo is validated and
// stored already fitted to the header box.
func (s *SettingsService) UpdateOrganization(ctx context.Context, req *connect.Request[api.UpdateOrganizationRequest]) (*connect.Response[api.UpdateOrganizationResponse], error) {
	org := toModelOrganization(req.Msg.Organization)
	org.Name = strings.TrimSpace(org.Name)
	if org.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("organization name is required"))
	}

	if strings.TrimSpace(org.Logo) != "" {
		logo, err := render.DecodeLogo(org.Logo)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid logo: %w", err))
		}
		org.Logo = logo.DataURI()
	} else {
		org.Logo = ""
	}

	if err := s.store.SaveOrganization(ctx, &org); err != nil {
		slog.Error("UpdateOrganization failed", "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Organization updated", "name", org.Name, "has_logo", org.Logo != "")
	return connect.NewResponse(&api.UpdateOrganizationResponse{Organization: toAPIOrganization(org)}), nil
}

func (s *SettingsService) ListUnits(ctx context.Context, req *connect.Request[api.ListUnitsRequest]) (*connect.Response[api.ListUnitsResponse], error) {
	return connect.NewResponse(&api.ListUnitsResponse{
		Units:       append([]string(nil), invoice.Units...),
		DefaultUnit: invoice.DefaultUnit,
	}), nil
}
