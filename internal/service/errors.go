package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/invoice"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// toConnectError maps domain and store errors onto Connect codes.
// The message is passed through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case invoice.IsValidationError(err),
		errors.Is(err, invoice.ErrItemNotFound),
		errors.Is(err, invoice.ErrDerivedField):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func requireID(id string) error {
	if id == "" {
		return connect.NewError(connect.CodeInvalidArgument, errors.New("id is required"))
	}
	return nil
}

// loadOrganization returns the saved profile, or the placeholder profile
// when none was saved yet.
func loadOrganization(ctx context.Context, store storage.Store) (models.Organization, error) {
	org, err := store.GetOrganization(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultOrganization(), nil
	}
	if err != nil {
		slog.Error("Failed to load organization", "error", err)
		return models.Organization{}, err
	}
	return *org, nil
}
