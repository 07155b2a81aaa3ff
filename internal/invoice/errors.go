package invoice

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound is returned when a line item ID is not in the ledger.
	ErrItemNotFound = errors.New("line item not found")

	// ErrDerivedField is returned when a caller tries to set a line item's amount.
	ErrDerivedField = errors.New("amount is derived from quantity and rate")
)

// ValidationError reports invalid user input. It blocks a save and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
