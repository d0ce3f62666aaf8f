package model

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError rejects a malformed mutation before any state changes.
// It is the only error class surfaced synchronously to mutation callers.
type ValidationError struct {
	// Field names the offending item field.
	Field string

	// Reason is a human-readable description of the rejection.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err (or anything it wraps) is a
// ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the user-settable fields of an item.
// Returns a ValidationError for the first violation found, nil otherwise.
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if i.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be positive, got %d", i.Quantity)}
	}
	if i.UnitPrice < 0 {
		return &ValidationError{Field: "unitPrice", Reason: fmt.Sprintf("must not be negative, got %g", i.UnitPrice)}
	}
	return nil
}
