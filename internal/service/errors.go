package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrUnauthorized     = errors.New("invalid password")
	ErrGateUnconfigured = errors.New("admin gate is not configured")
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
