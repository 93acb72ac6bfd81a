package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnResolution indicates that a required semantic field could not be
// bound to any source column. No row is processed when this is returned.
var ErrColumnResolution = errors.New("required columns missing")

// ErrDocumentEmpty indicates that no line item survived row processing. No
// document artifact may be persisted; the audit trail is still written.
var ErrDocumentEmpty = errors.New("no line items generated")

// ErrDirectoryUnavailable indicates that the account directory provider
// failed or is not configured. It is never fatal on its own.
var ErrDirectoryUnavailable = errors.New("account directory unavailable")

// ErrMissingCompany indicates that no company code was supplied for the order header.
var ErrMissingCompany = errors.New("company code is required")

// ErrUnsupportedInput indicates an input file type that cannot be read.
var ErrUnsupportedInput = errors.New("unsupported input file")

// ErrInvalidDocument indicates that a built document violates its invariants.
var ErrInvalidDocument = errors.New("invalid ledger document")

// ColumnResolutionError lists the fields that could not be resolved.
type ColumnResolutionError struct {
	Missing []string
}

func (e *ColumnResolutionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrColumnResolution, strings.Join(e.Missing, ", "))
}

// Unwrap lets errors.Is match ErrColumnResolution.
func (e *ColumnResolutionError) Unwrap() error {
	return ErrColumnResolution
}
