// =============================================================================
// Ledger Import - Validation Engine
// =============================================================================
//
// This module checks a built ledger document against the invariants the
// importer relies on, before anything is written to disk:
//   - Header: company code present, order id and status set
//   - Items: sequence numbers are exactly 1..k, item ids follow the id
//     scheme, every item carries at least one nonzero amount
//   - Accounts: the descriptor blocks are exactly the set of accounts used by
//     the items, strictly ascending, no duplicates
//
// ERROR HANDLING:
//   - Errors are collected, not returned on the first failure
//   - "error" severity makes the document invalid
//   - "warning" severity is reported only (e.g. an account without metadata)
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/ledger-import/internal/ledger"
	"github.com/ginjaninja78/ledger-import/internal/normalize"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation error.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Element is the document part that failed, e.g. "header", "item", "account".
	Element string

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// Sequence is the item sequence number, 0 outside items.
	Sequence int

	// RowNumber is the source row of the item (for error reporting).
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	location := e.Element
	if e.Sequence > 0 {
		location = fmt.Sprintf("%s %d (row %d)", e.Element, e.Sequence, e.RowNumber)
	}
	return fmt.Sprintf("[%s] %s, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		location,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no errors of SeverityError.
	IsValid bool

	// Errors contains all validation errors (including warnings).
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityWarning {
		r.WarningCount++
		return
	}
	r.ErrorCount++
	r.IsValid = false
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateDocument validates a ledger document.
//
// PARAMETERS:
//   - doc: The document to validate.
//
// RETURNS:
//   - The validation result. A nil document is invalid.
func ValidateDocument(doc *ledger.Document) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	if doc == nil {
		result.add(&ValidationError{
			Severity: SeverityError,
			Element:  "document",
			Rule:     "present",
			Message:  "document is missing",
		})
		return result
	}

	validateHeader(doc.Header, result)
	used := validateItems(doc.Items, result)
	validateAccounts(doc.Accounts, used, result)

	return result
}

// validateHeader checks the order-level fields.
func validateHeader(h ledger.Header, result *ValidationResult) {
	if strings.TrimSpace(h.CompanyCode) == "" {
		result.add(&ValidationError{
			Severity: SeverityError,
			Element:  "header",
			Field:    "Šifra_x0020_preduzeca",
			Rule:     "required",
			Message:  "company code is required",
		})
	}
	if h.OrderID != ledger.BaseOrderID {
		result.add(&ValidationError{
			Severity: SeverityError,
			Element:  "header",
			Field:    "fk_nk_nalog_za_knjizenje_id",
			Value:    fmt.Sprintf("%d", h.OrderID),
			Rule:     "order-id",
			Message:  fmt.Sprintf("order id must be %d", ledger.BaseOrderID),
		})
	}
	if h.Date.IsZero() {
		result.add(&ValidationError{
			Severity: SeverityError,
			Element:  "header",
			Field:    "Datum",
			Rule:     "required",
			Message:  "document date is missing",
		})
	}
}

// validateItems checks sequence, id scheme and amounts. It returns the set
// of account ids the items reference.
func validateItems(items []ledger.Item, result *ValidationResult) map[int64]bool {
	used := make(map[int64]bool)

	if len(items) == 0 {
		result.add(&ValidationError{
			Severity: SeverityError,
			Element:  "document",
			Rule:     "non-empty",
			Message:  "document has no line items",
		})
		return used
	}

	for i, item := range items {
		used[item.AccountID] = true

		newError := func(field, value, rule, message string) *ValidationError {
			return &ValidationError{
				Severity:  SeverityError,
				Element:   "item",
				Field:     field,
				Value:     value,
				Rule:      rule,
				Message:   message,
				Sequence:  item.Sequence,
				RowNumber: item.RowNumber,
			}
		}

		if item.Sequence != i+1 {
			result.add(newError("Redni_x0020_broj", fmt.Sprintf("%d", item.Sequence), "sequence",
				fmt.Sprintf("expected sequence %d", i+1)))
		}
		if item.ItemID != ledger.BaseOrderID+int64(item.Sequence) {
			result.add(newError("fk_nk_stavka_naloga_za_knjizenje_id", fmt.Sprintf("%d", item.ItemID), "item-id",
				"item id must be the order id plus the sequence"))
		}
		if item.OrderID != ledger.BaseOrderID {
			result.add(newError("fk_nk_nalog_za_knjizenje_id", fmt.Sprintf("%d", item.OrderID), "order-id",
				"item does not reference the order"))
		}
		if !normalize.IsNonZero(item.Debit) && !normalize.IsNonZero(item.Credit) {
			result.add(newError("Duguje", "", "nonzero-amount",
				"item has neither a nonzero debit nor a nonzero credit"))
		}
		if item.Debit.Valid && item.Debit.Decimal.IsZero() {
			result.add(newError("Duguje", "0", "nonzero-amount", "zero debit must be omitted"))
		}
		if item.Credit.Valid && item.Credit.Decimal.IsZero() {
			result.add(newError("Potrazuje", "0", "nonzero-amount", "zero credit must be omitted"))
		}
	}

	return used
}

// validateAccounts checks that the descriptor blocks match the used accounts.
func validateAccounts(accounts []ledger.AccountBlock, used map[int64]bool, result *ValidationResult) {
	seen := make(map[int64]bool, len(accounts))

	for i, acc := range accounts {
		id := fmt.Sprintf("%d", acc.AccountID)

		if seen[acc.AccountID] {
			result.add(&ValidationError{
				Severity: SeverityError,
				Element:  "account",
				Field:    "fk_kp_konto_id",
				Value:    id,
				Rule:     "unique",
				Message:  "duplicate account block",
			})
		}
		seen[acc.AccountID] = true

		if i > 0 && acc.AccountID <= accounts[i-1].AccountID {
			result.add(&ValidationError{
				Severity: SeverityError,
				Element:  "account",
				Field:    "fk_kp_konto_id",
				Value:    id,
				Rule:     "ascending",
				Message:  "account blocks must be in ascending id order",
			})
		}

		if !used[acc.AccountID] {
			result.add(&ValidationError{
				Severity: SeverityError,
				Element:  "account",
				Field:    "fk_kp_konto_id",
				Value:    id,
				Rule:     "used",
				Message:  "account block is not referenced by any item",
			})
		}

		if acc.Code == "" && acc.Name == "" {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Element:  "account",
				Field:    "Broj",
				Value:    id,
				Rule:     "metadata",
				Message:  "account has no directory metadata",
			})
		}
	}

	for id := range used {
		if !seen[id] {
			result.add(&ValidationError{
				Severity: SeverityError,
				Element:  "account",
				Field:    "fk_kp_konto_id",
				Value:    fmt.Sprintf("%d", id),
				Rule:     "used",
				Message:  "used account has no account block",
			})
		}
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
//
// PARAMETERS:
//   - errors: The validation errors to format.
//
// RETURNS:
//   - A formatted string with one numbered line per error.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
