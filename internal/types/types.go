// =============================================================================
// Ledger Import - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xlsxparser / csvparser (Table, RawRow)
//   - converter              (LineItem, AuditEntry)
//   - ledger / xmlwriter     (LineItem)
//   - audit                  (AuditEntry)
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// HeaderOffset is added to a row's 1-based data position to get the row
// number a user sees in the spreadsheet (the header occupies row 1).
const HeaderOffset = 1

// =============================================================================
// INPUT TYPES
// =============================================================================

// RawRow is one non-empty data row of the source table.
type RawRow struct {
	// Position is the 1-based index of the row among the data rows of the
	// source, counting empty rows that were dropped.
	Position int

	// Values maps the source column header to the raw cell text.
	Values map[string]string
}

// Get returns the raw value of a column, or "" when the row has no such column.
func (r RawRow) Get(column string) string {
	return r.Values[column]
}

// RowNumber is the human-facing row number in the source sheet.
func (r RawRow) RowNumber() int {
	return r.Position + HeaderOffset
}

// Table is a parsed journal sheet.
type Table struct {
	// Source is the path of the file the table was read from.
	Source string

	// Headers are the cleaned column headers in source order.
	Headers []string

	// Rows are the non-empty data rows in source order.
	Rows []RawRow
}

// =============================================================================
// LINE ITEM
// =============================================================================

// LineItem is one accepted journal row, ready to be emitted into the ledger
// document. At least one of Debit and Credit is valid and nonzero.
type LineItem struct {
	// Sequence is the 1-based, gapless emission number.
	Sequence int

	// AccountID is the internal ledger account identifier.
	AccountID int64

	// ChangeDate is the normalized change date, nil when it did not parse.
	ChangeDate *time.Time

	// DocumentRef is the trimmed document reference, "" when absent.
	DocumentRef string

	// Debit and Credit carry only nonzero amounts.
	Debit  decimal.NullDecimal
	Credit decimal.NullDecimal

	// Description is the trimmed line description, "" when absent.
	Description string

	// RowNumber is the source row the item came from.
	RowNumber int
}

// =============================================================================
// AUDIT TYPES
// =============================================================================

// Status is the outcome of a row.
type Status string

const (
	StatusKept Status = "KEPT"
	StatusSkip Status = "SKIP"
)

// SkipReason explains why a row was not emitted.
type SkipReason string

const (
	ReasonNone         SkipReason = ""
	ReasonEmptyCode    SkipReason = "empty-code"
	ReasonCodeNotFound SkipReason = "code-not-found"
	ReasonZeroAmounts  SkipReason = "zero-amounts"
)

// AuditEntry records the decision taken for one input row.
type AuditEntry struct {
	RowNumber      int
	Status         Status
	Reason         SkipReason
	RawAccountCode string
	AccountCode    string
}
