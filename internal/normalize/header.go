// =============================================================================
// Ledger Import - Value Normalizers
// =============================================================================
//
// This package holds the pure normalization functions applied to journal
// cells before any decision is taken on a row:
//   - Header:      column header canonicalization (matching only)
//   - AccountCode: account code canonical form
//   - ParseAmount: locale-tolerant exact decimal parsing
//   - ParseDate:   day-first date parsing with a fixed +02:00 offset
//
// None of these functions return errors. Unparseable input resolves to an
// absent value and is handled by the row transformer's skip logic.
//
// =============================================================================

package normalize

import "strings"

// Header returns the trimmed, lower-cased form of a column header. It is used
// for matching only, never for display.
func Header(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
