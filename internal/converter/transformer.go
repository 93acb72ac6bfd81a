// =============================================================================
// Ledger Import - Row Transformer
// =============================================================================
//
// Each journal row goes through a fixed list of checks. The first check that
// fails ends the row with its skip reason; a row that passes every check is
// emitted as a line item.
//
//   RAW -> code check -> directory check -> amount check -> EMITTED
//             |               |                 |
//        empty-code     code-not-found     zero-amounts
//
// Every row yields exactly one audit entry, kept or skipped.
//
// =============================================================================

package converter

import (
	"strings"

	"github.com/ginjaninja78/ledger-import/internal/columns"
	"github.com/ginjaninja78/ledger-import/internal/normalize"
	"github.com/ginjaninja78/ledger-import/internal/types"
	"github.com/shopspring/decimal"
)

// Outcome is the result of transforming one row. Item is nil for skipped rows.
type Outcome struct {
	Audit types.AuditEntry
	Item  *types.LineItem
}

// Kept reports whether the row was emitted.
func (o Outcome) Kept() bool {
	return o.Item != nil
}

// rowState carries the values a row accumulates while passing the checks.
type rowState struct {
	row       types.RawRow
	rawCode   string
	code      string
	accountID int64
	debit     decimal.NullDecimal
	credit    decimal.NullDecimal
}

// check inspects a row and returns the reason to skip it, or ReasonNone.
type check func(r *Run, s *rowState) types.SkipReason

// rowChecks run in order and short-circuit on the first skip reason.
var rowChecks = []check{
	checkCode,
	checkDirectory,
	checkAmounts,
}

// transform runs the checks over a row.
func (r *Run) transform(row types.RawRow) Outcome {
	s := &rowState{
		row:     row,
		rawCode: row.Get(r.mapping.Column(columns.FieldAccount)),
	}

	for _, c := range rowChecks {
		if reason := c(r, s); reason != types.ReasonNone {
			return Outcome{Audit: r.auditEntry(s, types.StatusSkip, reason)}
		}
	}

	item := r.emit(s)
	return Outcome{
		Audit: r.auditEntry(s, types.StatusKept, types.ReasonNone),
		Item:  &item,
	}
}

func checkCode(_ *Run, s *rowState) types.SkipReason {
	s.code = normalize.AccountCode(s.rawCode)
	if s.code == "" {
		return types.ReasonEmptyCode
	}
	return types.ReasonNone
}

func checkDirectory(r *Run, s *rowState) types.SkipReason {
	id, ok := r.dir.Resolve(s.code)
	if !ok {
		return types.ReasonCodeNotFound
	}
	s.accountID = id
	return types.ReasonNone
}

func checkAmounts(r *Run, s *rowState) types.SkipReason {
	s.debit = normalize.ParseAmount(s.row.Get(r.mapping.Column(columns.FieldDebit)))
	s.credit = normalize.ParseAmount(s.row.Get(r.mapping.Column(columns.FieldCredit)))

	if !normalize.IsNonZero(s.debit) && !normalize.IsNonZero(s.credit) {
		return types.ReasonZeroAmounts
	}
	return types.ReasonNone
}

// emit builds the line item of a row that passed every check. Zero amounts
// are dropped so only nonzero sides are carried.
func (r *Run) emit(s *rowState) types.LineItem {
	item := types.LineItem{
		Sequence:    r.nextSequence(),
		AccountID:   s.accountID,
		DocumentRef: strings.TrimSpace(s.row.Get(r.mapping.Column(columns.FieldDocument))),
		Description: strings.TrimSpace(s.row.Get(r.mapping.Column(columns.FieldDescription))),
		RowNumber:   s.row.RowNumber(),
	}

	if t, ok := normalize.ParseDate(s.row.Get(r.mapping.Column(columns.FieldChangeDate))); ok {
		item.ChangeDate = &t
	}
	if normalize.IsNonZero(s.debit) {
		item.Debit = s.debit
	}
	if normalize.IsNonZero(s.credit) {
		item.Credit = s.credit
	}

	return item
}

func (r *Run) auditEntry(s *rowState, status types.Status, reason types.SkipReason) types.AuditEntry {
	return types.AuditEntry{
		RowNumber:      s.row.RowNumber(),
		Status:         status,
		Reason:         reason,
		RawAccountCode: s.rawCode,
		AccountCode:    normalize.AccountCode(s.rawCode),
	}
}
