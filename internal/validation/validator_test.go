package validation

import (
	"testing"
	"time"

	"github.com/ginjaninja78/ledger-import/internal/ledger"
	"github.com/ginjaninja78/ledger-import/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *ledger.Document {
	item := func(seq int, account int64) ledger.Item {
		return ledger.Item{
			LineItem: types.LineItem{
				Sequence:  seq,
				AccountID: account,
				Debit:     decimal.NewNullDecimal(decimal.NewFromInt(10)),
				RowNumber: seq + 1,
			},
			ItemID:  ledger.BaseOrderID + int64(seq),
			OrderID: ledger.BaseOrderID,
		}
	}

	return &ledger.Document{
		Header: ledger.Header{
			CompanyCode: "01",
			OrderID:     ledger.BaseOrderID,
			Status:      ledger.OrderStatus,
			Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		Items: []ledger.Item{item(1, 12), item(2, 7), item(3, 12)},
		Accounts: []ledger.AccountBlock{
			{AccountID: 7, Code: "1001", Name: "Blagajna"},
			{AccountID: 12, Code: "2040", Name: "Kupci"},
		},
	}
}

func rules(result *ValidationResult) []string {
	var out []string
	for _, e := range result.Errors {
		out = append(out, e.Rule)
	}
	return out
}

func TestValidateDocument_Valid(t *testing.T) {
	result := ValidateDocument(validDocument())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "No validation errors.", FormatErrors(result.Errors))
}

func TestValidateDocument_Nil(t *testing.T) {
	result := ValidateDocument(nil)

	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.ErrorCount)
}

func TestValidateDocument_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ledger.Document)
		rule   string
	}{
		{
			name:   "missing company",
			mutate: func(d *ledger.Document) { d.Header.CompanyCode = " " },
			rule:   "required",
		},
		{
			name:   "sequence gap",
			mutate: func(d *ledger.Document) { d.Items[2].Sequence = 4; d.Items[2].ItemID = ledger.BaseOrderID + 4 },
			rule:   "sequence",
		},
		{
			name:   "item id scheme",
			mutate: func(d *ledger.Document) { d.Items[0].ItemID = 1 },
			rule:   "item-id",
		},
		{
			name: "no amounts",
			mutate: func(d *ledger.Document) {
				d.Items[1].Debit = decimal.NullDecimal{}
			},
			rule: "nonzero-amount",
		},
		{
			name: "unused account block",
			mutate: func(d *ledger.Document) {
				d.Accounts = append(d.Accounts, ledger.AccountBlock{AccountID: 30, Code: "3000"})
			},
			rule: "used",
		},
		{
			name:   "missing account block",
			mutate: func(d *ledger.Document) { d.Accounts = d.Accounts[:1] },
			rule:   "used",
		},
		{
			name: "descending blocks",
			mutate: func(d *ledger.Document) {
				d.Accounts[0], d.Accounts[1] = d.Accounts[1], d.Accounts[0]
			},
			rule: "ascending",
		},
		{
			name: "duplicate block",
			mutate: func(d *ledger.Document) {
				d.Accounts = append(d.Accounts, d.Accounts[1])
			},
			rule: "unique",
		},
		{
			name:   "no items",
			mutate: func(d *ledger.Document) { d.Items = nil; d.Accounts = nil },
			rule:   "non-empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)

			result := ValidateDocument(doc)

			assert.False(t, result.IsValid)
			assert.Contains(t, rules(result), tt.rule)
		})
	}
}

func TestValidateDocument_MissingMetadataIsWarning(t *testing.T) {
	doc := validDocument()
	doc.Accounts[0].Code = ""
	doc.Accounts[0].Name = ""

	result := ValidateDocument(doc)

	assert.True(t, result.IsValid)
	assert.Equal(t, 1, result.WarningCount)
	assert.Zero(t, result.ErrorCount)
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{
		Severity:  SeverityError,
		Element:   "item",
		Field:     "Duguje",
		Message:   "zero debit must be omitted",
		Value:     "0",
		Sequence:  3,
		RowNumber: 5,
	}

	assert.Equal(t, "[ERROR] item 3 (row 5), Field 'Duguje': zero debit must be omitted (value: '0')", e.Error())
}

func TestFormatErrors(t *testing.T) {
	doc := validDocument()
	doc.Header.CompanyCode = ""

	result := ValidateDocument(doc)
	require.Len(t, result.Errors, 1)

	out := FormatErrors(result.Errors)
	assert.Contains(t, out, "Validation completed with 1 error(s):")
	assert.Contains(t, out, "1. [ERROR] header, Field 'Šifra_x0020_preduzeca'")
}
