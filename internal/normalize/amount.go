package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits every amount is emitted with.
const AmountScale = 4

// ParseAmount parses a monetary cell into an exact decimal rounded to
// AmountScale digits. Blank or unparseable input returns an invalid
// NullDecimal.
//
// COMMA/DOT POLICY:
//   The journals come from a deployment where both "1.234,56" and "1,234.56"
//   occur, so the separator rule is fixed rather than locale-driven:
//   - both present: the one occurring later is the decimal point, the other
//     is a thousands separator and is dropped
//   - only a comma: it is the decimal point, dots are dropped first
//   - only a dot:   it already is the decimal point
func ParseAmount(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(d.RoundBank(AmountScale))
}

// FormatAmount renders an amount with exactly AmountScale fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixedBank(AmountScale)
}

// IsNonZero reports whether an amount is present and nonzero.
func IsNonZero(d decimal.NullDecimal) bool {
	return d.Valid && !d.Decimal.IsZero()
}
