package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	assert.Equal(t, "konto", Header("  Konto "))
	assert.Equal(t, "datum promene", Header("Datum Promene"))
	assert.Equal(t, "potražuje", Header("POTRAŽUJE"))
	assert.Equal(t, "", Header("   "))
}

func TestAccountCode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "blank", raw: "", want: ""},
		{name: "whitespace only", raw: "   ", want: ""},
		{name: "plain digits", raw: "1001", want: "1001"},
		{name: "numeric artifact", raw: "1001.0", want: "1001"},
		{name: "dash separator", raw: "100-1", want: "1001"},
		{name: "dot separator", raw: "100.1", want: "1001"},
		{name: "slash and backslash", raw: `20/4\1`, want: "2041"},
		{name: "internal whitespace", raw: " 43 50 ", want: "4350"},
		{name: "mixed", raw: "435-0.1 / 2", want: "435012"},
		{name: "artifact only once", raw: "1.0.0", want: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AccountCode(tt.raw))
		})
	}
}

func TestAccountCode_Idempotent(t *testing.T) {
	inputs := []string{"", "1001.0", "100-1", " 1 0 0 . 1 ", `a\b/c-d.e`, "5.0.0.0", "2040.00", "x.0 "}
	for _, in := range inputs {
		once := AccountCode(in)
		assert.Equal(t, once, AccountCode(once), "input %q", in)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{name: "european thousands", raw: "1.234,56", want: "1234.5600", valid: true},
		{name: "english thousands", raw: "1,234.56", want: "1234.5600", valid: true},
		{name: "comma decimal", raw: "12,5", want: "12.5000", valid: true},
		{name: "dot decimal", raw: "12.5", want: "12.5000", valid: true},
		{name: "integer", raw: "1000", want: "1000.0000", valid: true},
		{name: "negative", raw: "-1.000,00", want: "-1000.0000", valid: true},
		{name: "surrounding spaces", raw: "  7,25 ", want: "7.2500", valid: true},
		{name: "several dots and comma", raw: "1.234.567,891", want: "1234567.8910", valid: true},
		{name: "rounded to four places", raw: "0,123456", want: "0.1235", valid: true},
		{name: "zero", raw: "0,00", want: "0.0000", valid: true},
		{name: "blank", raw: "", valid: false},
		{name: "spaces", raw: "   ", valid: false},
		{name: "text", raw: "abc", valid: false},
		{name: "internal space", raw: "1 234,56", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.raw)
			require.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, FormatAmount(got.Decimal))
			}
		})
	}
}

func TestIsNonZero(t *testing.T) {
	assert.False(t, IsNonZero(decimal.NullDecimal{}))
	assert.False(t, IsNonZero(ParseAmount("0")))
	assert.False(t, IsNonZero(ParseAmount("0,00001")))
	assert.True(t, IsNonZero(ParseAmount("0,0001")))
	assert.True(t, IsNonZero(ParseAmount("-3")))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "dotted day first", raw: "15.03.2024", want: "2024-03-15T00:00:00+02:00", ok: true},
		{name: "trailing dot", raw: "15.03.2024.", want: "2024-03-15T00:00:00+02:00", ok: true},
		{name: "single digits", raw: "5.3.2024", want: "2024-03-05T00:00:00+02:00", ok: true},
		{name: "ambiguous slash is day first", raw: "03/04/2024", want: "2024-04-03T00:00:00+02:00", ok: true},
		{name: "with time", raw: "15.03.2024 13:45:00", want: "2024-03-15T00:00:00+02:00", ok: true},
		{name: "iso", raw: "2024-03-15", want: "2024-03-15T00:00:00+02:00", ok: true},
		{name: "iso with time", raw: "2024-03-15 00:00:00", want: "2024-03-15T00:00:00+02:00", ok: true},
		{name: "excel serial", raw: "45366", want: "2024-03-15T00:00:00+02:00", ok: true},
		{name: "month first when day first is impossible", raw: "3/15/2024", want: "2024-03-15T00:00:00+02:00", ok: true},
		{name: "month first year end", raw: "12/31/2024", want: "2024-12-31T00:00:00+02:00", ok: true},
		{name: "dotted month first", raw: "3.15.2024", want: "2024-03-15T00:00:00+02:00", ok: true},
		{name: "year only", raw: "2024", want: "2024-01-01T00:00:00+02:00", ok: true},
		{name: "small number is not a serial", raw: "999", ok: false},
		{name: "blank", raw: "", ok: false},
		{name: "garbage", raw: "not a date", ok: false},
		{name: "impossible day", raw: "32.01.2024", ok: false},
		{name: "serial out of range", raw: "99999999", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateToISO(tt.raw)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_FixedOffset(t *testing.T) {
	got, ok := ParseDate("15.03.2024")
	require.True(t, ok)

	_, offset := got.Zone()
	assert.Equal(t, OffsetSeconds, offset)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
	assert.Zero(t, got.Hour())
}

func TestFormatDate_TruncatesToMidnight(t *testing.T) {
	in := time.Date(2025, time.July, 9, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-09T00:00:00+02:00", FormatDate(in))
}

func TestMidnight_UsesLedgerOffset(t *testing.T) {
	// 23:30 UTC is already the next day at +02:00.
	in := time.Date(2025, time.July, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-10T00:00:00+02:00", Midnight(in).Format(ISOLayout))
}
