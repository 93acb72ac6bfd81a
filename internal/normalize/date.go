package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// OffsetSeconds is the fixed UTC offset stamped on every date (+02:00). It is
// a deployment policy of the ledger importer, not a time zone conversion.
const OffsetSeconds = 2 * 60 * 60

// ISOLayout renders a normalized date: midnight with the numeric offset.
const ISOLayout = "2006-01-02T15:04:05-07:00"

// ledgerZone carries the fixed offset without a zone name so that
// formatting always yields "+02:00".
var ledgerZone = time.FixedZone("", OffsetSeconds)

// dateLayouts are tried in order. Day-first forms come first, then ISO
// forms, then month-first forms. A month-first layout only matches when the
// day-first reading is impossible, so "03/04/2024" is the 3rd of April and
// "3/15/2024" is the 15th of March.
var dateLayouts = []string{
	"2.1.2006",
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2.1.06",
	"2/1/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006.01.02",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1.2.2006",
	"1-2-2006",
}

var serialPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// yearPattern matches a bare four-digit year, read as the 1st of January.
var yearPattern = regexp.MustCompile(`^\d{4}$`)

// minExcelSerial is 1927-05-18 in the 1900 date system. Smaller numbers are
// not taken as journal dates.
const minExcelSerial = 10000

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

// ParseDate parses a change-date cell. Ambiguous numeric dates are read day
// first. Plain numbers are taken as Excel serial dates. The result is the
// calendar date at midnight in the fixed ledger offset; ok is false when the
// cell does not parse.
func ParseDate(raw string) (t time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if yearPattern.MatchString(s) {
		year, _ := strconv.Atoi(s)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, ledgerZone), true
	}
	if serialPattern.MatchString(s) {
		return parseSerial(s)
	}

	// Serbian dates are commonly written with a closing dot: "15.03.2024."
	s = strings.TrimSuffix(s, ".")

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return atMidnight(parsed), true
	}

	return time.Time{}, false
}

// FormatDate renders a normalized date, e.g. "2024-03-15T00:00:00+02:00".
func FormatDate(t time.Time) string {
	return atMidnight(t).Format(ISOLayout)
}

// ParseDateToISO is ParseDate followed by FormatDate.
func ParseDateToISO(raw string) (string, bool) {
	t, ok := ParseDate(raw)
	if !ok {
		return "", false
	}
	return FormatDate(t), true
}

// Midnight returns the calendar date of the instant t, as seen in the ledger
// offset, at midnight.
func Midnight(t time.Time) time.Time {
	return atMidnight(t.In(ledgerZone))
}

func parseSerial(s string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < minExcelSerial || serial > maxExcelSerial {
		return time.Time{}, false
	}

	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}

	return atMidnight(parsed), true
}

func atMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ledgerZone)
}
