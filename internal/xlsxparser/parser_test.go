package xlsxparser

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/ginjaninja78/ledger-import/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows map[string][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}

	for cell, values := range rows {
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(t.TempDir(), "journal.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

var header = []any{"Konto", "Duguje", "Potražuje", "Poslovni partner", "Dokument", "Datum promene", "Opis"}

func TestParse_FirstSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", map[string][]any{
		"A1": header,
		"A2": {"100-1", 1000, nil, "P1", "UF-1", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "Kasa"},
		"A4": {1001, nil, 5.5, "P2", "UF-2", "16.03.2024", "Banka"},
	})

	table, err := Parse(path, config.InputConfig{RawCellValues: true})
	require.NoError(t, err)

	assert.Equal(t, "Konto", table.Headers[0])
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, 2, first.RowNumber())
	assert.Equal(t, "100-1", first.Get("Konto"))
	assert.Equal(t, "1000", first.Get("Duguje"))
	assert.Equal(t, "", first.Get("Potražuje"))
	assert.Equal(t, "45366", first.Get("Datum promene"), "raw values keep the serial date")

	second := table.Rows[1]
	assert.Equal(t, 4, second.RowNumber(), "the empty third row is counted")
	assert.Equal(t, "1001", second.Get("Konto"))
	assert.Equal(t, "5.5", second.Get("Potražuje"))
	assert.Equal(t, "16.03.2024", second.Get("Datum promene"))
}

func TestParse_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Nalog", map[string][]any{
		"A1": header,
		"A2": {"2040", 10},
	})

	table, err := Parse(path, config.InputConfig{Sheet: "Nalog"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2040", table.Rows[0].Get("Konto"))

	_, err = Parse(path, config.InputConfig{Sheet: "Missing"})
	assert.ErrorContains(t, err, `sheet "Missing" not found`)
}

func TestParse_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", nil)

	_, err := Parse(path, config.InputConfig{})
	assert.ErrorContains(t, err, "is empty")
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, err := ParseReader(bytes.NewReader([]byte("konto,duguje\n")), "journal.xlsx", config.InputConfig{})
	assert.Error(t, err)
}

func TestSheetNames(t *testing.T) {
	path := writeWorkbook(t, "Nalog", map[string][]any{"A1": header})

	names, err := SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Nalog"}, names)
}
