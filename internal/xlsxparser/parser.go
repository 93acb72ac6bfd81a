// =============================================================================
// Ledger Import - XLSX Parser Module
// =============================================================================
//
// This module reads the journal workbook. The first row of the sheet is the
// header row; every following non-empty row is a journal row.
//
// CELL VALUES:
//   With raw cell values enabled (the default) excelize returns the stored
//   value of a cell instead of its display text. Dates then arrive as Excel
//   serial numbers ("45366") rather than in whatever display format the
//   workbook uses, which avoids month-first renderings such as "3/15/24".
//   The date normalizer accepts both forms.
//
// SHEET SELECTION:
//   The configured sheet is read when set; otherwise the first sheet.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/ledger-import/internal/config"
	"github.com/ginjaninja78/ledger-import/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a journal workbook.
//
// PARAMETERS:
//   - filePath: The path to the .xlsx/.xlsm file.
//   - settings: The input settings (sheet, raw cell values).
//
// RETURNS:
//   - The parsed table.
//   - An error if the file cannot be opened or the sheet does not exist.
func Parse(filePath string, settings config.InputConfig) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath, excelize.Options{RawCellValue: settings.RawCellValues})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseFile(f, filePath, settings)
}

// ParseReader reads a journal workbook from r. source is recorded on the table.
func ParseReader(r io.Reader, source string, settings config.InputConfig) (*types.Table, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: settings.RawCellValues})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseFile(f, source, settings)
}

// SheetNames lists the sheets of a workbook in order.
func SheetNames(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// parseFile reads the selected sheet of an open workbook.
func parseFile(f *excelize.File, source string, settings config.InputConfig) (*types.Table, error) {
	sheetName, err := selectSheet(f, settings.Sheet)
	if err != nil {
		return nil, err
	}

	// GetRows keeps empty rows between data rows, so record indexes match
	// sheet row numbers.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: settings.RawCellValues})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	return types.NewTable(source, rows), nil
}

// selectSheet returns the configured sheet, or the first sheet when none is set.
func selectSheet(f *excelize.File, configured string) (string, error) {
	if configured == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return name, nil
	}

	index, err := f.GetSheetIndex(configured)
	if err != nil || index < 0 {
		return "", fmt.Errorf("sheet %q not found", configured)
	}
	return configured, nil
}
