package types

import (
	"fmt"
	"strconv"
	"strings"
)

// NewTable builds a table from raw records. The first record is the header
// row; the rest are data rows. Blank rows are dropped but still counted, so
// RowNumber keeps pointing at the row the user sees in the source. Cell
// values are kept as read; the normalizers do their own trimming.
func NewTable(source string, records [][]string) *Table {
	table := &Table{Source: source}
	if len(records) == 0 {
		return table
	}

	table.Headers = cleanHeaders(records[0])

	for i := 1; i < len(records); i++ {
		record := records[i]
		if isRowEmpty(record) {
			continue
		}

		values := make(map[string]string, len(table.Headers))
		for col, header := range table.Headers {
			if col < len(record) {
				values[header] = record[col]
			} else {
				values[header] = ""
			}
		}

		table.Rows = append(table.Rows, RawRow{Position: i, Values: values})
	}

	return table
}

// cleanHeaders trims headers, names blank ones "Column_N" and makes
// duplicates unique by appending ".1", ".2", ...
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]int, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		if n, dup := seen[header]; dup {
			seen[header] = n + 1
			header = header + "." + strconv.Itoa(n+1)
		} else {
			seen[header] = 0
		}

		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
