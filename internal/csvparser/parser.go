// =============================================================================
// Ledger Import - CSV Parser Module
// =============================================================================
//
// This module reads journal exports saved as CSV. It handles:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Single-byte encodings common for Serbian exports (windows-1250,
//     windows-1252, ISO-8859-2) besides UTF-8
//   - A leading UTF-8 byte order mark
//   - Quoted fields and rows with a varying number of fields
//
// The first record is the header row. The result is a types.Table, the same
// shape the XLSX reader produces.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/ledger-import/internal/config"
	"github.com/ginjaninja78/ledger-import/internal/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a journal CSV file.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The input settings (delimiter, encoding).
//
// RETURNS:
//   - The parsed table.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.InputConfig) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, filePath, settings)
}

// ParseReader reads a journal CSV from r. source is recorded on the table.
//
// PARSING PROCESS:
//   1. Decode the input to UTF-8 using the configured encoding
//   2. Configure the CSV reader with the configured delimiter
//   3. Read all records
//   4. Build the table from the header row and the data rows
func ParseReader(r io.Reader, source string, settings config.InputConfig) (*types.Table, error) {
	decoder, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := bufio.NewReader(r)
	if decoder != nil {
		reader = bufio.NewReader(transform.NewReader(reader, decoder.NewDecoder()))
	} else if err := skipBOM(reader); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	return types.NewTable(source, records), nil
}

// configureReader configures the CSV reader based on settings.
func configureReader(reader *csv.Reader, settings config.InputConfig) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = []rune(settings.Delimiter)[0]
		} else {
			reader.Comma = ','
		}
	}

	// Exports often have ragged rows and stray quotes.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// decoderFor returns the decoder of a single-byte encoding, or nil for UTF-8.
func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1250", "cp1250":
		return charmap.Windows1250, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-2", "latin2":
		return charmap.ISO8859_2, nil
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q", name)
	}
}

// skipBOM drops a leading UTF-8 byte order mark.
func skipBOM(reader *bufio.Reader) error {
	head, err := reader.Peek(len(utf8BOM))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return err
	}
	if bytes.Equal(head, utf8BOM) {
		_, err = reader.Discard(len(utf8BOM))
		return err
	}
	return nil
}
