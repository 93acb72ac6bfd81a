// =============================================================================
// Ledger Import - Audit Trail Writer
// =============================================================================
//
// Writes one CSV record per input row, kept or skipped, in source order:
//
//   row,status,reason,konto_raw,konto_norm
//   2,KEPT,,100-1,1001
//   3,SKIP,code-not-found,999,999
//
// The audit trail is written whether or not a document was produced. Its
// failures are reported to the caller and never change the run outcome.
//
// =============================================================================

package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ginjaninja78/ledger-import/internal/types"
)

// DefaultFileName is the audit trail written next to the generated XML.
const DefaultFileName = "xml_import_debug.csv"

// Header is the first record of every audit file.
var Header = []string{"row", "status", "reason", "konto_raw", "konto_norm"}

// WriteTo writes the audit records to w.
func WriteTo(w io.Writer, entries []types.AuditEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write audit header: %w", err)
	}

	for _, e := range entries {
		record := []string{
			strconv.Itoa(e.RowNumber),
			string(e.Status),
			string(e.Reason),
			e.RawAccountCode,
			e.AccountCode,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write audit row %d: %w", e.RowNumber, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush audit trail: %w", err)
	}

	return nil
}

// WriteFile writes the audit trail to path, creating its directory.
func WriteFile(path string, entries []types.AuditEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create audit file: %w", err)
	}

	if err := WriteTo(file, entries); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
