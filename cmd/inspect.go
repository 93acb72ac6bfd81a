// =============================================================================
// Ledger Import - Inspect Command
// =============================================================================
//
// The 'inspect' command loads a journal and reports how its columns map to
// the required fields, without touching the account directory. Missing
// columns are reported as a warning here and are a hard failure in
// 'generate'.
//
// COMMAND USAGE:
//   ledgerimport inspect <journal> [--sheet NAME]
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/ledger-import/internal/columns"
	"github.com/ginjaninja78/ledger-import/internal/converter"
	"github.com/ginjaninja78/ledger-import/internal/xlsxparser"
	"github.com/spf13/cobra"
)

var inspectSheet string

var inspectCmd = &cobra.Command{
	Use:   "inspect <journal>",
	Short: "Show the sheets, headers and column mapping of a journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		out := cmd.OutOrStdout()

		settings := appConfig.Input
		if inspectSheet != "" {
			settings.Sheet = inspectSheet
		}

		if isWorkbook(path) {
			sheets, err := xlsxparser.SheetNames(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Sheets: %s\n", strings.Join(sheets, ", "))
		}

		table, err := converter.ReadTable(path, settings)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Rows:   %d\n\n", len(table.Rows))

		mapping, _ := columns.NewResolver(appConfig.Columns.Synonyms).Resolve(columns.Required, table.Headers)

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tCOLUMN")
		for _, field := range columns.Required {
			col, ok := mapping[field]
			if !ok {
				col = "(missing)"
			}
			fmt.Fprintf(w, "%s\t%s\n", field, col)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if missing := columns.Missing(table.Headers, appConfig.Columns.Synonyms); len(missing) > 0 {
			names := make([]string, len(missing))
			for i, f := range missing {
				names[i] = string(f)
			}
			log.Warn().Strs("missing", names).Str("file", path).Msg("journal is missing required columns")
		}
		return nil
	},
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	default:
		return false
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectSheet, "sheet", "", "Workbook sheet to read (default: first sheet)")
}
