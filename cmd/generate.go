// =============================================================================
// Ledger Import - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which converts one journal file
// into a ledger-import XML document and its audit trail.
//
// COMMAND USAGE:
//   ledgerimport generate <journal> [flags]
//
// FLAGS:
//   --input       : Journal file (alternative to the positional argument)
//   --output      : Output XML path (default: derived from the input name)
//   --company     : Company code for the order header (required)
//   --order-type  : Order type name (default from config)
//   --note        : Order note and external number (default from config)
//   --no-db       : Skip the external directory, use the fallback table only
//   --dry-run     : Process everything but write no files
//
// EXIT STATUS:
//   Non-zero when no document was produced, including the case where every
//   row was skipped. The audit trail is still written in that case.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ginjaninja78/ledger-import/internal/converter"
	"github.com/ginjaninja78/ledger-import/internal/directory"
	"github.com/ginjaninja78/ledger-import/internal/types"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputPath   string
	outputPath  string
	companyCode string
	orderType   string
	orderNote   string
	noDB        bool
	dryRun      bool
)

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate [journal]",
	Short: "Generate the ledger-import XML from a journal file",
	Long: `The generate command reads a journal (XLSX, XLSM or CSV), resolves every
row's account code against the account directory and writes:

  - the ledger-import XML document (one order, its line items and the
    descriptor of every account they use)
  - the audit trail CSV with one record per journal row

Rows are skipped when the account code is empty, the code is not in the
directory, or both amounts are zero. If every row is skipped, no XML is
written and an XML left by an earlier run at the same path is removed.`,

	Args: cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		input := inputPath
		if len(args) == 1 {
			input = args[0]
		}
		if input == "" {
			return fmt.Errorf("a journal file is required (argument or --input)")
		}
		return runGenerate(cmd.Context(), cmd.OutOrStdout(), input)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Journal file to convert")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output XML path (default: derived from the input name)")
	generateCmd.Flags().StringVar(&companyCode, "company", "", "Company code for the order header")
	generateCmd.Flags().StringVar(&orderType, "order-type", "", "Order type name")
	generateCmd.Flags().StringVar(&orderNote, "note", "", "Order note and external number")
	generateCmd.Flags().BoolVar(&noDB, "no-db", false, "Use only the fallback account table")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Process the journal without writing output files")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runGenerate(ctx context.Context, out io.Writer, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// A nil interface value, not a nil *SQLProvider, keeps the converter
	// from calling a disabled provider.
	var provider directory.Provider
	if appConfig.Directory.Enabled && !noDB {
		provider = directory.NewSQLProvider(appConfig.Directory, log)
	}

	conv := converter.New(appConfig, provider, log)
	result := conv.Run(ctx, converter.Options{
		InputPath:   input,
		OutputPath:  outputPath,
		CompanyCode: companyCode,
		OrderType:   orderType,
		Note:        orderNote,
		DryRun:      dryRun,
	})

	printSummary(out, result, dryRun)

	if result.Error != nil {
		return result.Error
	}
	return nil
}

// printSummary writes the run summary to stdout.
func printSummary(out io.Writer, result converter.Result, dry bool) {
	fmt.Fprintln(out, "=== Ledger Import ===")
	fmt.Fprintf(out, "Input:           %s\n", filepath.Base(result.FilePath))
	fmt.Fprintf(out, "Run ID:          %s\n", result.RunID)
	fmt.Fprintf(out, "Directory:       %s (%d accounts)\n", result.Stats.DirectorySource, result.Stats.DirectorySize)
	fmt.Fprintf(out, "Rows:            %d\n", result.Stats.RowsProcessed)
	fmt.Fprintf(out, "Line items:      %d\n", result.Stats.LineItemsCreated)
	fmt.Fprintf(out, "Skipped:         %d\n", result.Stats.RowsSkipped)

	reasons := make([]types.SkipReason, 0, len(result.Stats.SkipsByReason))
	for reason := range result.Stats.SkipsByReason {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	for _, reason := range reasons {
		fmt.Fprintf(out, "  %-15s %d\n", string(reason)+":", result.Stats.SkipsByReason[reason])
	}

	fmt.Fprintf(out, "Accounts used:   %d\n", result.Stats.AccountsUsed)

	switch {
	case result.Success && dry:
		fmt.Fprintf(out, "Output:          %s (dry run, not written)\n", result.OutputFile)
	case result.Success:
		fmt.Fprintf(out, "Output:          %s\n", result.OutputFile)
	case result.Error != nil:
		fmt.Fprintf(out, "  ✗ %v\n", result.Error)
	}

	if result.AuditFile != "" {
		fmt.Fprintf(out, "Audit trail:     %s\n", result.AuditFile)
	}
	if result.AuditError != nil {
		fmt.Fprintf(os.Stderr, "Warning: audit trail not written: %v\n", result.AuditError)
	}

	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Stats.ProcessingTime)
}
