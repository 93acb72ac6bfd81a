// =============================================================================
// Ledger Import - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ledgerimport)
//   ├── generateCmd  (ledgerimport generate)
//   ├── inspectCmd   (ledgerimport inspect)
//   ├── directoryCmd (ledgerimport directory ping|accounts|companies)
//   └── versionCmd   (ledgerimport version)
//
// The root command loads the configuration and builds the logger before any
// subcommand runs.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/ledger-import/internal/config"
	"github.com/ginjaninja78/ledger-import/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig and log are set by PersistentPreRunE.
var (
	appConfig *config.MainConfig
	log       zerolog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "ledgerimport",
	Short: "Ledger Import - Turn accounting journals into ledger-import XML",
	Long: `Ledger Import converts an accounting journal (XLSX or CSV) into the XML
document accepted by the ledger's bulk import, plus an audit trail that
records for every row whether it was kept or why it was skipped.

Account codes are resolved against the external account directory (SQL
Server or PostgreSQL). When the directory is unavailable or empty, the
fallback account table is used instead.

Example Usage:
  ledgerimport generate journal.xlsx --company 01
  ledgerimport generate journal.csv --company 01 --no-db --dry-run
  ledgerimport inspect journal.xlsx
  ledgerimport directory ping`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadMainConfig(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}

		appConfig = cfg
		log = logger.New(logger.Options{Level: level, Format: cfg.LogFormat})
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: the main configuration file. A missing default file is
	// fine; a missing file given explicitly is an error.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the main configuration file",
	)

	// --verbose flag: debug logging, including one line per skipped row.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
