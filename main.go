// =============================================================================
// Ledger Import - Main Entry Point
// =============================================================================
//
// USAGE:
//   ledgerimport generate <journal>  - Convert a journal into ledger-import XML
//   ledgerimport inspect <journal>   - Show how a journal's columns map
//   ledgerimport directory ...       - Check the external account directory
//   ledgerimport version             - Display the application version
//
// LAYOUT:
//   - cmd/      : CLI command definitions (Cobra)
//   - internal/ : Conversion pipeline, directory, readers and writers
//   - pkg/      : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/ledger-import/cmd"
)

func main() {
	cmd.Execute()
}
