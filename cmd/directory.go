// =============================================================================
// Ledger Import - Directory Commands
// =============================================================================
//
// Commands for checking the external account directory without running a
// generation.
//
// COMMAND USAGE:
//   ledgerimport directory ping        - test the database connection
//   ledgerimport directory accounts    - list the resolvable account codes
//   ledgerimport directory companies   - list the companies
//   ledgerimport directory order-types - list the known order types
//
// =============================================================================

package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/ginjaninja78/ledger-import/internal/directory"
	"github.com/ginjaninja78/ledger-import/internal/ledger"
	"github.com/spf13/cobra"
)

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Inspect the external account directory",
}

var directoryPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test the connection to the account directory database",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := directory.NewSQLProvider(appConfig.Directory, log)
		if err := provider.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("directory not reachable: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %s %s/%s\n",
			appConfig.Directory.Driver, appConfig.Directory.Server, appConfig.Directory.Database)
		return nil
	},
}

var directoryAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the account codes the directory resolves",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := directory.NewSQLProvider(appConfig.Directory, log)
		snap, err := provider.LoadAccounts(cmd.Context())
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(snap.Meta))
		for id := range snap.Meta {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCODE\tNAME")
		for _, id := range ids {
			meta := snap.Meta[id]
			fmt.Fprintf(w, "%d\t%s\t%s\n", id, meta.Code, meta.Name)
		}
		fmt.Fprintf(w, "\n%d code(s)\n", snap.Len())
		return w.Flush()
	},
}

var directoryCompaniesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List the companies orders can be booked for",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := directory.NewSQLProvider(appConfig.Directory, log)
		companies, err := provider.LoadCompanies(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCODE\tNAME")
		for _, c := range companies {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Code, c.Name)
		}
		return w.Flush()
	},
}

var directoryOrderTypesCmd = &cobra.Command{
	Use:   "order-types",
	Short: "List the order types and their ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, t := range ledger.OrderTypes() {
			fmt.Fprintf(w, "%d\t%s\n", t.ID, t.Name)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(directoryCmd)
	directoryCmd.AddCommand(directoryPingCmd, directoryAccountsCmd, directoryCompaniesCmd, directoryOrderTypesCmd)
}
