// Package commands implements the inventory command line: the API server, the demo
// catalog seeder and version reporting.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const appName = "inventory"

// Version is overridden at build time with -ldflags "-X inventory/commands.Version=...".
var Version = "dev"

// RootCmd builds the command tree.
func RootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Inventory analytics backend",
		Long: `Inventory analytics backend.

Serves the REST API that merges stored products with safety stock and
reorder point recommendations, and manages suppliers and purchase orders.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(serveCmd(&configPath))
	cmd.AddCommand(seedCmd(&configPath))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
