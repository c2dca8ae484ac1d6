package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/laquereric/excel-mcp-client/internal/query"
)

// serversCmd lists all known server identifiers.
var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List all known MCP servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		functions := query.New(newSource())
		fmt.Println(functions.ListServers(cmd.Context()))
		return nil
	},
}

// statusCmd reports a single server's connection status.
var statusCmd = &cobra.Command{
	Use:   "status <server>",
	Short: "Report the connection status of a server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		functions := query.New(newSource())
		fmt.Println(functions.ServerStatus(cmd.Context(), args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serversCmd)
	rootCmd.AddCommand(statusCmd)
}
