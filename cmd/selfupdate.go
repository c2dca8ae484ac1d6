package cmd

import (
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const githubSlug = "laquereric/excel-mcp-client"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update mcpsheet to the latest release",
		Long: `Check GitHub for a newer mcpsheet release and replace the current
binary with it. Development builds cannot be updated this way.`,
		RunE: runSelfUpdate,
	}
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	version := rootCmd.Version
	if version == "" || version == "dev" {
		return fmt.Errorf("cannot self-update a development version (%q); install a released build first", version)
	}

	ctx := cmd.Context()
	release, err := selfupdate.UpdateSelf(ctx, version, selfupdate.ParseSlug(githubSlug))
	if err != nil {
		return fmt.Errorf("self-update failed: %w", err)
	}

	if release.Version() == version {
		fmt.Printf("Already up to date (version %s)\n", version)
		return nil
	}
	fmt.Printf("Updated to version %s\n", release.Version())
	return nil
}

func init() {
	rootCmd.AddCommand(newSelfUpdateCmd())
}
