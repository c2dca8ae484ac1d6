package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laquereric/excel-mcp-client/internal/grid"
	"github.com/laquereric/excel-mcp-client/internal/render"
	"github.com/laquereric/excel-mcp-client/internal/sheet"
)

var (
	refreshPreview bool
	refreshDryRun  bool
)

// refreshCmd runs one full discovery and reconciliation cycle.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Discover servers and update the capability sheet",
	Long: `Discover all MCP servers, query their capabilities, and reconcile
them into the capability sheet.

Servers keep their column and capabilities keep their row across
refreshes; new ones are appended. Capabilities a server no longer
exposes lose their mark, but the label row stays for other servers.

With --dry-run the refresh runs against an in-memory copy of the
sheet and prints the result; the workbook is not written.`,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if refreshDryRun {
		return runRefreshDryRun(cmd)
	}

	manager, workbook, err := openManager()
	if err != nil {
		return err
	}
	defer workbook.Close()

	result, err := manager.Refresh(cmd.Context())
	if err != nil {
		return err
	}

	if err := workbook.Save(); err != nil {
		return err
	}

	printResult(result)

	if refreshPreview {
		preview, err := render.Surface(workbook)
		if err != nil {
			return err
		}
		fmt.Print("\n" + preview)
	}
	return nil
}

func runRefreshDryRun(cmd *cobra.Command) error {
	mem := grid.NewMemory()
	if _, err := os.Stat(loadedConfig.Workbook.Path); err == nil {
		workbook, err := grid.OpenWorkbook(loadedConfig.Workbook.Path, loadedConfig.Workbook.Sheet)
		if err != nil {
			return err
		}
		defer workbook.Close()
		if err := grid.Copy(mem, workbook); err != nil {
			return err
		}
	}

	result, err := sheet.NewManager(mem, newSource()).Refresh(cmd.Context())
	if err != nil {
		return err
	}

	printResult(result)

	preview, err := render.Surface(mem)
	if err != nil {
		return err
	}
	fmt.Print("\n" + preview)
	return nil
}

func init() {
	rootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().BoolVar(&refreshPreview, "preview", false, "Print the updated sheet to the terminal")
	refreshCmd.Flags().BoolVar(&refreshDryRun, "dry-run", false, "Refresh an in-memory copy and print it without saving")
}
