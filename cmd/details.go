package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/laquereric/excel-mcp-client/internal/connector"
	"github.com/laquereric/excel-mcp-client/internal/grid"
	"github.com/laquereric/excel-mcp-client/internal/sheet"
)

var detailsCopy bool

// detailsCmd shows what a sheet cell represents and the capability's
// full definition.
var detailsCmd = &cobra.Command{
	Use:   "details <cell>",
	Short: "Show details for the capability at a sheet cell",
	Long: `Resolve a sheet cell (e.g. B6) to the server, section, and capability
it represents, then fetch and print the capability's full definition
from the server. Cells outside a server column or not aligned to a
label row resolve to nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetails,
}

func runDetails(cmd *cobra.Command, args []string) error {
	col, row, err := excelize.CellNameToCoordinates(args[0])
	if err != nil {
		return fmt.Errorf("invalid cell reference %q: %w", args[0], err)
	}

	workbook, err := grid.OpenWorkbook(loadedConfig.Workbook.Path, loadedConfig.Workbook.Sheet)
	if err != nil {
		return err
	}
	defer workbook.Close()

	location, ok, err := sheet.Locate(workbook, row, col)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No capability at that cell. Select a ✓ or label cell inside a server column.")
		return nil
	}

	source := newSource()
	ctx := cmd.Context()

	var detail map[string]interface{}
	switch location.Section {
	case connector.SectionTool:
		detail, err = source.ToolDetail(ctx, location.Server, location.Name)
	case connector.SectionResource:
		detail, err = source.ResourceDetail(ctx, location.Server, location.Name)
	case connector.SectionPrompt:
		detail, err = source.PromptDetail(ctx, location.Server, location.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch details for %s: %w", location.Name, err)
	}

	fmt.Printf("Server: %s\nType: %s\nName: %s\n", location.Server, location.Section, location.Name)
	if detail == nil {
		fmt.Println("\nNo additional details available.")
		return nil
	}

	pretty, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("\nDetails:\n%s\n", pretty)

	if detailsCopy {
		if err := clipboard.WriteAll(string(pretty)); err != nil {
			return fmt.Errorf("failed to copy details to clipboard: %w", err)
		}
		fmt.Println("\nCopied to clipboard.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(detailsCmd)
	detailsCmd.Flags().BoolVar(&detailsCopy, "copy", false, "Copy the detail JSON to the clipboard")
}
