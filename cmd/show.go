package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laquereric/excel-mcp-client/internal/grid"
	"github.com/laquereric/excel-mcp-client/internal/render"
)

// showCmd prints the current sheet contents to the terminal.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the capability sheet to the terminal",
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(loadedConfig.Workbook.Path); os.IsNotExist(err) {
		fmt.Println("(no workbook)")
		return nil
	}

	workbook, err := grid.OpenWorkbook(loadedConfig.Workbook.Path, loadedConfig.Workbook.Sheet)
	if err != nil {
		return err
	}
	defer workbook.Close()

	preview, err := render.Surface(workbook)
	if err != nil {
		return err
	}
	fmt.Print(preview)
	return nil
}

func init() {
	rootCmd.AddCommand(showCmd)
}
