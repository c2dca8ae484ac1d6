package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// clearCmd wipes the capability sheet back to an empty layout.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the capability sheet",
	Long: `Wipe all contents of the capability sheet and leave a fresh, empty,
correctly headered layout behind. Clearing a workbook that does not
exist is a no-op.`,
	RunE: runClear,
}

func runClear(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(loadedConfig.Workbook.Path); os.IsNotExist(err) {
		// Nothing to clear.
		return nil
	}

	manager, workbook, err := openManager()
	if err != nil {
		return err
	}
	defer workbook.Close()

	if err := manager.Clear(); err != nil {
		return err
	}
	if err := workbook.Save(); err != nil {
		return err
	}

	fmt.Println("Capability sheet cleared.")
	return nil
}

// initCmd creates the sheet layout without discovering anything.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an empty capability sheet",
	Long: `Create the capability sheet layout (headers, status row, section
skeleton) without contacting any server. Running it against an
already initialized sheet changes nothing.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	manager, workbook, err := openManager()
	if err != nil {
		return err
	}
	defer workbook.Close()

	if err := manager.EnsureLayout(); err != nil {
		return err
	}
	if err := workbook.Save(); err != nil {
		return err
	}

	fmt.Println("Capability sheet initialized. Use 'mcpsheet refresh' to populate it.")
	return nil
}

func init() {
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(initCmd)
}
