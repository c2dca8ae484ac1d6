package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/laquereric/excel-mcp-client/internal/config"
	"github.com/laquereric/excel-mcp-client/internal/connector"
	"github.com/laquereric/excel-mcp-client/internal/grid"
	"github.com/laquereric/excel-mcp-client/internal/sheet"
	"github.com/laquereric/excel-mcp-client/pkg/logging"
)

var (
	flagWorkbook string
	flagSheet    string
	flagCLIPath  string
	flagTimeout  time.Duration
	flagLogLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcpsheet",
	Short: "Reconcile MCP server capabilities into a spreadsheet",
	Long: `mcpsheet discovers the tools, resources, and prompts exposed by your
MCP servers and reconciles them into a capability sheet in an .xlsx
workbook: one column per server, one row per capability. Columns and
rows keep their position across refreshes, so notes and formulas next
to them survive.`,
	// SilenceUsage is set to true to prevent printing usage message on
	// errors handled by us (e.g. invalid arguments, unreachable servers)
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		applyFlags(&cfg)
		loadedConfig = cfg

		logging.InitForCLI(logging.ParseLevel(cfg.GlobalSettings.LogLevel), os.Stderr)
		return nil
	},
}

// loadedConfig is the merged configuration, populated before any
// subcommand runs.
var loadedConfig config.Config

func applyFlags(cfg *config.Config) {
	if flagWorkbook != "" {
		cfg.Workbook.Path = flagWorkbook
	}
	if flagSheet != "" {
		cfg.Workbook.Sheet = flagSheet
	}
	if flagCLIPath != "" {
		cfg.Connector.CLIPath = flagCLIPath
	}
	if flagTimeout != 0 {
		cfg.Connector.Timeout = flagTimeout
	}
	if flagLogLevel != "" {
		cfg.GlobalSettings.LogLevel = flagLogLevel
	}
}

// newSource builds the capability source selected by the configuration.
func newSource() connector.Source {
	if loadedConfig.Connector.Mode == config.SourceModeMCP {
		return connector.NewMCPSource(loadedConfig.Connector.Endpoints, loadedConfig.Connector.Timeout)
	}
	return connector.NewCLISource(loadedConfig.Connector.CLIPath, loadedConfig.Connector.Timeout)
}

// openManager opens the configured workbook and attaches a sheet
// manager to it. The caller saves the workbook after mutating it.
func openManager() (*sheet.Manager, *grid.Workbook, error) {
	workbook, err := grid.OpenWorkbook(loadedConfig.Workbook.Path, loadedConfig.Workbook.Sheet)
	if err != nil {
		return nil, nil, err
	}
	return sheet.NewManager(workbook, newSource()), workbook, nil
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcpsheet version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagWorkbook, "workbook", "w", "", "Workbook file the capability sheet lives in")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "Sheet name (default \"MCPs\")")
	rootCmd.PersistentFlags().StringVar(&flagCLIPath, "cli-path", "", "Path to the manus-mcp-cli binary")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-call timeout for capability source calls")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// printResult renders a refresh summary: counts on success, counts
// plus the per-server error list otherwise.
func printResult(result *sheet.RefreshResult) {
	if len(result.Errors) > 0 {
		fmt.Printf("Found %d servers, %d connected.\n\nErrors:\n", result.ServersFound, result.ServersConnected)
		for _, msg := range result.Errors {
			fmt.Println(msg)
		}
		return
	}
	fmt.Printf("Successfully updated!\nFound %d servers, %d connected.\n", result.ServersFound, result.ServersConnected)
}
