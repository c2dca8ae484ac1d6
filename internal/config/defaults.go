package config

import "time"

// Default workbook location and sheet name.
const (
	DefaultWorkbookPath = "mcps.xlsx"
	DefaultSheetName    = "MCPs"
)

// GetDefaultConfig returns the built-in configuration every layer is
// merged on top of.
func GetDefaultConfig() Config {
	return Config{
		GlobalSettings: GlobalSettings{
			LogLevel: "info",
		},
		Connector: ConnectorConfig{
			Mode:    SourceModeCLI,
			Timeout: 30 * time.Second,
		},
		Workbook: WorkbookConfig{
			Path:  DefaultWorkbookPath,
			Sheet: DefaultSheetName,
		},
	}
}
