package config

import "time"

// SourceMode selects how capabilities are discovered.
type SourceMode string

const (
	// SourceModeCLI shells out to the manus-mcp-cli binary.
	SourceModeCLI SourceMode = "cli"
	// SourceModeMCP speaks the protocol directly over streamable-http.
	SourceModeMCP SourceMode = "mcp"
)

// Config is the top-level configuration structure.
type Config struct {
	GlobalSettings GlobalSettings  `yaml:"globalSettings"`
	Connector      ConnectorConfig `yaml:"connector"`
	Workbook       WorkbookConfig  `yaml:"workbook"`
}

// GlobalSettings holds settings that are not tied to one subsystem.
type GlobalSettings struct {
	LogLevel string `yaml:"logLevel,omitempty"` // "debug", "info", "warn", "error"
}

// ConnectorConfig describes the capability source.
type ConnectorConfig struct {
	Mode    SourceMode    `yaml:"mode,omitempty"`    // "cli" (default) or "mcp"
	CLIPath string        `yaml:"cliPath,omitempty"` // manus-mcp-cli binary, resolved from PATH when empty
	Timeout time.Duration `yaml:"timeout,omitempty"` // per-call timeout

	// Endpoints maps server name to streamable-http endpoint; only
	// consulted in "mcp" mode, where it also defines the server list.
	Endpoints map[string]string `yaml:"endpoints,omitempty"`
}

// WorkbookConfig names the workbook file and sheet the capability grid
// lives in.
type WorkbookConfig struct {
	Path  string `yaml:"path,omitempty"`
	Sheet string `yaml:"sheet,omitempty"`
}
