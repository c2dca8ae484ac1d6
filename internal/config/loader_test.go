package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

// writeConfigFile marshals a config into dir/<relPath>, creating
// intermediate directories.
func writeConfigFile(t *testing.T, dir, relPath string, content Config) {
	t.Helper()
	fullPath := filepath.Join(dir, relPath)
	assert.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	data, err := yaml.Marshal(&content)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(fullPath, data, 0644))
}

// mockConfigPaths points both config lookups into tempDir and restores
// them when the test finishes.
func mockConfigPaths(t *testing.T, tempDir string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})
	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, userConfigDir, configFileName), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, projectConfigDir, configFileName), nil
	}
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	mockConfigPaths(t, t.TempDir())

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	defaults := GetDefaultConfig()
	assert.Equal(t, defaults, loadedConfig)
	assert.Equal(t, SourceModeCLI, loadedConfig.Connector.Mode)
	assert.Equal(t, "mcps.xlsx", loadedConfig.Workbook.Path)
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t, tempDir)

	writeConfigFile(t, tempDir, filepath.Join(userConfigDir, configFileName), Config{
		GlobalSettings: GlobalSettings{LogLevel: "debug"},
		Workbook:       WorkbookConfig{Path: "team-mcps.xlsx"},
	})

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "debug", loadedConfig.GlobalSettings.LogLevel)
	assert.Equal(t, "team-mcps.xlsx", loadedConfig.Workbook.Path)
	// Untouched fields keep their defaults.
	assert.Equal(t, "MCPs", loadedConfig.Workbook.Sheet)
	assert.Equal(t, 30*time.Second, loadedConfig.Connector.Timeout)
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t, tempDir)

	writeConfigFile(t, tempDir, filepath.Join(userConfigDir, configFileName), Config{
		Workbook:  WorkbookConfig{Path: "user.xlsx", Sheet: "UserSheet"},
		Connector: ConnectorConfig{CLIPath: "/usr/local/bin/manus-mcp-cli"},
	})
	writeConfigFile(t, tempDir, filepath.Join(projectConfigDir, configFileName), Config{
		Workbook: WorkbookConfig{Path: "project.xlsx"},
	})

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	// Project wins where set; user config fills the rest.
	assert.Equal(t, "project.xlsx", loadedConfig.Workbook.Path)
	assert.Equal(t, "UserSheet", loadedConfig.Workbook.Sheet)
	assert.Equal(t, "/usr/local/bin/manus-mcp-cli", loadedConfig.Connector.CLIPath)
}

func TestLoadConfig_MalformedFileFails(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t, tempDir)

	badPath := filepath.Join(tempDir, projectConfigDir, configFileName)
	assert.NoError(t, os.MkdirAll(filepath.Dir(badPath), 0755))
	assert.NoError(t, os.WriteFile(badPath, []byte("workbook: [not: closed"), 0644))

	_, err := LoadConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "error loading project config")
}

func TestMergeConfigs_Endpoints(t *testing.T) {
	base := GetDefaultConfig()
	base.Connector.Endpoints = map[string]string{
		"weather-mcp": "http://localhost:9001/mcp",
	}

	merged := mergeConfigs(base, Config{
		Connector: ConnectorConfig{
			Mode: SourceModeMCP,
			Endpoints: map[string]string{
				"database-mcp": "http://localhost:9002/mcp",
			},
		},
	})

	assert.Equal(t, SourceModeMCP, merged.Connector.Mode)
	assert.Len(t, merged.Connector.Endpoints, 2)
	assert.Equal(t, "http://localhost:9001/mcp", merged.Connector.Endpoints["weather-mcp"])
	assert.Equal(t, "http://localhost:9002/mcp", merged.Connector.Endpoints["database-mcp"])
}

func TestMergeConfigs_ZeroOverlayKeepsBase(t *testing.T) {
	base := GetDefaultConfig()
	merged := mergeConfigs(base, Config{})
	assert.Equal(t, base, merged)
}
