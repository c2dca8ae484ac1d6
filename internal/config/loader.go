package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/mcpsheet"
	projectConfigDir = ".mcpsheet"
	configFileName   = "config.yaml"
)

// LoadConfig loads the configuration by layering default, user, and
// project settings. Missing files are fine; unreadable ones are not.
func LoadConfig() (Config, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; warn and carry on.
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero-valued
// overlay fields leave the base untouched.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.GlobalSettings.LogLevel != "" {
		merged.GlobalSettings.LogLevel = overlay.GlobalSettings.LogLevel
	}

	if overlay.Connector.Mode != "" {
		merged.Connector.Mode = overlay.Connector.Mode
	}
	if overlay.Connector.CLIPath != "" {
		merged.Connector.CLIPath = overlay.Connector.CLIPath
	}
	if overlay.Connector.Timeout != 0 {
		merged.Connector.Timeout = overlay.Connector.Timeout
	}
	if len(overlay.Connector.Endpoints) > 0 {
		if merged.Connector.Endpoints == nil {
			merged.Connector.Endpoints = make(map[string]string)
		}
		for name, endpoint := range overlay.Connector.Endpoints {
			merged.Connector.Endpoints[name] = endpoint
		}
	}

	if overlay.Workbook.Path != "" {
		merged.Workbook.Path = overlay.Workbook.Path
	}
	if overlay.Workbook.Sheet != "" {
		merged.Workbook.Sheet = overlay.Workbook.Sheet
	}

	return merged
}
