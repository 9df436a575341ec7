// Package appconfig discovers and merges dirwalker configuration files.
// A global file in the user's home directory provides defaults that a
// local file in the working directory overrides; command-line flags win
// over both.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFileName is the configuration file discovered globally and locally.
const ConfigFileName = ".dirwalker.yaml"

// LoadOptions controls how configuration files are discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds per-command defaults.
type ApplicationConfiguration struct {
	Walk CommandConfiguration `mapstructure:"walk"`
	List CommandConfiguration `mapstructure:"list"`
	Find CommandConfiguration `mapstructure:"find"`
}

// CommandConfiguration defines defaults shared by the walk, list, and
// find commands. Pointer fields distinguish "unset" from explicit values.
type CommandConfiguration struct {
	Format          string   `mapstructure:"format"`
	SkipDotted      *bool    `mapstructure:"skip_dotted"`
	MaxDepth        *int     `mapstructure:"max_depth"`
	MaxEntries      *int     `mapstructure:"max_entries"`
	SkipDirectories []string `mapstructure:"skip_directories"`
	Clipboard       *bool    `mapstructure:"clipboard"`
}

// LoadApplicationConfiguration loads and merges configuration from the
// global and local files. Missing files are not errors.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeDirectoryError := os.UserHomeDir(); homeDirectoryError == nil && homeDirectory != "" {
		globalConfiguration, loadError := loadConfigurationFromPath(filepath.Join(homeDirectory, ConfigFileName))
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath := options.ExplicitFilePath
	if localPath == "" {
		localPath = filepath.Join(workingDirectory, ConfigFileName)
	} else if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(workingDirectory, localPath)
	}
	localConfiguration, loadError := loadConfigurationFromPath(localPath)
	if loadError != nil {
		return ApplicationConfiguration{}, loadError
	}
	merged = merged.Merge(localConfiguration)

	return merged, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	information, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if information.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Walk = result.Walk.merge(override.Walk)
	result.List = result.List.merge(override.List)
	result.Find = result.Find.merge(override.Find)
	return result
}

func (configuration CommandConfiguration) merge(override CommandConfiguration) CommandConfiguration {
	result := configuration
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.SkipDotted != nil {
		result.SkipDotted = cloneBool(override.SkipDotted)
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.MaxEntries != nil {
		result.MaxEntries = cloneInt(override.MaxEntries)
	}
	if len(override.SkipDirectories) > 0 {
		result.SkipDirectories = append([]string{}, override.SkipDirectories...)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
