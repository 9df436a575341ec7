package appconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gabrielecodes/dir-walker/internal/appconfig"
)

const configurationFileContent = `walk:
  format: json
  skip_dotted: true
  max_depth: 3
  max_entries: 50
  skip_directories:
    - vendor
list:
  format: xml
`

// TestLoadApplicationConfiguration verifies decoding of a local configuration file.
func TestLoadApplicationConfiguration(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())
	workingDirectory := testingHandle.TempDir()
	configurationPath := filepath.Join(workingDirectory, appconfig.ConfigFileName)
	if writeError := os.WriteFile(configurationPath, []byte(configurationFileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("writing configuration: %v", writeError)
	}

	configuration, loadError := appconfig.LoadApplicationConfiguration(appconfig.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration error: %v", loadError)
	}

	if configuration.Walk.Format != "json" {
		testingHandle.Fatalf("expected walk format json, got %q", configuration.Walk.Format)
	}
	if configuration.Walk.SkipDotted == nil || !*configuration.Walk.SkipDotted {
		testingHandle.Fatalf("expected walk skip_dotted true, got %v", configuration.Walk.SkipDotted)
	}
	if configuration.Walk.MaxDepth == nil || *configuration.Walk.MaxDepth != 3 {
		testingHandle.Fatalf("expected walk max_depth 3, got %v", configuration.Walk.MaxDepth)
	}
	if configuration.Walk.MaxEntries == nil || *configuration.Walk.MaxEntries != 50 {
		testingHandle.Fatalf("expected walk max_entries 50, got %v", configuration.Walk.MaxEntries)
	}
	if len(configuration.Walk.SkipDirectories) != 1 || configuration.Walk.SkipDirectories[0] != "vendor" {
		testingHandle.Fatalf("unexpected walk skip_directories: %v", configuration.Walk.SkipDirectories)
	}
	if configuration.List.Format != "xml" {
		testingHandle.Fatalf("expected list format xml, got %q", configuration.List.Format)
	}
	if configuration.Find.Format != "" {
		testingHandle.Fatalf("expected empty find format, got %q", configuration.Find.Format)
	}
}

// TestLoadApplicationConfigurationMissingFile verifies that absent files are not errors.
func TestLoadApplicationConfigurationMissingFile(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())
	configuration, loadError := appconfig.LoadApplicationConfiguration(appconfig.LoadOptions{WorkingDirectory: testingHandle.TempDir()})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration error: %v", loadError)
	}
	if configuration.Walk.Format != "" && configuration.Walk.Format != "raw" {
		testingHandle.Fatalf("unexpected walk format %q from a missing file", configuration.Walk.Format)
	}
}

// TestMerge verifies that overrides win field by field.
func TestMerge(testingHandle *testing.T) {
	baseSkipDotted := false
	baseDepth := 10
	base := appconfig.ApplicationConfiguration{
		Walk: appconfig.CommandConfiguration{
			Format:     "raw",
			SkipDotted: &baseSkipDotted,
			MaxDepth:   &baseDepth,
		},
	}
	overrideSkipDotted := true
	override := appconfig.ApplicationConfiguration{
		Walk: appconfig.CommandConfiguration{
			Format:     "json",
			SkipDotted: &overrideSkipDotted,
		},
	}

	merged := base.Merge(override)
	if merged.Walk.Format != "json" {
		testingHandle.Fatalf("expected format json after merge, got %q", merged.Walk.Format)
	}
	if merged.Walk.SkipDotted == nil || !*merged.Walk.SkipDotted {
		testingHandle.Fatalf("expected skip_dotted true after merge, got %v", merged.Walk.SkipDotted)
	}
	if merged.Walk.MaxDepth == nil || *merged.Walk.MaxDepth != 10 {
		testingHandle.Fatalf("expected max_depth 10 preserved, got %v", merged.Walk.MaxDepth)
	}

	overrideSkipDotted = false
	if merged.Walk.SkipDotted == nil || !*merged.Walk.SkipDotted {
		testingHandle.Fatalf("merge shared the override's pointer instead of cloning")
	}
}
