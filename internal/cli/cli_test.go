package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// buildCommandFixture creates a directory layout and returns its canonical root.
func buildCommandFixture(testingHandle *testing.T) string {
	testingHandle.Helper()
	testingHandle.Setenv("HOME", testingHandle.TempDir())

	temporaryDirectory := testingHandle.TempDir()
	canonicalRoot, canonicalizeError := filepath.EvalSymlinks(temporaryDirectory)
	if canonicalizeError != nil {
		testingHandle.Fatalf("canonicalizing fixture root: %v", canonicalizeError)
	}
	if makeDirectoryError := os.MkdirAll(filepath.Join(canonicalRoot, "sub"), 0o755); makeDirectoryError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirectoryError)
	}
	for _, fileName := range []string{filepath.Join("sub", "inner.txt"), "outer.txt"} {
		if writeError := os.WriteFile(filepath.Join(canonicalRoot, fileName), []byte("content"), 0o644); writeError != nil {
			testingHandle.Fatalf("writing %s: %v", fileName, writeError)
		}
	}
	return canonicalRoot
}

// runCommand executes the root command with the given arguments and
// returns captured stdout.
func runCommand(testingHandle *testing.T, arguments ...string) (string, error) {
	testingHandle.Helper()
	rootCommand := createRootCommand(zap.NewNop())
	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	rootCommand.SetOut(&standardOutput)
	rootCommand.SetErr(&standardError)
	rootCommand.SetArgs(arguments)
	executionError := rootCommand.Execute()
	return standardOutput.String(), executionError
}

// TestWalkCommandRaw verifies the raw tree rendering of the walk command.
func TestWalkCommandRaw(testingHandle *testing.T) {
	fixtureRoot := buildCommandFixture(testingHandle)

	renderedOutput, executionError := runCommand(testingHandle, "walk", fixtureRoot)
	if executionError != nil {
		testingHandle.Fatalf("walk error: %v", executionError)
	}
	for _, expectedFragment := range []string{fixtureRoot, "├── sub", "│   └── inner.txt", "└── outer.txt"} {
		if !strings.Contains(renderedOutput, expectedFragment) {
			testingHandle.Fatalf("walk output missing %q:\n%s", expectedFragment, renderedOutput)
		}
	}
}

// TestListCommandRaw verifies the flat listing of the list command.
func TestListCommandRaw(testingHandle *testing.T) {
	fixtureRoot := buildCommandFixture(testingHandle)

	renderedOutput, executionError := runCommand(testingHandle, "list", fixtureRoot)
	if executionError != nil {
		testingHandle.Fatalf("list error: %v", executionError)
	}
	outputLines := strings.Split(strings.TrimRight(renderedOutput, "\n"), "\n")
	expectedLines := []string{
		"0\t" + fixtureRoot,
		"0\t" + filepath.Join(fixtureRoot, "sub"),
		"1\t" + filepath.Join(fixtureRoot, "sub", "inner.txt"),
		"0\t" + filepath.Join(fixtureRoot, "outer.txt"),
	}
	if len(outputLines) != len(expectedLines) {
		testingHandle.Fatalf("expected %d lines, got %d:\n%s", len(expectedLines), len(outputLines), renderedOutput)
	}
	for lineIndex := range expectedLines {
		if outputLines[lineIndex] != expectedLines[lineIndex] {
			testingHandle.Fatalf("line %d: expected %q, got %q", lineIndex, expectedLines[lineIndex], outputLines[lineIndex])
		}
	}
}

// TestFindCommand verifies the lookup output and the not-found failure.
func TestFindCommand(testingHandle *testing.T) {
	fixtureRoot := buildCommandFixture(testingHandle)

	renderedOutput, executionError := runCommand(testingHandle, "find", "inner.txt", fixtureRoot)
	if executionError != nil {
		testingHandle.Fatalf("find error: %v", executionError)
	}
	expectedPath := filepath.Join(fixtureRoot, "sub", "inner.txt")
	if strings.TrimSpace(renderedOutput) != expectedPath {
		testingHandle.Fatalf("expected %q, got %q", expectedPath, renderedOutput)
	}

	_, missingError := runCommand(testingHandle, "find", "absent.txt", fixtureRoot)
	if missingError == nil || !strings.Contains(missingError.Error(), "absent.txt") {
		testingHandle.Fatalf("expected a not-found error naming the target, got %v", missingError)
	}
}

// TestWalkCommandJSON verifies that the JSON format produces a document.
func TestWalkCommandJSON(testingHandle *testing.T) {
	fixtureRoot := buildCommandFixture(testingHandle)

	renderedOutput, executionError := runCommand(testingHandle, "walk", "--format", "json", fixtureRoot)
	if executionError != nil {
		testingHandle.Fatalf("walk error: %v", executionError)
	}
	if !strings.HasPrefix(strings.TrimSpace(renderedOutput), "[") {
		testingHandle.Fatalf("expected a JSON array, got:\n%s", renderedOutput)
	}
	if !strings.Contains(renderedOutput, `"path"`) {
		testingHandle.Fatalf("JSON output missing records:\n%s", renderedOutput)
	}
}

// TestWalkCommandInvalidFormat verifies rejection of unknown formats.
func TestWalkCommandInvalidFormat(testingHandle *testing.T) {
	fixtureRoot := buildCommandFixture(testingHandle)

	_, executionError := runCommand(testingHandle, "walk", "--format", "yaml", fixtureRoot)
	if executionError == nil || !strings.Contains(executionError.Error(), "yaml") {
		testingHandle.Fatalf("expected an invalid format error, got %v", executionError)
	}
}

// TestWalkCommandMissingPath verifies rejection of nonexistent roots.
func TestWalkCommandMissingPath(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())
	missingPath := filepath.Join(testingHandle.TempDir(), "does-not-exist")

	_, executionError := runCommand(testingHandle, "walk", missingPath)
	if executionError == nil || !strings.Contains(executionError.Error(), "does not exist") {
		testingHandle.Fatalf("expected a missing path error, got %v", executionError)
	}
}

// TestWalkCommandSkipFlags verifies that filter flags reach the traversal.
func TestWalkCommandSkipFlags(testingHandle *testing.T) {
	fixtureRoot := buildCommandFixture(testingHandle)
	hiddenPath := filepath.Join(fixtureRoot, ".hidden")
	if writeError := os.WriteFile(hiddenPath, []byte("content"), 0o644); writeError != nil {
		testingHandle.Fatalf("writing %s: %v", hiddenPath, writeError)
	}

	renderedOutput, executionError := runCommand(testingHandle, "list", "--skip-dotted", fixtureRoot)
	if executionError != nil {
		testingHandle.Fatalf("list error: %v", executionError)
	}
	if strings.Contains(renderedOutput, ".hidden") {
		testingHandle.Fatalf("dotted entry leaked into output:\n%s", renderedOutput)
	}

	excludedOutput, excludeError := runCommand(testingHandle, "list", "--skip-dir", filepath.Join(fixtureRoot, "sub"), fixtureRoot)
	if excludeError != nil {
		testingHandle.Fatalf("list error: %v", excludeError)
	}
	if strings.Contains(excludedOutput, "inner.txt") {
		testingHandle.Fatalf("excluded directory leaked into output:\n%s", excludedOutput)
	}
}
