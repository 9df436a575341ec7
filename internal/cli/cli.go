// Package cli provides the dirwalker command line interface.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	dirwalker "github.com/gabrielecodes/dir-walker"
	"github.com/gabrielecodes/dir-walker/internal/appconfig"
	"github.com/gabrielecodes/dir-walker/internal/output"
	"github.com/gabrielecodes/dir-walker/internal/services/clipboard"
	"github.com/gabrielecodes/dir-walker/internal/services/stream"
	"github.com/gabrielecodes/dir-walker/internal/utils"
)

const (
	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"

	skipDottedFlagName = "skip-dotted"
	skipDirFlagName    = "skip-dir"
	maxDepthFlagName   = "max-depth"
	maxEntriesFlagName = "max-entries"
	formatFlagName     = "format"
	copyFlagName       = "copy"
	configFlagName     = "config"
	versionFlagName    = "version"

	versionTemplate = "dirwalker version: %s\n"
	defaultPath     = "."
	rootUse         = "dirwalker"

	rootShortDescription = "dirwalker command line interface"
	rootLongDescription  = `dirwalker traverses a directory tree deterministically with configurable
filters and bounds. Directories sort before files at every level, symbolic
links are skipped, and traversal depth and entry counts are capped.
Use --format to select raw, json, or xml output.`

	walkUse              = "walk [paths...]"
	listUse              = "list [paths...]"
	findUse              = "find <name> [path]"
	walkAlias            = "w"
	listAlias            = "ls"
	findAlias            = "f"
	walkShortDescription = "display the traversal tree (" + walkAlias + ")"
	listShortDescription = "display the flat depth-first listing (" + listAlias + ")"
	findShortDescription = "locate the first entry with a name (" + findAlias + ")"

	// walkLongDescription provides detailed help for the walk command.
	walkLongDescription = `Traverse one or more paths and render the resulting tree.
Use --format to select raw, json, or xml output.`
	// walkUsageExample demonstrates walk command usage.
	walkUsageExample = `  # Render the tree of the current directory, skipping dotted names
  dirwalker walk --skip-dotted .

  # Exclude the vendor directory and cap the depth
  dirwalker walk --skip-dir vendor --max-depth 3 --format json .`

	// listLongDescription provides detailed help for the list command.
	listLongDescription = `Traverse one or more paths and render the flat depth-first view,
one entry per line in raw format.`
	// listUsageExample demonstrates list command usage.
	listUsageExample = `  # List every entry with its depth
  dirwalker list .

  # Bound the listing to the first hundred entries
  dirwalker list --max-entries 100 --format json .`

	// findLongDescription provides detailed help for the find command.
	findLongDescription = `Traverse a path and print the first entry whose file name matches,
searching in depth-first pre-order.`
	// findUsageExample demonstrates find command usage.
	findUsageExample = `  # Locate go.mod under the current directory
  dirwalker find go.mod

  # Locate main.go under a specific root
  dirwalker find main.go ./cmd`

	skipDottedFlagDescription = "skip paths with a dot-prefixed component"
	skipDirFlagDescription    = "directory to exclude from traversal"
	maxDepthFlagDescription   = "maximum traversal depth"
	maxEntriesFlagDescription = "maximum number of visited entries"
	formatFlagDescription     = "output format"
	copyFlagDescription       = "copy rendered output to the clipboard"
	configFlagDescription     = "configuration file path"
	versionFlagDescription    = "display application version"

	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
	// errorClipboardFormat reports a clipboard copy failure.
	errorClipboardFormat = "copying output to clipboard: %w"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case FormatRaw, FormatJSON, FormatXML:
		return true
	default:
		return false
	}
}

// Execute runs the dirwalker application with the provided logger.
func Execute(loggerInstance *zap.Logger) error {
	rootCommand := createRootCommand(loggerInstance)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(loggerInstance *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createWalkCommand(loggerInstance),
		createListCommand(loggerInstance),
		createFindCommand(loggerInstance),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// traversalOptions stores the traversal flag values shared by every command.
type traversalOptions struct {
	skipDotted      bool
	skipDirectories []string
	maximumDepth    int
	maximumEntries  int
	outputFormat    string
	copyEnabled     bool
	configFilePath  string
}

// addTraversalFlags registers the shared traversal flags on the command.
func addTraversalFlags(command *cobra.Command, options *traversalOptions) {
	command.Flags().BoolVar(&options.skipDotted, skipDottedFlagName, false, skipDottedFlagDescription)
	command.Flags().StringArrayVar(&options.skipDirectories, skipDirFlagName, nil, skipDirFlagDescription)
	command.Flags().IntVar(&options.maximumDepth, maxDepthFlagName, dirwalker.DefaultMaxDepth, maxDepthFlagDescription)
	command.Flags().IntVar(&options.maximumEntries, maxEntriesFlagName, dirwalker.DefaultMaxEntries, maxEntriesFlagDescription)
	command.Flags().StringVar(&options.outputFormat, formatFlagName, FormatRaw, formatFlagDescription)
	command.Flags().BoolVar(&options.copyEnabled, copyFlagName, false, copyFlagDescription)
	command.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
}

// applyConfigurationDefaults overlays configuration file values onto flags
// the user did not set explicitly.
func applyConfigurationDefaults(command *cobra.Command, options *traversalOptions, commandConfiguration appconfig.CommandConfiguration) {
	flagSet := command.Flags()
	if !flagSet.Changed(formatFlagName) && commandConfiguration.Format != "" {
		options.outputFormat = commandConfiguration.Format
	}
	if !flagSet.Changed(skipDottedFlagName) && commandConfiguration.SkipDotted != nil {
		options.skipDotted = *commandConfiguration.SkipDotted
	}
	if !flagSet.Changed(maxDepthFlagName) && commandConfiguration.MaxDepth != nil {
		options.maximumDepth = *commandConfiguration.MaxDepth
	}
	if !flagSet.Changed(maxEntriesFlagName) && commandConfiguration.MaxEntries != nil {
		options.maximumEntries = *commandConfiguration.MaxEntries
	}
	if !flagSet.Changed(skipDirFlagName) && len(commandConfiguration.SkipDirectories) > 0 {
		options.skipDirectories = append([]string{}, commandConfiguration.SkipDirectories...)
	}
	if !flagSet.Changed(copyFlagName) && commandConfiguration.Clipboard != nil {
		options.copyEnabled = *commandConfiguration.Clipboard
	}
}

// createWalkCommand returns the walk subcommand.
func createWalkCommand(loggerInstance *zap.Logger) *cobra.Command {
	var options traversalOptions

	walkCommand := &cobra.Command{
		Use:     walkUse,
		Aliases: []string{walkAlias},
		Short:   walkShortDescription,
		Long:    walkLongDescription,
		Example: walkUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runTraversalCommand(command, arguments, &options, loggerInstance, commandKindWalk, "")
		},
	}
	addTraversalFlags(walkCommand, &options)
	return walkCommand
}

// createListCommand returns the list subcommand.
func createListCommand(loggerInstance *zap.Logger) *cobra.Command {
	var options traversalOptions

	listCommand := &cobra.Command{
		Use:     listUse,
		Aliases: []string{listAlias},
		Short:   listShortDescription,
		Long:    listLongDescription,
		Example: listUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runTraversalCommand(command, arguments, &options, loggerInstance, commandKindList, "")
		},
	}
	addTraversalFlags(listCommand, &options)
	return listCommand
}

// createFindCommand returns the find subcommand.
func createFindCommand(loggerInstance *zap.Logger) *cobra.Command {
	var options traversalOptions

	findCommand := &cobra.Command{
		Use:     findUse,
		Aliases: []string{findAlias},
		Short:   findShortDescription,
		Long:    findLongDescription,
		Example: findUsageExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(command *cobra.Command, arguments []string) error {
			targetName := arguments[0]
			searchPaths := arguments[1:]
			return runTraversalCommand(command, searchPaths, &options, loggerInstance, commandKindFind, targetName)
		},
	}
	addTraversalFlags(findCommand, &options)
	return findCommand
}

type commandKind int

const (
	commandKindWalk commandKind = iota
	commandKindList
	commandKindFind
)

// commandConfigurationFor selects the configuration section for the command.
func commandConfigurationFor(applicationConfiguration appconfig.ApplicationConfiguration, kind commandKind) appconfig.CommandConfiguration {
	switch kind {
	case commandKindList:
		return applicationConfiguration.List
	case commandKindFind:
		return applicationConfiguration.Find
	default:
		return applicationConfiguration.Walk
	}
}

// runTraversalCommand executes walk, list, or find with shared plumbing:
// configuration defaults, path validation, the streaming render pipeline,
// and the optional clipboard copy.
func runTraversalCommand(
	command *cobra.Command,
	arguments []string,
	options *traversalOptions,
	loggerInstance *zap.Logger,
	kind commandKind,
	targetName string,
) (err error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	applicationConfiguration, configurationError := appconfig.LoadApplicationConfiguration(appconfig.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	applyConfigurationDefaults(command, options, commandConfigurationFor(applicationConfiguration, kind))

	outputFormatLower := strings.ToLower(options.outputFormat)
	if !isSupportedFormat(outputFormatLower) {
		return fmt.Errorf(invalidFormatMessage, outputFormatLower)
	}

	if len(arguments) == 0 {
		arguments = []string{defaultPath}
	}
	validatedPaths, pathValidationError := resolveAndValidatePaths(arguments)
	if pathValidationError != nil {
		return pathValidationError
	}

	standardOutput := command.OutOrStdout()
	standardError := command.ErrOrStderr()
	var clipboardBuffer *bytes.Buffer
	if options.copyEnabled {
		clipboardBuffer = &bytes.Buffer{}
		standardOutput = io.MultiWriter(standardOutput, clipboardBuffer)
	}

	var renderer output.StreamRenderer
	switch outputFormatLower {
	case FormatRaw:
		renderer = output.NewRawStreamRenderer(standardOutput, standardError)
	case FormatJSON:
		renderer = output.NewJSONStreamRenderer(standardOutput, standardError)
	case FormatXML:
		renderer = output.NewXMLStreamRenderer(standardOutput, standardError)
	}

	defer func() {
		if flushError := renderer.Flush(); flushError != nil && err == nil {
			err = flushError
		}
		if err == nil && clipboardBuffer != nil {
			if copyError := clipboard.NewService().Copy(clipboardBuffer.String()); copyError != nil {
				err = fmt.Errorf(errorClipboardFormat, copyError)
			}
		}
	}()

	ctx := context.Background()
	for _, rootPath := range validatedPaths {
		loggerInstance.Debug("running traversal",
			zap.String("path", rootPath),
			zap.String("format", outputFormatLower))
		// Traversal warnings reach stderr through the renderer's warning
		// events; a console logger here would print each of them twice.
		walkOptions := stream.WalkOptions{
			Root:            rootPath,
			SkipDotted:      options.skipDotted,
			SkipDirectories: options.skipDirectories,
			MaxDepth:        options.maximumDepth,
			MaxEntries:      options.maximumEntries,
		}
		producer := func(streamCtx context.Context, events chan<- stream.Event) error {
			switch kind {
			case commandKindList:
				return stream.StreamFlat(streamCtx, walkOptions, events)
			case commandKindFind:
				return stream.StreamFind(streamCtx, walkOptions, targetName, events)
			default:
				return stream.StreamTree(streamCtx, walkOptions, events)
			}
		}
		if dispatchError := dispatchStream(ctx, producer, renderer.Handle); dispatchError != nil {
			return dispatchError
		}
	}

	return nil
}

// dispatchStream runs the producer and the consumer concurrently, joined
// by an event channel. The traversal inside the producer stays sequential.
func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if consumeError := consume(event); consumeError != nil {
					return consumeError
				}
			}
		}
	})

	if waitError := group.Wait(); waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}

// resolveAndValidatePaths converts input paths to absolute form and validates their existence.
func resolveAndValidatePaths(inputs []string) ([]string, error) {
	seen := make(map[string]struct{})
	var result []string
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, alreadySeen := seen[cleanPath]; alreadySeen {
			continue
		}
		if _, fileStatusError := os.Stat(cleanPath); fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, cleanPath)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return result, nil
}
