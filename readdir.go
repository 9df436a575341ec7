package dirwalker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

const (
	// errorReadDirectoryFormat is used when a directory cannot be enumerated.
	errorReadDirectoryFormat = "%w: reading directory %s: %w"

	// warningChildMetadataMessage is logged when a child's metadata cannot be read.
	warningChildMetadataMessage = "skipping entry with unreadable metadata"
)

// readDirectory returns the admitted immediate children of the given
// directory as records ordered with directories first, each group sorted
// lexicographically by path. Symbolic links and entries that are neither
// directories nor regular files are omitted. A child whose metadata cannot
// be read is omitted with a warning; a failure to enumerate the directory
// itself aborts with an error wrapping ErrIO.
func (walkTraversal *traversal) readDirectory(directoryPath string) ([]Record, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, ErrIO, directoryPath, readDirectoryError)
	}

	var directoryRecords []Record
	var fileRecords []Record
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(directoryPath, directoryEntry.Name())

		entryInformation, informationError := directoryEntry.Info()
		if informationError != nil {
			walkTraversal.logger.Warn(warningChildMetadataMessage,
				zap.String("path", childPath),
				zap.Error(informationError))
			continue
		}

		entryMode := entryInformation.Mode()
		if entryMode&fs.ModeSymlink != 0 {
			continue
		}

		var entryKind string
		switch {
		case entryMode.IsDir():
			entryKind = KindDirectory
		case entryMode.IsRegular():
			entryKind = KindFile
		default:
			continue
		}

		if !walkTraversal.filter.admits(childPath) {
			continue
		}

		childRecord := Record{
			Path: childPath,
			Name: directoryEntry.Name(),
			Kind: entryKind,
		}
		if entryKind == KindDirectory {
			directoryRecords = append(directoryRecords, childRecord)
		} else {
			fileRecords = append(fileRecords, childRecord)
		}
	}

	sort.Slice(directoryRecords, func(firstIndex, secondIndex int) bool {
		return directoryRecords[firstIndex].Path < directoryRecords[secondIndex].Path
	})
	sort.Slice(fileRecords, func(firstIndex, secondIndex int) bool {
		return fileRecords[firstIndex].Path < fileRecords[secondIndex].Path
	})

	return append(directoryRecords, fileRecords...), nil
}
