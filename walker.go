// Package dirwalker provides a bounded, deterministic, strictly sequential
// recursive directory traversal. A configured Walker produces an in-memory
// Entry tree whose children are ordered directories first, each group
// sorted by path, so that two traversals of an unchanged filesystem yield
// identical results. Traversal depth and the total number of visited
// entries are capped; symbolic links are always skipped.
package dirwalker

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Default traversal bounds applied by New.
const (
	DefaultMaxDepth   = 100
	DefaultMaxEntries = 10000
)

const (
	// errorConfigurationFormat is used when an option recorded at configuration time failed.
	errorConfigurationFormat = "%w: canonicalizing excluded directory %s: %w"
	// errorCanonicalizeRootFormat is used when the root path cannot be canonicalized.
	errorCanonicalizeRootFormat = "%w: canonicalizing root %s: %w"
	// errorStatRootFormat is used when the canonical root cannot be inspected.
	errorStatRootFormat = "%w: inspecting root %s: %w"
	// errorRootNotInParentFormat is used when the parent listing does not yield the root.
	errorRootNotInParentFormat = "%w: %s not present in parent directory %s"
)

// Walker accumulates traversal configuration. It is a value type: every
// option returns the updated walker so options compose fluently, and a
// configured walker may be reused because Walk keeps its per-traversal
// state in a separate context.
type Walker struct {
	rootPath           string
	skipDotted         bool
	skipDirectories    []string
	maximumDepth       int
	maximumEntries     int
	logger             *zap.Logger
	configurationError error
}

// traversal carries the per-Walk state: the immutable configuration
// snapshot and the monotonic visited-entry counter.
type traversal struct {
	filter         filterConfiguration
	maximumDepth   int
	maximumEntries int
	logger         *zap.Logger
	visitedEntries int
}

// New returns a Walker rooted at the given path with default bounds:
// dotted names admitted, no excluded directories, MaxDepth 100, and
// MaxEntries 10000. Relative roots are resolved against the working
// directory when Walk runs.
func New(rootPath string) Walker {
	return Walker{
		rootPath:       rootPath,
		maximumDepth:   DefaultMaxDepth,
		maximumEntries: DefaultMaxEntries,
		logger:         zap.NewNop(),
	}
}

// SkipDotted rejects every path containing a component that begins with a dot.
func (walker Walker) SkipDotted() Walker {
	walker.skipDotted = true
	return walker
}

// SkipDirectories excludes the given directories from traversal. Each path
// is canonicalized to its absolute symlink-free form at configuration time;
// a canonicalization failure is recorded and surfaced by Walk wrapping ErrIO.
func (walker Walker) SkipDirectories(directoryPaths ...string) Walker {
	for _, directoryPath := range directoryPaths {
		canonicalPath, canonicalizeError := canonicalizePath(directoryPath)
		if canonicalizeError != nil {
			if walker.configurationError == nil {
				walker.configurationError = fmt.Errorf(errorConfigurationFormat, ErrIO, directoryPath, canonicalizeError)
			}
			continue
		}
		walker.skipDirectories = append(walker.skipDirectories, canonicalPath)
	}
	return walker
}

// MaxDepth caps the traversal depth. Entries whose depth exceeds the cap
// are not produced; the root's immediate children have depth zero.
func (walker Walker) MaxDepth(maximumDepth int) Walker {
	walker.maximumDepth = maximumDepth
	return walker
}

// MaxEntries caps the total number of records in the result, counting the
// root's own record when present. The traversal stops silently once the
// cap is reached.
func (walker Walker) MaxEntries(maximumEntries int) Walker {
	walker.maximumEntries = maximumEntries
	return walker
}

// WithLogger attaches a logger that reports entries skipped because their
// metadata could not be read. The default logger discards everything.
func (walker Walker) WithLogger(logger *zap.Logger) Walker {
	if logger != nil {
		walker.logger = logger
	}
	return walker
}

// Walk traverses the filesystem under the configured root and returns the
// result tree. The traversal is strictly sequential and fully materialized
// before return; no partial tree accompanies an error. Errors wrap either
// ErrIO or ErrInvalidInput.
func (walker Walker) Walk() (*Entry, error) {
	if walker.configurationError != nil {
		return nil, walker.configurationError
	}

	canonicalRootPath, canonicalizeError := canonicalizePath(walker.rootPath)
	if canonicalizeError != nil {
		return nil, fmt.Errorf(errorCanonicalizeRootFormat, ErrIO, walker.rootPath, canonicalizeError)
	}

	rootInformation, rootStatError := os.Stat(canonicalRootPath)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, ErrIO, canonicalRootPath, rootStatError)
	}

	walkContext := &traversal{
		filter: filterConfiguration{
			skipDotted:      walker.skipDotted,
			skipDirectories: walker.skipDirectories,
		},
		maximumDepth:   walker.maximumDepth,
		maximumEntries: walker.maximumEntries,
		logger:         walker.logger,
	}

	if !rootInformation.IsDir() {
		rootRecord, lookupError := lookupRecordInParent(canonicalRootPath)
		if lookupError != nil {
			return nil, lookupError
		}
		walkContext.visitedEntries = 1
		return &Entry{Record: rootRecord, Depth: 0}, nil
	}

	rootNode := &Entry{Depth: 0}
	if filepath.Dir(canonicalRootPath) != canonicalRootPath {
		rootRecord, lookupError := lookupRecordInParent(canonicalRootPath)
		if lookupError != nil {
			return nil, lookupError
		}
		rootNode.Record = rootRecord
		walkContext.visitedEntries = 1
	}

	childNodes, buildError := walkContext.buildChildren(canonicalRootPath, 0)
	if buildError != nil {
		return nil, buildError
	}
	rootNode.Children = childNodes

	return rootNode, nil
}

// buildChildren assembles the subtree rooted at the given directory. The
// returned nodes carry the given depth; descent stops once the depth cap
// or the entry cap is reached. Any failure to enumerate a directory aborts
// the whole traversal.
func (walkTraversal *traversal) buildChildren(directoryPath string, depth int) ([]*Entry, error) {
	if depth > walkTraversal.maximumDepth {
		return nil, nil
	}

	childRecords, readError := walkTraversal.readDirectory(directoryPath)
	if readError != nil {
		return nil, readError
	}

	var childNodes []*Entry
	for recordIndex := range childRecords {
		if walkTraversal.visitedEntries >= walkTraversal.maximumEntries {
			break
		}
		walkTraversal.visitedEntries++

		childRecord := childRecords[recordIndex]
		childNode := &Entry{Record: &childRecord, Depth: depth}
		if childRecord.Kind == KindDirectory {
			descendantNodes, descendError := walkTraversal.buildChildren(childRecord.Path, depth+1)
			if descendError != nil {
				return nil, descendError
			}
			childNode.Children = descendantNodes
		}
		childNodes = append(childNodes, childNode)
	}

	return childNodes, nil
}

// lookupRecordInParent locates the record for a path by enumerating its
// parent directory, so every node carries a record the filesystem actually
// produced. Enumeration failures wrap ErrIO; a root absent from its
// parent's listing wraps ErrInvalidInput.
func lookupRecordInParent(canonicalPath string) (*Record, error) {
	parentDirectoryPath := filepath.Dir(canonicalPath)

	directoryEntries, readDirectoryError := os.ReadDir(parentDirectoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, ErrIO, parentDirectoryPath, readDirectoryError)
	}

	for _, directoryEntry := range directoryEntries {
		if filepath.Join(parentDirectoryPath, directoryEntry.Name()) != canonicalPath {
			continue
		}
		entryInformation, informationError := directoryEntry.Info()
		if informationError != nil {
			return nil, fmt.Errorf(errorStatRootFormat, ErrIO, canonicalPath, informationError)
		}
		entryKind := KindFile
		if entryInformation.IsDir() {
			entryKind = KindDirectory
		}
		return &Record{
			Path: canonicalPath,
			Name: directoryEntry.Name(),
			Kind: entryKind,
		}, nil
	}

	return nil, fmt.Errorf(errorRootNotInParentFormat, ErrInvalidInput, canonicalPath, parentDirectoryPath)
}

// canonicalizePath resolves a path to its absolute, symlink-free form.
func canonicalizePath(inputPath string) (string, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return "", absolutePathError
	}
	return filepath.EvalSymlinks(absolutePath)
}
