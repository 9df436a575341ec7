package dirwalker

import "strings"

const (
	forwardSeparator  = "/"
	backwardSeparator = "\\"
	dottedPrefix      = "."
)

// filterConfiguration holds the pure admission rules applied to candidate
// paths during traversal. It performs no I/O.
type filterConfiguration struct {
	skipDotted bool
	// skipDirectories contains canonical absolute paths to exclude.
	skipDirectories []string
}

// admits reports whether the candidate absolute path passes the configured
// filters. A candidate is rejected when it equals an excluded directory
// path or, with skipDotted set, when any of its path components begins
// with a dot.
func (configuration filterConfiguration) admits(candidatePath string) bool {
	for _, excludedDirectoryPath := range configuration.skipDirectories {
		if candidatePath == excludedDirectoryPath {
			return false
		}
	}
	if configuration.skipDotted && containsDottedComponent(candidatePath) {
		return false
	}
	return true
}

// containsDottedComponent reports whether any path component of the
// candidate begins with a dot. Components are delimited by either
// separator so the check holds on hosts that accept both.
func containsDottedComponent(candidatePath string) bool {
	normalizedPath := strings.ReplaceAll(candidatePath, backwardSeparator, forwardSeparator)
	for _, pathComponent := range strings.Split(normalizedPath, forwardSeparator) {
		if strings.HasPrefix(pathComponent, dottedPrefix) {
			return true
		}
	}
	return false
}
