// Package output renders traversal event streams as raw text, JSON, or XML.
package output

import (
	"fmt"
	"io"

	dirwalker "github.com/gabrielecodes/dir-walker"
	"github.com/gabrielecodes/dir-walker/internal/services/stream"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// flatItemFormat renders one flat entry as depth, a tab, and the path.
	flatItemFormat = "%d\t%s\n"

	// syntheticRootLabel stands in for a root node without a record.
	syntheticRootLabel = "."
)

// StreamRenderer consumes traversal events and writes rendered output.
// Flush completes the rendering after the stream ends.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

// WriteTreeRaw writes the tree with box-drawing connectors: the root path
// on the first line, then one line per descendant.
func WriteTreeRaw(writer io.Writer, node *dirwalker.Entry) {
	if node == nil {
		return
	}
	rootLabel := syntheticRootLabel
	if node.Record != nil {
		rootLabel = node.Record.Path
	}
	fmt.Fprintln(writer, rootLabel)
	writeTreeChildren(writer, node, indentPrefix)
}

func writeTreeChildren(writer io.Writer, node *dirwalker.Entry, prefix string) {
	numberOfChildren := len(node.Children)
	for childIndex, childNode := range node.Children {
		isLastChild := childIndex == numberOfChildren-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLastChild {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		childLabel := ""
		if childNode.Record != nil {
			childLabel = childNode.Record.Name
		}
		fmt.Fprintf(writer, "%s%s%s\n", prefix, connector, childLabel)
		writeTreeChildren(writer, childNode, childPrefix)
	}
}
