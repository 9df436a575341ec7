package output

import (
	"fmt"
	"io"

	dirwalker "github.com/gabrielecodes/dir-walker"
	"github.com/gabrielecodes/dir-walker/internal/services/stream"
)

type rawStreamRenderer struct {
	stdout io.Writer
	stderr io.Writer
	trees  []*dirwalker.Entry
}

// NewRawStreamRenderer returns a renderer producing plain text: flat items
// and lookup results as they arrive, trees at Flush.
func NewRawStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &rawStreamRenderer{stdout: stdout, stderr: stderr}
}

func (renderer *rawStreamRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Message.Message)
		}
	case stream.EventKindItem:
		if event.Item != nil && renderer.stdout != nil {
			fmt.Fprintf(renderer.stdout, flatItemFormat, event.Item.Depth, event.Item.Record.Path)
		}
	case stream.EventKindFound:
		if event.Found != nil && event.Found.Record != nil && renderer.stdout != nil {
			fmt.Fprintln(renderer.stdout, event.Found.Record.Path)
		}
	case stream.EventKindTree:
		if event.Tree != nil {
			renderer.trees = append(renderer.trees, event.Tree)
		}
	}
	return nil
}

func (renderer *rawStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	for treeIndex, treeNode := range renderer.trees {
		if treeIndex > 0 {
			fmt.Fprintln(renderer.stdout)
		}
		WriteTreeRaw(renderer.stdout, treeNode)
	}
	return nil
}
