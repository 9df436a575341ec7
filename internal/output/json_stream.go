package output

import (
	"encoding/json"
	"fmt"
	"io"

	dirwalker "github.com/gabrielecodes/dir-walker"
	"github.com/gabrielecodes/dir-walker/internal/services/stream"
)

const emptyJSONArray = "[]"

type jsonStreamRenderer struct {
	stdout io.Writer
	stderr io.Writer
	trees  []*dirwalker.Entry
	items  []dirwalker.FlatEntry
	found  []*dirwalker.Entry
}

// NewJSONStreamRenderer returns a renderer that collects events and emits
// a single indented JSON array at Flush.
func NewJSONStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &jsonStreamRenderer{stdout: stdout, stderr: stderr}
}

func (renderer *jsonStreamRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Message.Message)
		}
	case stream.EventKindItem:
		if event.Item != nil {
			renderer.items = append(renderer.items, *event.Item)
		}
	case stream.EventKindFound:
		if event.Found != nil {
			renderer.found = append(renderer.found, event.Found)
		}
	case stream.EventKindTree:
		if event.Tree != nil {
			renderer.trees = append(renderer.trees, event.Tree)
		}
	}
	return nil
}

func (renderer *jsonStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	var document interface{}
	switch {
	case len(renderer.trees) > 0:
		document = renderer.trees
	case len(renderer.found) > 0:
		document = renderer.found
	case len(renderer.items) > 0:
		document = renderer.items
	default:
		_, writeError := fmt.Fprintln(renderer.stdout, emptyJSONArray)
		return writeError
	}
	encodedDocument, jsonEncodeError := json.MarshalIndent(document, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return jsonEncodeError
	}
	_, writeError := fmt.Fprintln(renderer.stdout, string(encodedDocument))
	return writeError
}
