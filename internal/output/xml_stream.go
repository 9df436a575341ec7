package output

import (
	"encoding/xml"
	"fmt"
	"io"

	dirwalker "github.com/gabrielecodes/dir-walker"
	"github.com/gabrielecodes/dir-walker/internal/services/stream"
)

// xmlResultDocument wraps collected payloads under a single root element.
type xmlResultDocument struct {
	XMLName xml.Name              `xml:"result"`
	Trees   []*dirwalker.Entry    `xml:"node,omitempty"`
	Found   []*dirwalker.Entry    `xml:"found>node,omitempty"`
	Items   []dirwalker.FlatEntry `xml:"item,omitempty"`
}

type xmlStreamRenderer struct {
	stdout   io.Writer
	stderr   io.Writer
	document xmlResultDocument
}

// NewXMLStreamRenderer returns a renderer that collects events and emits
// one indented XML document at Flush.
func NewXMLStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &xmlStreamRenderer{stdout: stdout, stderr: stderr}
}

func (renderer *xmlStreamRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Message.Message)
		}
	case stream.EventKindItem:
		if event.Item != nil {
			renderer.document.Items = append(renderer.document.Items, *event.Item)
		}
	case stream.EventKindFound:
		if event.Found != nil {
			renderer.document.Found = append(renderer.document.Found, event.Found)
		}
	case stream.EventKindTree:
		if event.Tree != nil {
			renderer.document.Trees = append(renderer.document.Trees, event.Tree)
		}
	}
	return nil
}

func (renderer *xmlStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	encodedDocument, xmlEncodeError := xml.MarshalIndent(renderer.document, indentPrefix, indentSpacer)
	if xmlEncodeError != nil {
		return xmlEncodeError
	}
	_, writeError := fmt.Fprint(renderer.stdout, xml.Header+string(encodedDocument)+"\n")
	return writeError
}
