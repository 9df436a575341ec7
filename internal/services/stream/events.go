// Package stream produces traversal results as an ordered event sequence
// consumed by the output renderers.
package stream

import (
	"encoding/xml"

	dirwalker "github.com/gabrielecodes/dir-walker"
)

// SchemaVersion identifies the event layout for downstream consumers.
const SchemaVersion = 1

// EventKind discriminates the payload carried by an Event.
type EventKind string

const (
	EventKindTree    EventKind = "tree"
	EventKindItem    EventKind = "item"
	EventKindFound   EventKind = "found"
	EventKindWarning EventKind = "warning"
)

// Event is one element of the rendering stream. Exactly one payload field
// is set, matching Kind.
type Event struct {
	XMLName xml.Name  `json:"-" xml:"event"`
	Version int       `json:"version" xml:"version,attr"`
	Kind    EventKind `json:"kind" xml:"kind,attr"`
	Path    string    `json:"path,omitempty" xml:"path,attr,omitempty"`

	Tree    *dirwalker.Entry     `json:"tree,omitempty" xml:"tree,omitempty"`
	Item    *dirwalker.FlatEntry `json:"item,omitempty" xml:"item,omitempty"`
	Found   *dirwalker.Entry     `json:"found,omitempty" xml:"found,omitempty"`
	Message *LogEvent            `json:"message,omitempty" xml:"message,omitempty"`
}

// LogEvent carries a warning emitted during traversal.
type LogEvent struct {
	Level   string `json:"level,omitempty" xml:"level,attr,omitempty"`
	Message string `json:"message" xml:",chardata"`
}
