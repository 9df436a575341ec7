package dirwalker

import "encoding/xml"

// Entry kinds reported by traversal results. Symbolic links and special
// files (sockets, devices, FIFOs) never appear in a result.
const (
	KindDirectory = "directory"
	KindFile      = "file"
)

// Record is the filesystem datum for one directory entry: its absolute
// path, its final path component, and its kind.
type Record struct {
	Path string `json:"path" xml:"path,attr"`
	Name string `json:"name" xml:"name,attr"`
	Kind string `json:"kind" xml:"kind,attr"`
}

// Entry is one node of the result tree. Record is nil only for a synthetic
// top node whose own directory entry could not be represented (for example
// a root without a parent directory). Children are ordered with directory
// entries first, each group sorted lexicographically by path.
type Entry struct {
	XMLName  xml.Name `json:"-" xml:"node"`
	Record   *Record  `json:"record,omitempty" xml:"record,omitempty"`
	Children []*Entry `json:"children,omitempty" xml:"children>node,omitempty"`
	Depth    int      `json:"depth" xml:"depth,attr"`
}

// FlatEntry is one item of the flat depth-first view of a result tree.
type FlatEntry struct {
	Record Record `json:"record" xml:"record"`
	Depth  int    `json:"depth" xml:"depth,attr"`
}
