// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

// Package types defines the core value types of the permission compiler:
// path segments, terminal markers, paths, and the compiled permission graph.
package types

import (
	"sort"
	"strconv"
)

// Marker is a terminal scope marker: the effective level a path grants at
// the node where it ends.
type Marker string

// Marker constants, most permissive first. This listing order is also the
// absorption priority used by the graph reducer.
const (
	MarkerAll       Marker = "all"
	MarkerBlock     Marker = "block"
	MarkerWrite     Marker = "write"
	MarkerRead      Marker = "read"
	MarkerSegmented Marker = "segmented"
	MarkerFull      Marker = "full"
	MarkerLimited   Marker = "limited"
)

// Key is a fixed branch keyword inside a permission path.
type Key string

// Key constants for the branch points of the graph. KeyRead and KeyQuery
// appear under a table id and are distinct from the markers of the same
// spelling: a key always has a subtree beneath it, a marker never does.
const (
	KeyDB         Key = "db"
	KeyNative     Key = "native"
	KeySchemas    Key = "schemas"
	KeyDownload   Key = "download"
	KeyCollection Key = "collection"
	KeyRead       Key = "read"
	KeyQuery      Key = "query"
)

// Kind discriminates the Segment union.
type Kind uint8

// Segment kinds.
const (
	KindKey    Kind = iota // fixed branch keyword
	KindID                 // numeric identifier (database, table, collection)
	KindName               // free-text schema name
	KindRoot               // the distinguished "root" collection
	KindMarker             // terminal scope marker
)

// Segment is one element of a permission path: a branch keyword, an
// identifying token, or a terminal marker. Segments are comparable and are
// used directly as graph keys.
type Segment struct {
	Kind   Kind
	Key    Key
	ID     uint64
	Name   string
	Marker Marker
}

// KeySeg returns a branch-keyword segment.
func KeySeg(k Key) Segment { return Segment{Kind: KindKey, Key: k} }

// IDSeg returns a numeric-identifier segment.
func IDSeg(id uint64) Segment { return Segment{Kind: KindID, ID: id} }

// NameSeg returns a schema-name segment.
func NameSeg(name string) Segment { return Segment{Kind: KindName, Name: name} }

// RootSeg returns the distinguished root-collection segment. The literal
// "root" collection id stays symbolic rather than becoming a number.
func RootSeg() Segment { return Segment{Kind: KindRoot} }

// MarkerSeg returns a terminal marker segment.
func MarkerSeg(m Marker) Segment { return Segment{Kind: KindMarker, Marker: m} }

// IsMarker reports whether the segment is a terminal marker.
func (s Segment) IsMarker() bool { return s.Kind == KindMarker }

// String renders the segment the way it appears as a graph key.
func (s Segment) String() string {
	switch s.Kind {
	case KindKey:
		return string(s.Key)
	case KindID:
		return strconv.FormatUint(s.ID, 10)
	case KindName:
		return s.Name
	case KindRoot:
		return "root"
	case KindMarker:
		return string(s.Marker)
	}
	return "unknown"
}

// Path is a fully-qualified scope: identifying and branch segments
// terminated by a marker. Paths are never empty.
type Path []Segment

// String renders a path for logs and test failure messages.
func (p Path) String() string {
	out := ""
	for _, s := range p {
		out += "/" + s.String()
	}
	return out
}

// Node is one node of the compiled permission graph: either terminal
// (collapsed to a single marker) or a branch keyed by segment. The graph is
// set-like; insertion order carries no meaning.
type Node struct {
	Terminal Marker
	Children map[Segment]*Node
}

// NewBranch returns an empty branch node.
func NewBranch() *Node {
	return &Node{Children: make(map[Segment]*Node)}
}

// NewTerminal returns a node collapsed to the given marker.
func NewTerminal(m Marker) *Node {
	return &Node{Terminal: m}
}

// IsTerminal reports whether the node has collapsed to a marker.
func (n *Node) IsTerminal() bool { return n.Terminal != "" }

// Empty reports whether the node grants nothing at all.
func (n *Node) Empty() bool {
	return !n.IsTerminal() && len(n.Children) == 0
}

// Equal reports structural equality of two graphs.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Terminal != o.Terminal {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for seg, child := range n.Children {
		other, ok := o.Children[seg]
		if !ok || !child.Equal(other) {
			return false
		}
	}
	return true
}

// Paths re-flattens the graph into the path set it is equivalent to, in a
// stable order. Reducing the result again must reproduce the graph.
func (n *Node) Paths() []Path {
	if n == nil {
		return nil
	}
	if n.IsTerminal() {
		return []Path{{MarkerSeg(n.Terminal)}}
	}
	var paths []Path
	for _, seg := range n.sortedKeys() {
		for _, sub := range n.Children[seg].Paths() {
			path := make(Path, 0, len(sub)+1)
			path = append(path, seg)
			path = append(path, sub...)
			paths = append(paths, path)
		}
	}
	return paths
}

// AsMap renders the graph as nested string-keyed maps for JSON or YAML
// output. Terminal nodes render as their marker string.
func (n *Node) AsMap() any {
	if n == nil {
		return map[string]any{}
	}
	if n.IsTerminal() {
		return string(n.Terminal)
	}
	out := make(map[string]any, len(n.Children))
	for seg, child := range n.Children {
		out[seg.String()] = child.AsMap()
	}
	return out
}

// sortedKeys returns the child segments ordered by rendering, so Paths is
// deterministic across runs.
func (n *Node) sortedKeys() []Segment {
	keys := make([]Segment, 0, len(n.Children))
	for seg := range n.Children {
		keys = append(keys, seg)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		if keys[i].Kind == KindID {
			return keys[i].ID < keys[j].ID
		}
		return keys[i].String() < keys[j].String()
	})
	return keys
}
