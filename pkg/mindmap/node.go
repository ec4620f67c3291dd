package mindmap

import "strings"

// Metadata stores arbitrary key-value pairs attached to a node.
// Keys starting with "_" are transient and never serialized.
type Metadata map[string]any

// IsTransientKey reports whether a metadata key is presentation-only.
func IsTransientKey(key string) bool { return strings.HasPrefix(key, "_") }

// Public returns a copy of the metadata without transient keys.
// Returns nil if nothing public remains.
func (md Metadata) Public() Metadata {
	var out Metadata
	for k, v := range md {
		if IsTransientKey(k) {
			continue
		}
		if out == nil {
			out = make(Metadata, len(md))
		}
		out[k] = v
	}
	return out
}

// Node is a single mind-map entry.
//
// Nodes are owned by a [Map]; use [Map.Children] and [Map.Parent] to navigate.
type Node struct {
	ID        string
	Text      string
	Style     *NodeStyle
	LineStyle *LineStyle
	Meta      Metadata

	index    int
	parent   int // -1 for the root
	children []int
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent < 0 }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// SetMeta sets a metadata value, allocating the map on first use.
func (n *Node) SetMeta(key string, value any) {
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	n.Meta[key] = value
}
