// Package mindmap provides the tree model behind an interactive mind map.
//
// # Overview
//
// A [Map] owns every [Node] in an arena. Nodes refer to their children and
// their parent by arena index, so the tree carries no ownership cycles and
// can be walked without recursion through pointers. Identifiers are assigned
// by an incrementing counter owned by the map ("1", "2", ...).
//
// # Selection and Mutation
//
// The map keeps a single optional "current node" pointer. [Map.Append]
// creates a node with the next unused id and adds it to the current node's
// children. When the map has no root yet, the appended node becomes the root
// and is selected:
//
//	m := mindmap.New()              // pre-created "Root Node", selected
//	child := m.Append("new node")   // child of the root
//	_ = m.Select(child.ID)
//	m.Append("grandchild")
//
// Nodes are never deleted or moved. Child order is significant: it is the
// vertical stacking order used by the layout engine.
//
// # Styles
//
// [NodeStyle] and [LineStyle] are optional per node. Every field that is left
// at its zero value falls back to the documented default individually, see
// [NodeStyle.Resolve] and [LineStyle.Resolve].
//
// # Transient Metadata
//
// Meta keys starting with "_" mark presentation-only values (for example the
// last drawn position written by a surface). Serializers drop them; see
// [IsTransientKey].
//
// # Concurrency
//
// A Map is single-threaded. Callers that share one across goroutines must
// serialize access themselves.
package mindmap
