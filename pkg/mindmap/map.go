package mindmap

import (
	"errors"
	"slices"
	"strconv"
)

// DefaultRootText is the text of the root node created by [New].
const DefaultRootText = "Root Node"

var (
	// ErrUnknownNode is returned when an id does not name a node of the map.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidNodeID is returned by [Map.Graft] when the id is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Map.Graft] when the id is taken.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrRootExists is returned by [Map.Graft] when a second root is grafted.
	ErrRootExists = errors.New("map already has a root")
)

// EventKind identifies a change to the map.
type EventKind int

const (
	// EventSelect is emitted when the current node changes.
	EventSelect EventKind = iota
	// EventAppend is emitted after a node has been appended.
	EventAppend
)

// String returns the event name used in logs.
func (k EventKind) String() string {
	switch k {
	case EventSelect:
		return "select"
	case EventAppend:
		return "append"
	default:
		return "unknown"
	}
}

// Event describes a change delivered to listeners registered with [Map.OnChange].
type Event struct {
	Kind EventKind
	Node *Node
}

// Map is a mind-map tree stored as an arena of nodes.
//
// The zero value is not usable; create maps with [New].
type Map struct {
	nodes     []*Node
	byID      map[string]int
	root      int
	current   int
	nextID    int
	listeners []*listener
}

type listener struct {
	fn func(Event)
}

// Option configures a new Map.
type Option func(*config)

type config struct {
	withRoot bool
	rootText string
}

// WithoutRoot creates an empty map whose first appended node becomes the root.
func WithoutRoot() Option { return func(c *config) { c.withRoot = false } }

// WithRootText sets the text of the pre-created root node.
func WithRootText(text string) Option { return func(c *config) { c.rootText = text } }

// New creates a map. By default the map starts with a selected root node
// titled [DefaultRootText].
func New(opts ...Option) *Map {
	cfg := config{withRoot: true, rootText: DefaultRootText}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Map{
		byID:    make(map[string]int),
		root:    -1,
		current: -1,
		nextID:  1,
	}
	if cfg.withRoot {
		root := m.create(cfg.rootText, -1)
		m.root = root.index
		m.current = root.index
	}
	return m
}

// Root returns the root node, if one exists.
func (m *Map) Root() (*Node, bool) {
	if m.root < 0 {
		return nil, false
	}
	return m.nodes[m.root], true
}

// Current returns the selected node, if any.
func (m *Map) Current() (*Node, bool) {
	if m.current < 0 {
		return nil, false
	}
	return m.nodes[m.current], true
}

// IsCurrent reports whether n is the selected node.
func (m *Map) IsCurrent(n *Node) bool {
	return n != nil && m.current >= 0 && m.nodes[m.current] == n
}

// Node looks up a node by id.
func (m *Map) Node(id string) (*Node, bool) {
	i, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	return m.nodes[i], true
}

// Len returns the total number of nodes.
func (m *Map) Len() int { return len(m.nodes) }

// NextID returns the id the next appended node will receive.
func (m *Map) NextID() string { return strconv.Itoa(m.nextID) }

// Children returns the children of n in stacking order.
func (m *Map) Children(n *Node) []*Node {
	out := make([]*Node, len(n.children))
	for i, c := range n.children {
		out[i] = m.nodes[c]
	}
	return out
}

// Parent returns the parent of n, or false for the root.
func (m *Map) Parent(n *Node) (*Node, bool) {
	if n.parent < 0 {
		return nil, false
	}
	return m.nodes[n.parent], true
}

// SiblingIndex returns the position of n among its parent's children.
// The root has index 0.
func (m *Map) SiblingIndex(n *Node) int {
	if n.parent < 0 {
		return 0
	}
	for i, c := range m.nodes[n.parent].children {
		if c == n.index {
			return i
		}
	}
	return 0
}

// Depth returns the number of edges between n and the root.
func (m *Map) Depth(n *Node) int {
	d := 0
	for p := n.parent; p >= 0; p = m.nodes[p].parent {
		d++
	}
	return d
}

// Select makes the node with the given id the current node.
func (m *Map) Select(id string) error {
	i, ok := m.byID[id]
	if !ok {
		return ErrUnknownNode
	}
	m.current = i
	m.emit(Event{Kind: EventSelect, Node: m.nodes[i]})
	return nil
}

// ClearSelection unsets the current node.
func (m *Map) ClearSelection() {
	m.current = -1
}

// Append creates a node with the next unused id and appends it to the current
// node's children. Without a current node the root is the target; without a
// root the new node becomes the root and is selected.
func (m *Map) Append(text string) *Node {
	target := m.current
	if target < 0 {
		target = m.root
	}

	n := m.create(text, target)
	if target < 0 {
		m.root = n.index
		m.current = n.index
	}
	m.emit(Event{Kind: EventAppend, Node: n})
	return n
}

// Graft adds a node with an explicit id below parentID, or as the root when
// parentID is empty. It is used to rebuild a map from a serialized tree and
// advances the id counter past any numeric id it sees. Graft does not notify
// listeners.
func (m *Map) Graft(parentID, id, text string) (*Node, error) {
	if id == "" {
		return nil, ErrInvalidNodeID
	}
	if _, ok := m.byID[id]; ok {
		return nil, ErrDuplicateNodeID
	}

	parent := -1
	if parentID == "" {
		if m.root >= 0 {
			return nil, ErrRootExists
		}
	} else {
		i, ok := m.byID[parentID]
		if !ok {
			return nil, ErrUnknownNode
		}
		parent = i
	}

	n := m.insert(id, text, parent)
	if parent < 0 {
		m.root = n.index
	}
	if v, err := strconv.Atoi(id); err == nil && v >= m.nextID {
		m.nextID = v + 1
	}
	return n, nil
}

// OnChange registers a listener invoked synchronously after every selection
// change and append. The returned function removes the listener; calling it
// more than once is harmless.
func (m *Map) OnChange(fn func(Event)) (remove func()) {
	l := &listener{fn: fn}
	m.listeners = append(m.listeners, l)
	return func() {
		m.listeners = slices.DeleteFunc(m.listeners, func(x *listener) bool { return x == l })
	}
}

// Listeners returns the number of registered change listeners.
func (m *Map) Listeners() int { return len(m.listeners) }

// Walk visits every node in depth-first pre-order. Returning false from fn
// skips the node's descendants.
func (m *Map) Walk(fn func(n *Node, depth int) bool) {
	if m.root < 0 {
		return
	}
	m.walk(m.root, 0, fn)
}

func (m *Map) walk(i, depth int, fn func(*Node, int) bool) {
	n := m.nodes[i]
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		m.walk(c, depth+1, fn)
	}
}

// Nodes returns every node in depth-first pre-order.
func (m *Map) Nodes() []*Node {
	out := make([]*Node, 0, len(m.nodes))
	m.Walk(func(n *Node, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// DescendantCount returns the number of nodes at every depth below n.
func (m *Map) DescendantCount(n *Node) int {
	count := len(n.children)
	for _, c := range n.children {
		count += m.DescendantCount(m.nodes[c])
	}
	return count
}

// DescendantCounts returns DescendantCount for every node, keyed by id,
// computed in a single pass.
func (m *Map) DescendantCounts() map[string]int {
	counts := make(map[string]int, len(m.nodes))
	if m.root >= 0 {
		m.countFrom(m.root, counts)
	}
	return counts
}

func (m *Map) countFrom(i int, counts map[string]int) int {
	n := m.nodes[i]
	total := 0
	for _, c := range n.children {
		total += 1 + m.countFrom(c, counts)
	}
	counts[n.ID] = total
	return total
}

func (m *Map) create(text string, parent int) *Node {
	id := strconv.Itoa(m.nextID)
	m.nextID++
	return m.insert(id, text, parent)
}

func (m *Map) insert(id, text string, parent int) *Node {
	n := &Node{
		ID:     id,
		Text:   text,
		index:  len(m.nodes),
		parent: parent,
	}
	m.nodes = append(m.nodes, n)
	m.byID[id] = n.index
	if parent >= 0 {
		p := m.nodes[parent]
		p.children = append(p.children, n.index)
	}
	return n
}

func (m *Map) emit(e Event) {
	for _, l := range slices.Clone(m.listeners) {
		l.fn(e)
	}
}
