package snapshot

import (
	"fmt"
	"io"
	"maps"
	"os"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Version is the document format version written by this package.
const Version = 1

// Node is the serialized form of a mind-map node.
type Node struct {
	ID        string             `json:"id"`
	Text      string             `json:"text"`
	Style     *mindmap.NodeStyle `json:"style,omitempty"`
	LineStyle *mindmap.LineStyle `json:"lineStyle,omitempty"`
	Meta      mindmap.Metadata   `json:"meta,omitempty"`
	Children  []*Node            `json:"children"`
}

// nodeJSON is the wire form of Node. Meta is encoded separately per node.
type nodeJSON struct {
	ID        string             `json:"id"`
	Text      string             `json:"text"`
	Style     *mindmap.NodeStyle `json:"style,omitempty"`
	LineStyle *mindmap.LineStyle `json:"lineStyle,omitempty"`
	Meta      json.RawMessage    `json:"meta,omitempty"`
	Children  []*Node            `json:"children"`
}

// MarshalJSON writes the node with its public metadata. Leaves are written
// with an empty children list.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		ID:        n.ID,
		Text:      n.Text,
		Style:     n.Style,
		LineStyle: n.LineStyle,
		Children:  n.Children,
	}
	if out.Children == nil {
		out.Children = []*Node{}
	}
	if pub := n.Meta.Public(); len(pub) > 0 {
		meta, err := json.Marshal(map[string]any(pub))
		if err != nil {
			return nil, fmt.Errorf("node %q meta: %w", n.ID, err)
		}
		out.Meta = meta
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a node written by MarshalJSON. An empty children list
// decodes to nil.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*n = Node{ID: in.ID, Text: in.Text, Style: in.Style, LineStyle: in.LineStyle}
	if len(in.Children) > 0 {
		n.Children = in.Children
	}
	if len(in.Meta) > 0 && string(in.Meta) != "null" {
		var meta mindmap.Metadata
		if err := json.Unmarshal(in.Meta, &meta); err != nil {
			return fmt.Errorf("node %q meta: %w", in.ID, err)
		}
		n.Meta = meta.Public()
	}
	return nil
}

// Document is a snapshot of a whole map.
type Document struct {
	Version int    `json:"version"`
	Current string `json:"current,omitempty"`
	Root    *Node  `json:"root,omitempty"`
}

// FromMap returns the structural snapshot of m, or nil for an empty map.
// Transient metadata is dropped.
func FromMap(m *mindmap.Map) *Node {
	root, ok := m.Root()
	if !ok {
		return nil
	}
	return fromNode(m, root)
}

func fromNode(m *mindmap.Map, n *mindmap.Node) *Node {
	out := &Node{
		ID:        n.ID,
		Text:      n.Text,
		Style:     cloneStyle(n.Style),
		LineStyle: cloneLineStyle(n.LineStyle),
		Meta:      n.Meta.Public(),
	}
	for _, c := range m.Children(n) {
		out.Children = append(out.Children, fromNode(m, c))
	}
	return out
}

// NewDocument captures m together with its selection.
func NewDocument(m *mindmap.Map) Document {
	d := Document{Version: Version, Root: FromMap(m)}
	if cur, ok := m.Current(); ok {
		d.Current = cur.ID
	}
	return d
}

// ToMap rebuilds a live map from a snapshot. The root is selected.
// A nil root yields an empty map without a root.
func ToMap(root *Node) (*mindmap.Map, error) {
	m := mindmap.New(mindmap.WithoutRoot())
	if root == nil {
		return m, nil
	}
	if err := graft(m, "", root); err != nil {
		return nil, err
	}
	if err := m.Select(root.ID); err != nil {
		return nil, err
	}
	return m, nil
}

// Map rebuilds the document's map and restores its selection. An unknown
// current id falls back to the root.
func (d Document) Map() (*mindmap.Map, error) {
	m, err := ToMap(d.Root)
	if err != nil {
		return nil, err
	}
	if d.Current != "" {
		if err := m.Select(d.Current); err != nil && d.Root != nil {
			_ = m.Select(d.Root.ID)
		}
	}
	return m, nil
}

func graft(m *mindmap.Map, parentID string, s *Node) error {
	n, err := m.Graft(parentID, s.ID, s.Text)
	if err != nil {
		return fmt.Errorf("node %q: %w", s.ID, err)
	}
	n.Style = cloneStyle(s.Style)
	n.LineStyle = cloneLineStyle(s.LineStyle)
	if pub := s.Meta.Public(); pub != nil {
		n.Meta = maps.Clone(pub)
	}
	for _, c := range s.Children {
		if c == nil {
			continue
		}
		if err := graft(m, s.ID, c); err != nil {
			return err
		}
	}
	return nil
}

// Marshal encodes m as a compact snapshot document, including the selection.
func Marshal(m *mindmap.Map) ([]byte, error) {
	return json.Marshal(NewDocument(m))
}

// MarshalIndent encodes m as an indented snapshot document.
func MarshalIndent(m *mindmap.Map) ([]byte, error) {
	return json.MarshalIndent(NewDocument(m), "", "  ")
}

// MarshalTree encodes the bare node tree of m. An empty map encodes as null.
func MarshalTree(m *mindmap.Map) ([]byte, error) {
	return json.Marshal(FromMap(m))
}

// MarshalTreeIndent encodes the bare node tree of m with indentation.
func MarshalTreeIndent(m *mindmap.Map) ([]byte, error) {
	return json.MarshalIndent(FromMap(m), "", "  ")
}

// Unmarshal decodes a snapshot document or a bare node tree.
func Unmarshal(data []byte) (*mindmap.Map, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	return doc.Map()
}

func decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if doc.Root != nil {
		return doc, nil
	}

	var bare Node
	if err := json.Unmarshal(data, &bare); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if bare.ID != "" {
		doc.Root = &bare
	}
	return doc, nil
}

// WriteJSON writes the indented node tree of m to w.
func WriteJSON(m *mindmap.Map, w io.Writer) error {
	return encodeIndent(w, FromMap(m))
}

// WriteDocument writes m as an indented snapshot document to w.
func WriteDocument(m *mindmap.Map, w io.Writer) error {
	return encodeIndent(w, NewDocument(m))
}

func encodeIndent(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a map from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*mindmap.Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// ExportJSON writes the node tree of m to a JSON file at path.
func ExportJSON(m *mindmap.Map, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(m, w) })
}

// ExportDocument writes m, including its selection, to a JSON file at path.
func ExportDocument(m *mindmap.Map, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteDocument(m, w) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportJSON reads a map from a JSON file at path.
func ImportJSON(path string) (*mindmap.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func cloneStyle(s *mindmap.NodeStyle) *mindmap.NodeStyle {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneLineStyle(s *mindmap.LineStyle) *mindmap.LineStyle {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
