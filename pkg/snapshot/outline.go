package snapshot

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Outline is a hand-written tree. In YAML a plain string is shorthand for a
// node without children.
type Outline struct {
	Text      string             `yaml:"text"`
	Style     *mindmap.NodeStyle `yaml:"style,omitempty"`
	LineStyle *mindmap.LineStyle `yaml:"lineStyle,omitempty"`
	Children  []Outline          `yaml:"children,omitempty"`
}

// UnmarshalYAML accepts either a scalar or a mapping.
func (o *Outline) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		o.Text = value.Value
		return nil
	}
	type plain Outline
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*o = Outline(p)
	return nil
}

// ReadOutline parses a YAML outline from r and builds a map by replaying
// appends in pre-order. The root is selected afterwards.
func ReadOutline(r io.Reader) (*mindmap.Map, error) {
	var root Outline
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "outline is empty")
		}
		return nil, fmt.Errorf("decode outline: %w", err)
	}
	return root.Map()
}

// ImportOutline reads a YAML outline file.
func ImportOutline(path string) (*mindmap.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadOutline(f)
}

// Map builds a map from the outline.
func (o Outline) Map() (*mindmap.Map, error) {
	m := mindmap.New(mindmap.WithoutRoot())
	if err := o.replay(m, ""); err != nil {
		return nil, err
	}
	root, _ := m.Root()
	if err := m.Select(root.ID); err != nil {
		return nil, err
	}
	return m, nil
}

func (o Outline) replay(m *mindmap.Map, parentID string) error {
	if err := errors.ValidateNodeText(o.Text); err != nil {
		return err
	}
	if parentID != "" {
		if err := m.Select(parentID); err != nil {
			return err
		}
	}
	n := m.Append(o.Text)
	n.Style = cloneStyle(o.Style)
	n.LineStyle = cloneLineStyle(o.LineStyle)
	for _, c := range o.Children {
		if err := c.replay(m, n.ID); err != nil {
			return err
		}
	}
	return nil
}
