// Package surface binds a mind map to a drawing area and keeps its layout
// current.
//
// A [Surface] owns one map. Every selection change and append triggers a full
// relayout; the resulting coordinates are also written to each node's
// transient metadata (_x, _y) so that presentation code can read positions
// without holding the layout. Surfaces are not safe for concurrent use; the
// server serializes access per map.
package surface

import (
	"context"
	"fmt"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/observability"
)

// ClickText is the text of nodes created by [Surface.Click].
const ClickText = "new node"

// Transient metadata keys written on every relayout.
const (
	MetaX = "_x"
	MetaY = "_y"
)

// Surface is a map instance bound to a drawing area of fixed size.
type Surface struct {
	m      *mindmap.Map
	width  float64
	height float64
	opts   layout.Options
	layout layout.Layout
	ctx    context.Context
	detach func()
}

// New creates a surface with a fresh map whose root is pre-created and selected.
func New(width, height float64, opts layout.Options) *Surface {
	return Attach(mindmap.New(), width, height, opts)
}

// Attach binds an existing map to a new surface and lays it out. A map should
// be bound to one surface at a time; call [Surface.Detach] on the previous
// surface before attaching the map again.
func Attach(m *mindmap.Map, width, height float64, opts layout.Options) *Surface {
	s := &Surface{m: m, width: width, height: height, opts: opts, ctx: context.Background()}
	s.detach = m.OnChange(s.onChange)
	s.Redraw()
	return s
}

// Detach stops the surface from following changes to its map. The last
// layout stays available. Detach is idempotent.
func (s *Surface) Detach() {
	s.detach()
}

// WithContext sets the context passed to observability hooks.
func (s *Surface) WithContext(ctx context.Context) *Surface {
	s.ctx = ctx
	return s
}

// Map returns the underlying map.
func (s *Surface) Map() *mindmap.Map { return s.m }

// Layout returns the layout computed after the last change.
func (s *Surface) Layout() layout.Layout { return s.layout }

// Size returns the drawing area.
func (s *Surface) Size() (width, height float64) { return s.width, s.height }

// Origin returns the root anchor derived from the surface size.
func (s *Surface) Origin() layout.Point { return layout.CenterAnchor(s.width, s.height) }

// Options returns the layout options with the origin the surface uses.
func (s *Surface) Options() layout.Options {
	o := s.opts
	o.Origin = s.Origin()
	return o
}

// Select makes id the current node.
func (s *Surface) Select(id string) error {
	if err := s.m.Select(id); err != nil {
		return errors.Wrap(errors.ErrCodeNodeNotFound, err, "select %s", id)
	}
	return nil
}

// Append adds a child to the current node (or the root) and returns it.
func (s *Surface) Append(text string) (*mindmap.Node, error) {
	if err := errors.ValidateNodeText(text); err != nil {
		return nil, err
	}
	return s.m.Append(text), nil
}

// Click selects the node and appends a "new node" child to it.
// The clicked node stays selected.
func (s *Surface) Click(id string) (*mindmap.Node, error) {
	if err := s.Select(id); err != nil {
		return nil, err
	}
	return s.m.Append(ClickText), nil
}

// Resize changes the drawing area and relayouts.
func (s *Surface) Resize(width, height float64) {
	s.width, s.height = width, height
	s.Redraw()
}

// Redraw recomputes the layout from scratch and refreshes transient
// coordinates on every node.
func (s *Surface) Redraw() {
	s.layout = layout.Compute(s.m, s.Options())
	for _, b := range s.layout.Boxes {
		if n, ok := s.m.Node(b.NodeID); ok {
			n.SetMeta(MetaX, b.X)
			n.SetMeta(MetaY, b.Y)
		}
	}
	observability.Surface().OnRelayout(s.ctx, s.m.Len(), s.layout.Elapsed)
}

func (s *Surface) onChange(e mindmap.Event) {
	observability.Surface().OnMutation(s.ctx, e.Kind.String(), e.Node.ID, s.m.Len())
	s.Redraw()
}

// String describes the surface for logs.
func (s *Surface) String() string {
	return fmt.Sprintf("surface %gx%g, %d nodes", s.width, s.height, s.m.Len())
}
