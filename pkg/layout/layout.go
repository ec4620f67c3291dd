package layout

import (
	"fmt"
	"time"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Default geometry, in pixels.
const (
	DefaultBoxWidth     = 100.0
	DefaultBoxHeight    = 50.0
	DefaultRowHeight    = 60.0
	DefaultColumnOffset = 150.0

	// RootOffsetX and RootOffsetY shift the root from the surface center
	// toward the top-left so that a growing tree stays on screen.
	RootOffsetX = 300.0
	RootOffsetY = 100.0
)

// Strategy selects the placement rule for children.
type Strategy string

// Supported strategies.
const (
	StrategyBanded  Strategy = "banded"
	StrategyClassic Strategy = "classic"
)

// ValidStrategies is the set of supported strategies.
var ValidStrategies = map[Strategy]bool{
	StrategyBanded:  true,
	StrategyClassic: true,
}

// ParseStrategy converts a user-supplied name into a Strategy.
// An empty name selects the default.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return StrategyBanded, nil
	}
	st := Strategy(s)
	if !ValidStrategies[st] {
		return "", fmt.Errorf("invalid strategy: %s (must be 'banded' or 'classic')", s)
	}
	return st, nil
}

// Point is a position in surface coordinates.
type Point struct {
	X, Y float64
}

// CenterAnchor returns the root position derived from a surface of the given size.
func CenterAnchor(width, height float64) Point {
	return Point{X: width/2 - RootOffsetX, Y: height/2 - RootOffsetY}
}

// Options configures the layout geometry.
type Options struct {
	BoxWidth     float64  `json:"box_width"`
	BoxHeight    float64  `json:"box_height"`
	RowHeight    float64  `json:"row_height"`
	ColumnOffset float64  `json:"column_offset"`
	Strategy     Strategy `json:"strategy"`

	// Origin is the top-left corner of the root box.
	Origin Point `json:"origin"`
}

// DefaultOptions returns the default geometry with the root at the origin.
func DefaultOptions() Options {
	o := Options{}
	o.SetDefaults()
	return o
}

// SetDefaults fills zero-valued fields. Origin is left untouched.
func (o *Options) SetDefaults() {
	if o.BoxWidth <= 0 {
		o.BoxWidth = DefaultBoxWidth
	}
	if o.BoxHeight <= 0 {
		o.BoxHeight = DefaultBoxHeight
	}
	if o.RowHeight <= 0 {
		o.RowHeight = DefaultRowHeight
	}
	if o.ColumnOffset <= 0 {
		o.ColumnOffset = DefaultColumnOffset
	}
	if o.Strategy == "" {
		o.Strategy = StrategyBanded
	}
}

// Box is a positioned node.
type Box struct {
	NodeID   string
	ParentID string
	Text     string
	X, Y     float64
	W, H     float64
	Depth    int
	Selected bool
	Style    mindmap.NodeStyle
	Border   mindmap.LineStyle
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// CenterX returns the horizontal center.
func (b Box) CenterX() float64 { return b.X + b.W/2 }

// CenterY returns the vertical center.
func (b Box) CenterY() float64 { return b.Y + b.H/2 }

// Overlaps reports whether two boxes share a region of positive area.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}

// Link is a straight connector from a parent box to a child box.
type Link struct {
	From, To       string
	X1, Y1, X2, Y2 float64
	Style          mindmap.LineStyle
}

// Band is the vertical range reserved for a node's subtree.
type Band struct {
	NodeID      string
	Top, Bottom float64
}

// Height returns the extent of the band.
func (b Band) Height() float64 { return b.Bottom - b.Top }

// Contains reports whether the vertical range [top, bottom] lies inside the band.
func (b Band) Contains(top, bottom float64) bool {
	const eps = 1e-9
	return top >= b.Top-eps && bottom <= b.Bottom+eps
}

// Bounds is the axis-aligned rectangle covering all boxes.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Layout is the result of [Compute].
type Layout struct {
	Boxes   []Box // pre-order
	Links   []Link
	Bands   map[string]Band
	Bounds  Bounds
	Options Options

	// Elapsed is the time spent computing the layout.
	Elapsed time.Duration

	index map[string]int
}

// Box returns the box of a node.
func (l Layout) Box(id string) (Box, bool) {
	i, ok := l.index[id]
	if !ok {
		return Box{}, false
	}
	return l.Boxes[i], true
}

// Band returns the band reserved for a node's subtree.
func (l Layout) Band(id string) (Band, bool) {
	b, ok := l.Bands[id]
	return b, ok
}

// Len returns the number of boxes.
func (l Layout) Len() int { return len(l.Boxes) }

// ReservedHeight returns the vertical room a subtree with the given number of
// descendants reserves.
func ReservedHeight(descendants int, rowHeight float64) float64 {
	return float64(max(1, descendants)) * rowHeight
}

// Compute lays out the whole map. An empty map yields an empty layout.
func Compute(m *mindmap.Map, opts Options) Layout {
	start := time.Now()
	opts.SetDefaults()

	l := Layout{
		Bands:   make(map[string]Band, m.Len()),
		Options: opts,
		index:   make(map[string]int, m.Len()),
	}

	root, ok := m.Root()
	if !ok {
		l.Elapsed = time.Since(start)
		return l
	}

	p := placer{m: m, opts: opts, counts: m.DescendantCounts(), out: &l}
	switch opts.Strategy {
	case StrategyClassic:
		p.classic(root, opts.Origin.X, opts.Origin.Y, 0)
		p.extentBands(root)
	default:
		cy := opts.Origin.Y + opts.BoxHeight/2
		reserved := ReservedHeight(p.counts[root.ID], opts.RowHeight)
		l.Bands[root.ID] = Band{NodeID: root.ID, Top: cy - reserved/2, Bottom: cy + reserved/2}
		p.banded(root, opts.Origin.X, opts.Origin.Y, 0)
	}

	l.Bounds = computeBounds(l.Boxes)
	l.Elapsed = time.Since(start)
	return l
}

type placer struct {
	m      *mindmap.Map
	opts   Options
	counts map[string]int
	out    *Layout
}

func (p *placer) place(n *mindmap.Node, x, y float64, depth int) Box {
	parentID := ""
	if parent, ok := p.m.Parent(n); ok {
		parentID = parent.ID
	}
	style := n.Style.Resolve()
	selected := p.m.IsCurrent(n)
	if selected {
		style.BackgroundColor = mindmap.SelectedBackground
	}

	b := Box{
		NodeID:   n.ID,
		ParentID: parentID,
		Text:     n.Text,
		X:        x,
		Y:        y,
		W:        p.opts.BoxWidth,
		H:        p.opts.BoxHeight,
		Depth:    depth,
		Selected: selected,
		Style:    style,
		Border:   n.LineStyle.Resolve(mindmap.DefaultLineStyle),
	}
	p.out.index[n.ID] = len(p.out.Boxes)
	p.out.Boxes = append(p.out.Boxes, b)
	return b
}

func (p *placer) link(parent Box, child *mindmap.Node, childX, childY float64) {
	p.out.Links = append(p.out.Links, Link{
		From:  parent.NodeID,
		To:    child.ID,
		X1:    parent.Right(),
		Y1:    parent.CenterY(),
		X2:    childX,
		Y2:    childY + p.opts.BoxHeight/2,
		Style: child.LineStyle.Resolve(mindmap.ConnectorLineStyle),
	})
}

// banded places n at (x, y) and its children in consecutive bands centered
// on n's row.
func (p *placer) banded(n *mindmap.Node, x, y float64, depth int) {
	box := p.place(n, x, y, depth)
	children := p.m.Children(n)
	if len(children) == 0 {
		return
	}

	total := 0.0
	for _, c := range children {
		total += ReservedHeight(p.counts[c.ID], p.opts.RowHeight)
	}

	childX := x + p.opts.ColumnOffset
	top := box.CenterY() - total/2
	for _, c := range children {
		reserved := ReservedHeight(p.counts[c.ID], p.opts.RowHeight)
		p.out.Bands[c.ID] = Band{NodeID: c.ID, Top: top, Bottom: top + reserved}

		childY := top + reserved/2 - p.opts.BoxHeight/2
		p.link(box, c, childX, childY)
		p.banded(c, childX, childY, depth+1)
		top += reserved
	}
}

// classic reproduces the older placement: the children's start row is
// shifted by the reservations of n's own earlier siblings.
func (p *placer) classic(n *mindmap.Node, x, y float64, depth int) {
	box := p.place(n, x, y, depth)
	children := p.m.Children(n)
	if len(children) == 0 {
		return
	}

	rowH := p.opts.RowHeight
	childX := x + p.opts.ColumnOffset
	startY := y - float64(len(children))*rowH/2 + rowH/2

	if parent, ok := p.m.Parent(n); ok {
		siblings := p.m.Children(parent)
		for i := 0; i < p.m.SiblingIndex(n); i++ {
			startY += ReservedHeight(p.counts[siblings[i].ID], rowH)
		}
	}

	for i, c := range children {
		childY := startY + float64(i)*rowH
		p.classic(c, childX, childY, depth+1)
		p.link(box, c, childX, childY)
	}
}

// extentBands records, for the classic strategy, the actual vertical extent
// of every subtree (rows of the node and all its descendants).
func (p *placer) extentBands(n *mindmap.Node) Band {
	box, _ := p.out.Box(n.ID)
	band := Band{NodeID: n.ID, Top: box.Y, Bottom: box.Y + p.opts.RowHeight}
	for _, c := range p.m.Children(n) {
		cb := p.extentBands(c)
		band.Top = min(band.Top, cb.Top)
		band.Bottom = max(band.Bottom, cb.Bottom)
	}
	p.out.Bands[n.ID] = band
	return band
}

func computeBounds(boxes []Box) Bounds {
	if len(boxes) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: boxes[0].X, MinY: boxes[0].Y, MaxX: boxes[0].Right(), MaxY: boxes[0].Bottom()}
	for _, box := range boxes[1:] {
		b.MinX = min(b.MinX, box.X)
		b.MinY = min(b.MinY, box.Y)
		b.MaxX = max(b.MaxX, box.Right())
		b.MaxY = max(b.MaxY, box.Bottom())
	}
	return b
}
