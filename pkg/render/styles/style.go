package styles

import (
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/mindmap/pkg/layout"
)

// Style defines how boxes, connectors and labels are drawn.
type Style interface {
	// Name identifies the style in CLI flags and config files.
	Name() string
	// RenderDefs writes stylesheet or <defs> content once per document.
	RenderDefs(canvas *svg.SVG)
	// RenderBox writes the shape of a single node.
	RenderBox(canvas *svg.SVG, b layout.Box)
	// RenderLink writes the connector between a parent and a child.
	RenderLink(canvas *svg.SVG, l layout.Link)
	// RenderText writes the label of a node.
	RenderText(canvas *svg.SVG, b layout.Box)
}

// Names of the built-in styles.
const (
	NameBoxed = "boxed"
	NameFlat  = "flat"
)

// ByName returns the style registered under name. An empty name selects Boxed.
func ByName(name string) (Style, error) {
	switch name {
	case "", NameBoxed:
		return Boxed{}, nil
	case NameFlat:
		return Flat{}, nil
	default:
		return nil, fmt.Errorf("unknown style: %s (must be 'boxed' or 'flat')", name)
	}
}

// Boxed draws every node as a filled rectangle outlined with the node's own
// line style, with the label anchored at the top-left padding.
type Boxed struct{}

func (Boxed) Name() string { return NameBoxed }

func (Boxed) RenderDefs(canvas *svg.SVG) {
	canvas.Style("text/css", `
    .node { cursor: pointer; }
    .node:hover rect { stroke-width: 2; }`)
}

func (Boxed) RenderBox(canvas *svg.SVG, b layout.Box) {
	attrs := []string{
		fmt.Sprintf(`fill="%s"`, b.Style.BackgroundColor),
		fmt.Sprintf(`stroke="%s"`, b.Border.Color),
		fmt.Sprintf(`stroke-width="%s"`, num(b.Border.Width)),
	}
	if dash := b.Border.Style.Array(); dash != "" {
		attrs = append(attrs, fmt.Sprintf(`stroke-dasharray="%s"`, dash))
	}
	canvas.Rect(px(b.X), px(b.Y), px(b.W), px(b.H), attrs...)
}

func (Boxed) RenderLink(canvas *svg.SVG, l layout.Link) {
	renderLine(canvas, l)
}

func (Boxed) RenderText(canvas *svg.SVG, b layout.Box) {
	renderLabel(canvas, b, "start")
}

// Flat draws borderless rounded boxes with a centered label.
type Flat struct{}

func (Flat) Name() string { return NameFlat }

func (Flat) RenderDefs(canvas *svg.SVG) {
	canvas.Style("text/css", `
    .node { cursor: pointer; }
    .node:hover rect { opacity: 0.85; }`)
}

func (Flat) RenderBox(canvas *svg.SVG, b layout.Box) {
	canvas.Roundrect(px(b.X), px(b.Y), px(b.W), px(b.H), 6, 6,
		fmt.Sprintf(`fill="%s"`, b.Style.BackgroundColor))
}

func (Flat) RenderLink(canvas *svg.SVG, l layout.Link) {
	renderLine(canvas, l)
}

func (Flat) RenderText(canvas *svg.SVG, b layout.Box) {
	renderLabel(canvas, b, "middle")
}

func renderLine(canvas *svg.SVG, l layout.Link) {
	attrs := []string{
		fmt.Sprintf(`stroke="%s"`, l.Style.Color),
		fmt.Sprintf(`stroke-width="%s"`, num(l.Style.Width)),
		`class="link"`,
	}
	if dash := l.Style.Style.Array(); dash != "" {
		attrs = append(attrs, fmt.Sprintf(`stroke-dasharray="%s"`, dash))
	}
	canvas.Line(px(l.X1), px(l.Y1), px(l.X2), px(l.Y2), attrs...)
}

func renderLabel(canvas *svg.SVG, b layout.Box, anchor string) {
	s := b.Style
	x := b.X + s.Padding
	if anchor == "middle" {
		x = b.CenterX()
	}
	y := b.Y + s.Padding + s.FontSize
	canvas.Text(px(x), px(y), Truncate(b.Text, LabelColumns(b)),
		fmt.Sprintf(`fill="%s"`, s.Color),
		fmt.Sprintf(`font-size="%s"`, num(s.FontSize)),
		fmt.Sprintf(`font-weight="%s"`, s.FontWeight),
		`font-family="sans-serif"`,
		fmt.Sprintf(`text-anchor="%s"`, anchor),
		`class="label"`,
	)
}

func num(v float64) string { return fmt.Sprintf("%g", v) }

// px rounds a layout coordinate to the integer grid used by the SVG writer.
func px(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

var (
	_ Style = Boxed{}
	_ Style = Flat{}
)
