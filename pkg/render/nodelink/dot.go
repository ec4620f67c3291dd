package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed appends the node id and public metadata to labels.
	Detailed bool
}

// ToDOT converts a map to Graphviz DOT format.
func ToDOT(m *mindmap.Map, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	nodes := m.Nodes()
	for _, n := range nodes {
		attrs := nodeAttrs(n, m.IsCurrent(n), fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		parent, ok := m.Parent(n)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", parent.ID, n.ID, strings.Join(edgeAttrs(n), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *mindmap.Node, detailed bool) string {
	if !detailed {
		return n.Text
	}

	parts := []string{"id: " + n.ID}
	pub := n.Meta.Public()
	for _, k := range slices.Sorted(maps.Keys(pub)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, pub[k]))
	}
	return n.Text + "\n" + strings.Join(parts, "\n")
}

func nodeAttrs(n *mindmap.Node, selected bool, label string) []string {
	s := n.Style.Resolve()
	fill := s.BackgroundColor
	if selected {
		fill = mindmap.SelectedBackground
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("fontcolor=%q", s.Color),
	}
	if s.FontWeight == "bold" {
		attrs = append(attrs, `fontname="Helvetica-Bold"`)
	}
	return attrs
}

func edgeAttrs(n *mindmap.Node) []string {
	ls := n.LineStyle.Resolve(mindmap.ConnectorLineStyle)
	attrs := []string{
		fmt.Sprintf("color=%q", ls.Color),
		fmt.Sprintf("penwidth=%g", ls.Width),
	}
	if ls.Style != mindmap.DashSolid {
		attrs = append(attrs, fmt.Sprintf("style=%s", ls.Style))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a pixel one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
