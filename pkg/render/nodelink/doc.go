// Package nodelink renders mind maps as Graphviz node-link diagrams.
//
// # Overview
//
// This is an alternative to the banded tree view: Graphviz decides node
// placement, which is useful for very wide maps or for feeding other tools.
//
// # Usage
//
//	dot := nodelink.ToDOT(m, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # DOT Format
//
// The generated graph flows left to right (rankdir=LR) like the tree view.
// Node fill and font colors come from the node styles; the current node is
// filled with the selection color. Edge color and dash pattern come from the
// child's line style.
//
// # Dependencies
//
// In-process rendering uses [github.com/goccy/go-graphviz]. PDF and PNG
// conversion requires librsvg (rsvg-convert).
package nodelink
