// Package render turns mind-map layouts into visual output.
//
// # Overview
//
// Rendering is split into:
//
//   - Generic format conversion (SVG to PDF/PNG) in this package
//   - Node styles (in [styles] subpackage)
//   - Output sinks for SVG, PNG, PDF and JSON (in [sink] subpackage)
//   - Graphviz node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). The PDF sink relies on it; PNG output is rasterized in
// process by the sink package and only the node-link renderer falls back to
// rsvg-convert for PNG.
//
//	svg := sink.RenderSVG(l, sink.WithStyle(styles.Boxed{}))
//	pdf, err := render.ToPDF(svg)
//
// [styles]: github.com/matzehuels/mindmap/pkg/render/styles
// [sink]: github.com/matzehuels/mindmap/pkg/render/sink
// [nodelink]: github.com/matzehuels/mindmap/pkg/render/nodelink
package render
