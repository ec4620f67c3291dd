// Package sink renders mind-map layouts to output formats.
//
// # SVG
//
// [RenderSVG] draws connectors first, then one <g class="node"> group per
// box holding the shape and the label. Groups carry data-id attributes so
// that scripts can identify the clicked node.
//
//	svg := sink.RenderSVG(l,
//	    sink.WithStyle(styles.Boxed{}),
//	    sink.WithSize(1280, 800),
//	    sink.WithClickURL("/maps/42/nodes/{id}/click"),
//	)
//
// By default the document covers the surface (WithSize) so that coordinates
// match the interactive view. [WithFit] crops to the layout bounds instead.
//
// When a click URL is configured, an embedded script POSTs to it with {id}
// replaced by the node id and reloads the page.
//
// # PNG
//
// [RenderPNG] rasterizes in process with fogleman/gg and the Go Mono font.
// Output is always cropped to the layout bounds plus margin.
//
// # PDF
//
// [RenderPDF] converts the SVG with rsvg-convert; see render.ToPDF.
//
// # JSON
//
// [RenderJSON] exports the computed boxes and links so other tools can draw
// the map without re-implementing the layout.
package sink
