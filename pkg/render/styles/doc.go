// Package styles defines how mind-map nodes and connectors are drawn in SVG.
//
// A [Style] writes through an [svg.SVG] canvas. Two styles are built in:
//
//   - [Boxed]: a rectangle filled with the node's background color and
//     outlined with its own line style; the label baseline sits at
//     (x+padding, y+padding+fontSize).
//   - [Flat]: a borderless rounded box with a centered label.
//
// Labels longer than the padded box are shortened with [Truncate], which
// measures display columns so that wide runes are not cut in half.
//
// [svg.SVG]: https://pkg.go.dev/github.com/ajstarks/svgo#SVG
package styles
