package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	json "github.com/goccy/go-json"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render/styles"
)

// DefaultMargin is the padding around the layout bounds in fit mode.
const DefaultMargin = 20.0

const clickJS = `
    (function() {
      var url = %s;
      document.querySelectorAll('.node').forEach(function(el) {
        el.addEventListener('click', function() {
          fetch(url.replace('{id}', encodeURIComponent(el.dataset.id)), {method: 'POST'})
            .then(function() { location.reload(); });
        });
      });
    })();`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style    styles.Style
	width    float64
	height   float64
	fit      bool
	margin   float64
	clickURL string
	title    string
}

// WithStyle selects the node style (default Boxed).
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithSize sets the surface size the document covers.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithFit crops the document to the layout bounds plus margin.
func WithFit(margin float64) SVGOption {
	return func(r *svgRenderer) { r.fit, r.margin = true, margin }
}

// WithClickURL embeds a script that POSTs to url when a node is clicked.
// The substring {id} is replaced with the node id.
func WithClickURL(url string) SVGOption { return func(r *svgRenderer) { r.clickURL = url } }

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG renders the layout as an SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	r.start(canvas, l)

	if r.title != "" {
		canvas.Title(r.title)
	}
	r.style.RenderDefs(canvas)

	canvas.Gid("links")
	for _, link := range l.Links {
		r.style.RenderLink(canvas, link)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, b := range l.Boxes {
		canvas.Group(nodeAttrs(b)...)
		r.style.RenderBox(canvas, b)
		r.style.RenderText(canvas, b)
		canvas.Gend()
	}
	canvas.Gend()

	if r.clickURL != "" {
		url, _ := json.Marshal(r.clickURL)
		canvas.Script("text/javascript", fmt.Sprintf(clickJS, url))
	}

	canvas.End()
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Boxed{}, margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *svgRenderer) start(canvas *svg.SVG, l layout.Layout) {
	if !r.fit && r.width > 0 && r.height > 0 {
		canvas.Start(int(r.width), int(r.height))
		return
	}
	minX, minY, w, h := fitFrame(l.Bounds, r.margin)
	canvas.Startview(w, h, minX, minY, w, h)
}

// fitFrame returns the integer frame covering bounds plus margin.
func fitFrame(b layout.Bounds, margin float64) (minX, minY, w, h int) {
	minX = int(math.Floor(b.MinX - margin))
	minY = int(math.Floor(b.MinY - margin))
	w = int(math.Ceil(b.MaxX+margin)) - minX
	h = int(math.Ceil(b.MaxY+margin)) - minY
	return minX, minY, max(w, 1), max(h, 1)
}

func nodeAttrs(b layout.Box) []string {
	class := "node"
	if b.Selected {
		class += " selected"
	}
	return []string{
		fmt.Sprintf(`id="node-%s"`, xmlAttr(b.NodeID)),
		fmt.Sprintf(`class="%s"`, class),
		fmt.Sprintf(`data-id="%s"`, xmlAttr(b.NodeID)),
	}
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func xmlAttr(s string) string { return attrEscaper.Replace(s) }
