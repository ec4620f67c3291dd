package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render/styles"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	margin     float64
	background string
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithMargin sets the padding around the layout bounds.
func WithMargin(m float64) PNGOption { return func(r *pngRenderer) { r.margin = m } }

// WithBackground sets the canvas color (default white).
func WithBackground(hex string) PNGOption { return func(r *pngRenderer) { r.background = hex } }

// RenderPNG rasterizes the layout.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, margin: DefaultMargin, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	minX, minY, w, h := fitFrame(l.Bounds, r.margin)
	p := painter{
		dc:    gg.NewContext(int(float64(w)*r.scale), int(float64(h)*r.scale)),
		ttf:   ttf,
		faces: make(map[float64]font.Face),
		scale: r.scale,
		ox:    float64(minX),
		oy:    float64(minY),
	}

	p.dc.SetHexColor(r.background)
	p.dc.Clear()

	for _, link := range l.Links {
		p.link(link)
	}
	for _, b := range l.Boxes {
		p.box(b)
	}

	var buf bytes.Buffer
	if err := p.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type painter struct {
	dc     *gg.Context
	ttf    *truetype.Font
	faces  map[float64]font.Face
	scale  float64
	ox, oy float64
}

func (p *painter) x(v float64) float64 { return (v - p.ox) * p.scale }
func (p *painter) y(v float64) float64 { return (v - p.oy) * p.scale }

func (p *painter) face(size float64) font.Face {
	if f, ok := p.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(p.ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	p.faces[size] = f
	return f
}

func (p *painter) stroke(color string, width float64, dash []float64) {
	p.dc.SetHexColor(color)
	p.dc.SetLineWidth(width * p.scale)
	scaled := make([]float64, len(dash))
	for i, d := range dash {
		scaled[i] = d * p.scale
	}
	p.dc.SetDash(scaled...)
	p.dc.Stroke()
}

func (p *painter) link(l layout.Link) {
	p.dc.DrawLine(p.x(l.X1), p.y(l.Y1), p.x(l.X2), p.y(l.Y2))
	p.stroke(l.Style.Color, l.Style.Width, l.Style.Style.Pattern())
}

func (p *painter) box(b layout.Box) {
	x, y := p.x(b.X), p.y(b.Y)
	w, h := b.W*p.scale, b.H*p.scale

	p.dc.DrawRectangle(x, y, w, h)
	p.dc.SetHexColor(b.Style.BackgroundColor)
	p.dc.Fill()

	p.dc.DrawRectangle(x, y, w, h)
	p.stroke(b.Border.Color, b.Border.Width, b.Border.Style.Pattern())

	s := b.Style
	p.dc.SetFontFace(p.face(s.FontSize * p.scale))
	p.dc.SetHexColor(s.Color)
	p.dc.DrawString(styles.Truncate(b.Text, styles.LabelColumns(b)),
		p.x(b.X+s.Padding), p.y(b.Y+s.Padding+s.FontSize))
}
