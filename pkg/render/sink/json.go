package sink

import (
	json "github.com/goccy/go-json"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style  string
	indent bool
}

// WithJSONStyle records the style name in the output.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Strategy  layout.Strategy `json:"strategy"`
	Style     string          `json:"style,omitempty"`
	BoxWidth  float64         `json:"box_width"`
	BoxHeight float64         `json:"box_height"`
	RowHeight float64         `json:"row_height"`
	Bounds    jsonBounds      `json:"bounds"`
	Boxes     []jsonBox       `json:"boxes"`
	Links     []jsonLink      `json:"links"`
}

type jsonBounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type jsonBox struct {
	ID        string            `json:"id"`
	Parent    string            `json:"parent,omitempty"`
	Text      string            `json:"text"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Depth     int               `json:"depth"`
	Selected  bool              `json:"selected,omitempty"`
	BandTop   float64           `json:"band_top"`
	BandBot   float64           `json:"band_bottom"`
	Style     mindmap.NodeStyle `json:"style"`
	LineStyle mindmap.LineStyle `json:"lineStyle"`
}

type jsonLink struct {
	From  string            `json:"from"`
	To    string            `json:"to"`
	X1    float64           `json:"x1"`
	Y1    float64           `json:"y1"`
	X2    float64           `json:"x2"`
	Y2    float64           `json:"y2"`
	Style mindmap.LineStyle `json:"style"`
}

// RenderJSON exports the layout.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Strategy:  l.Options.Strategy,
		Style:     r.style,
		BoxWidth:  l.Options.BoxWidth,
		BoxHeight: l.Options.BoxHeight,
		RowHeight: l.Options.RowHeight,
		Bounds:    jsonBounds{l.Bounds.MinX, l.Bounds.MinY, l.Bounds.MaxX, l.Bounds.MaxY},
		Boxes:     make([]jsonBox, 0, len(l.Boxes)),
		Links:     make([]jsonLink, 0, len(l.Links)),
	}
	for _, b := range l.Boxes {
		band, _ := l.Band(b.NodeID)
		out.Boxes = append(out.Boxes, jsonBox{
			ID: b.NodeID, Parent: b.ParentID, Text: b.Text,
			X: b.X, Y: b.Y, Width: b.W, Height: b.H,
			Depth: b.Depth, Selected: b.Selected,
			BandTop: band.Top, BandBot: band.Bottom,
			Style: b.Style, LineStyle: b.Border,
		})
	}
	for _, link := range l.Links {
		out.Links = append(out.Links, jsonLink{
			From: link.From, To: link.To,
			X1: link.X1, Y1: link.Y1, X2: link.X2, Y2: link.Y2,
			Style: link.Style,
		})
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
