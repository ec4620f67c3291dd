package mindmap

// SelectedBackground is the background color of the current node.
const SelectedBackground = "#fc0"

// NodeStyle holds the visual attributes of a node box.
// Zero-valued fields fall back to DefaultNodeStyle.
type NodeStyle struct {
	BackgroundColor string  `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	Color           string  `json:"color,omitempty" yaml:"color,omitempty"`
	FontSize        float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontWeight      string  `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	LineHeight      float64 `json:"lineHeight,omitempty" yaml:"lineHeight,omitempty"`
	Padding         float64 `json:"padding,omitempty" yaml:"padding,omitempty"`
}

// DefaultNodeStyle is applied field by field to missing style values.
var DefaultNodeStyle = NodeStyle{
	BackgroundColor: "#f0f0f0",
	Color:           "#000000",
	FontSize:        14,
	FontWeight:      "normal",
	LineHeight:      1.5,
	Padding:         8,
}

// Resolve returns a fully populated style. It is safe to call on a nil receiver.
func (s *NodeStyle) Resolve() NodeStyle {
	out := DefaultNodeStyle
	if s == nil {
		return out
	}
	if s.BackgroundColor != "" {
		out.BackgroundColor = s.BackgroundColor
	}
	if s.Color != "" {
		out.Color = s.Color
	}
	if s.FontSize > 0 {
		out.FontSize = s.FontSize
	}
	if s.FontWeight != "" {
		out.FontWeight = s.FontWeight
	}
	if s.LineHeight > 0 {
		out.LineHeight = s.LineHeight
	}
	if s.Padding > 0 {
		out.Padding = s.Padding
	}
	return out
}

// Dash is the stroke pattern of a connector line.
type Dash string

// Supported stroke patterns.
const (
	DashSolid  Dash = "solid"
	DashDashed Dash = "dashed"
	DashDotted Dash = "dotted"
)

// Array returns the SVG stroke-dasharray for the pattern, or "" for solid lines.
func (d Dash) Array() string {
	switch d {
	case DashDashed:
		return "5,5"
	case DashDotted:
		return "1,1"
	default:
		return ""
	}
}

// Pattern returns the dash lengths for raster renderers, nil for solid lines.
func (d Dash) Pattern() []float64 {
	switch d {
	case DashDashed:
		return []float64{5, 5}
	case DashDotted:
		return []float64{1, 1}
	default:
		return nil
	}
}

// LineStyle holds the stroke attributes of the line connecting a node to its parent.
type LineStyle struct {
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
	Width float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Style Dash    `json:"style,omitempty" yaml:"style,omitempty"`
}

// DefaultLineStyle is the documented default of a node's line style.
var DefaultLineStyle = LineStyle{Color: "#000000", Width: 1, Style: DashSolid}

// ConnectorLineStyle is used for connectors whose child has no line style.
var ConnectorLineStyle = LineStyle{Color: "#999", Width: 2, Style: DashSolid}

// Resolve fills zero-valued fields from def. It is safe to call on a nil
// receiver, in which case def is returned unchanged.
func (s *LineStyle) Resolve(def LineStyle) LineStyle {
	if s == nil {
		return def
	}
	out := def
	if s.Color != "" {
		out.Color = s.Color
	}
	if s.Width > 0 {
		out.Width = s.Width
	}
	if s.Style != "" {
		out.Style = s.Style
	}
	return out
}
