package styles

import (
	"bytes"
	"strings"
	"testing"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		cols int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer label", 8, "a long.."},
		{"思维导图节点", 6, "思维.."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.cols); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.cols, got, tt.want)
		}
	}
}

func TestLabelColumns(t *testing.T) {
	b := layout.Box{W: 100, Style: mindmap.DefaultNodeStyle}
	// (100 - 16) / (14 * 0.6) = 10
	if got := LabelColumns(b); got != 10 {
		t.Errorf("LabelColumns = %d, want 10", got)
	}
	b.W = 10
	if got := LabelColumns(b); got != 3 {
		t.Errorf("LabelColumns narrow = %d, want 3", got)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "boxed", "flat"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("neon"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestBoxedRenderBox(t *testing.T) {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	b := layout.Box{
		X: 10, Y: 20, W: 100, H: 50,
		Style:  mindmap.DefaultNodeStyle,
		Border: mindmap.LineStyle{Color: "#123456", Width: 1, Style: mindmap.DashDashed},
	}
	Boxed{}.RenderBox(canvas, b)
	Boxed{}.RenderText(canvas, layout.Box{X: 10, Y: 20, W: 100, H: 50, Text: "a<b", Style: mindmap.DefaultNodeStyle})

	out := buf.String()
	for _, want := range []string{
		`x="10"`, `y="20"`, `width="100"`, `height="50"`,
		`fill="#f0f0f0"`, `stroke="#123456"`, `stroke-dasharray="5,5"`,
		`font-size="14"`, "a&lt;b",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	// Baseline at y + padding + fontSize.
	if !strings.Contains(out, `<text x="18" y="42"`) {
		t.Errorf("unexpected label position:\n%s", out)
	}
}
