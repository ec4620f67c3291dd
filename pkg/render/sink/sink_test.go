package sink

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/render/styles"
)

func sampleLayout(t *testing.T) (*mindmap.Map, layout.Layout) {
	t.Helper()
	m := mindmap.New()
	child := m.Append("new node")
	child.LineStyle = &mindmap.LineStyle{Style: mindmap.DashDashed}
	if err := m.Select(child.ID); err != nil {
		t.Fatal(err)
	}
	m.Append("grandchild")
	return m, layout.Compute(m, layout.DefaultOptions())
}

func TestRenderSVG(t *testing.T) {
	_, l := sampleLayout(t)
	out := string(RenderSVG(l, WithSize(800, 600), WithTitle("demo")))

	for _, want := range []string{
		`width="800"`, `height="600"`,
		"<title>demo</title>",
		`id="node-1"`, `data-id="3"`,
		`class="node selected"`,
		"Root Node", "grandchild",
		`stroke-dasharray="5,5"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %s", want)
		}
	}
	if strings.Contains(out, "<script") {
		t.Error("no click script expected without a click URL")
	}
	if got := strings.Count(out, `class="node`); got != 3 {
		t.Errorf("got %d node groups, want 3", got)
	}
	if got := strings.Count(out, `class="link"`); got != 2 {
		t.Errorf("got %d links, want 2", got)
	}
}

func TestRenderSVGClickURL(t *testing.T) {
	_, l := sampleLayout(t)
	out := string(RenderSVG(l, WithClickURL("/maps/abc/nodes/{id}/click")))
	if !strings.Contains(out, "<script") || !strings.Contains(out, "/maps/abc/nodes/{id}/click") {
		t.Errorf("click script missing:\n%s", out)
	}
}

func TestRenderSVGFit(t *testing.T) {
	_, l := sampleLayout(t)
	out := string(RenderSVG(l, WithFit(10), WithStyle(styles.Flat{})))
	// Bounds are [0, 400] x [0, 50].
	if !strings.Contains(out, `viewBox="-10 -10 420 70"`) {
		t.Errorf("unexpected viewBox:\n%s", out)
	}
	if !strings.Contains(out, "<rect") || !strings.Contains(out, `rx="6"`) {
		t.Error("flat style should draw rounded boxes")
	}
}

func TestRenderPNG(t *testing.T) {
	m := mindmap.New()
	l := layout.Compute(m, layout.DefaultOptions())

	data, err := RenderPNG(l, WithScale(2))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 280 || b.Dy() != 180 {
		t.Errorf("size = %dx%d, want 280x180", b.Dx(), b.Dy())
	}
}

func TestRenderJSON(t *testing.T) {
	_, l := sampleLayout(t)
	data, err := RenderJSON(l, WithJSONStyle("boxed"), WithJSONIndent())
	if err != nil {
		t.Fatal(err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Strategy != layout.StrategyBanded || out.Style != "boxed" {
		t.Errorf("header = %+v", out)
	}
	if len(out.Boxes) != 3 || len(out.Links) != 2 {
		t.Fatalf("got %d boxes, %d links", len(out.Boxes), len(out.Links))
	}
	if out.Boxes[1].Parent != "1" || !out.Boxes[1].Selected {
		t.Errorf("child box = %+v", out.Boxes[1])
	}
	if out.Boxes[0].Style.BackgroundColor != "#f0f0f0" {
		t.Errorf("root should not be highlighted, got %s", out.Boxes[0].Style.BackgroundColor)
	}
}
