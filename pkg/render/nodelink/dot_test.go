package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

func sampleMap() *mindmap.Map {
	m := mindmap.New()
	a := m.Append("alpha")
	a.LineStyle = &mindmap.LineStyle{Color: "#f00", Style: mindmap.DashDotted}
	a.SetMeta("owner", "ops")
	a.SetMeta("_x", 150.0)
	m.Append("beta")
	return m
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleMap(), Options{})

	for _, want := range []string{
		"rankdir=LR",
		`"1" [label="Root Node", fillcolor="#fc0"`,
		`"2" [label="alpha", fillcolor="#f0f0f0"`,
		`"1" -> "2" [color="#f00", penwidth=2, style=dotted]`,
		`"1" -> "3" [color="#999", penwidth=2]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleMap(), Options{Detailed: true})
	if !strings.Contains(dot, `alpha\nid: 2\nowner: ops`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if strings.Contains(dot, "_x") {
		t.Error("transient metadata must not appear in labels")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="62" height="44"`) {
		t.Errorf("unexpected header: %s", out)
	}
	if string(normalizeViewBox([]byte("<svg><g/></svg>"))) != "<svg><g/></svg>" {
		t.Error("input without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleMap(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "alpha") {
		t.Error("rendered SVG should contain node labels")
	}
}
