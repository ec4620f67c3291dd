package layout

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeEmpty(t *testing.T) {
	l := Compute(mindmap.New(mindmap.WithoutRoot()), DefaultOptions())
	if l.Len() != 0 || len(l.Links) != 0 {
		t.Fatalf("got %d boxes, %d links, want none", l.Len(), len(l.Links))
	}
}

func TestComputeRootOnly(t *testing.T) {
	m := mindmap.New()
	opts := DefaultOptions()
	opts.Origin = CenterAnchor(800, 600)

	l := Compute(m, opts)
	if l.Len() != 1 {
		t.Fatalf("got %d boxes, want 1", l.Len())
	}
	b := l.Boxes[0]
	if b.X != 100 || b.Y != 200 {
		t.Errorf("root at (%v, %v), want (100, 200)", b.X, b.Y)
	}
	if b.W != DefaultBoxWidth || b.H != DefaultBoxHeight {
		t.Errorf("root size %vx%v", b.W, b.H)
	}
	if !b.Selected || b.Style.BackgroundColor != mindmap.SelectedBackground {
		t.Errorf("root should be highlighted, got selected=%v bg=%s", b.Selected, b.Style.BackgroundColor)
	}
}

func TestComputeLeafChildren(t *testing.T) {
	for _, k := range []int{1, 2, 3, 5} {
		m := mindmap.New()
		for i := 0; i < k; i++ {
			m.Append("child")
		}
		l := Compute(m, DefaultOptions())
		root, _ := m.Root()
		children := m.Children(root)

		for i, c := range children {
			b, ok := l.Box(c.ID)
			if !ok {
				t.Fatalf("k=%d: missing box for %s", k, c.ID)
			}
			wantY := -float64(k)*DefaultRowHeight/2 + DefaultRowHeight/2 + float64(i)*DefaultRowHeight
			if !near(b.Y, wantY) {
				t.Errorf("k=%d child %d: y=%v, want %v", k, i, b.Y, wantY)
			}
			if b.X != DefaultColumnOffset {
				t.Errorf("k=%d child %d: x=%v, want %v", k, i, b.X, DefaultColumnOffset)
			}
		}

		band, _ := l.Band(root.ID)
		if !near(band.Height(), float64(k)*DefaultRowHeight) {
			t.Errorf("k=%d: root band %v, want %v", k, band.Height(), float64(k)*DefaultRowHeight)
		}
	}
}

func TestComputeLinks(t *testing.T) {
	m := mindmap.New()
	c := m.Append("child")
	c.LineStyle = &mindmap.LineStyle{Color: "#f00", Style: mindmap.DashDotted}

	l := Compute(m, DefaultOptions())
	if len(l.Links) != 1 {
		t.Fatalf("got %d links, want 1", len(l.Links))
	}
	link := l.Links[0]
	parent, _ := l.Box("1")
	child, _ := l.Box(c.ID)

	if link.X1 != parent.Right() || link.Y1 != parent.CenterY() {
		t.Errorf("link starts at (%v, %v), want right-center of parent", link.X1, link.Y1)
	}
	if link.X2 != child.X || link.Y2 != child.CenterY() {
		t.Errorf("link ends at (%v, %v), want left-center of child", link.X2, link.Y2)
	}
	if link.Style.Color != "#f00" || link.Style.Width != mindmap.ConnectorLineStyle.Width {
		t.Errorf("link style = %+v", link.Style)
	}
}

// Root, then a child, then a grandchild under the child.
func TestComputeGrandchildScenario(t *testing.T) {
	m := mindmap.New()
	child := m.Append("new node")
	if err := m.Select(child.ID); err != nil {
		t.Fatal(err)
	}
	grand := m.Append("new node")

	l := Compute(m, DefaultOptions())
	cb, _ := l.Box(child.ID)
	gb, _ := l.Box(grand.ID)
	rb, _ := l.Box("1")

	if gb.X <= cb.X || cb.X <= rb.X {
		t.Errorf("columns not increasing: root %v child %v grandchild %v", rb.X, cb.X, gb.X)
	}
	if !near(gb.Y, cb.Y) {
		t.Errorf("single grandchild y=%v, want aligned with child %v", gb.Y, cb.Y)
	}
	if rb.Selected || !cb.Selected {
		t.Errorf("selection: root=%v child=%v", rb.Selected, cb.Selected)
	}
	assertNoOverlap(t, l)
}

func TestComputeDeepSiblingsDoNotOverlap(t *testing.T) {
	// A two-node chain followed by a wide sibling: the case that breaks
	// the classic placement.
	m := mindmap.New()
	a := m.Append("a")
	b := m.Append("b")
	_ = m.Select(a.ID)
	m.Append("a1")
	_ = m.Select(b.ID)
	for i := 0; i < 4; i++ {
		m.Append("b child")
	}

	l := Compute(m, DefaultOptions())
	assertNoOverlap(t, l)

	ba, _ := l.Band(a.ID)
	bb, _ := l.Band(b.ID)
	if ba.Bottom > bb.Top+1e-9 {
		t.Errorf("bands overlap: a=%+v b=%+v", ba, bb)
	}
}

func TestComputeClassic(t *testing.T) {
	m := mindmap.New()
	a := m.Append("a")
	m.Append("b")
	_ = m.Select(a.ID)
	a1 := m.Append("a1")

	opts := DefaultOptions()
	opts.Strategy = StrategyClassic
	l := Compute(m, opts)

	ab, _ := l.Box(a.ID)
	if !near(ab.Y, -30) {
		t.Errorf("a.y = %v, want -30", ab.Y)
	}
	// a is the first sibling, so no shift.
	a1b, _ := l.Box(a1.ID)
	if !near(a1b.Y, ab.Y) {
		t.Errorf("a1.y = %v, want %v", a1b.Y, ab.Y)
	}
	if _, ok := l.Band(a.ID); !ok {
		t.Error("classic layout should record extent bands")
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", StrategyBanded, false},
		{"banded", StrategyBanded, false},
		{"classic", StrategyClassic, false},
		{"radial", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestReservedHeight(t *testing.T) {
	if ReservedHeight(0, 60) != 60 || ReservedHeight(1, 60) != 60 || ReservedHeight(4, 60) != 240 {
		t.Error("unexpected reserved heights")
	}
}

func TestBounds(t *testing.T) {
	m := mindmap.New()
	m.Append("a")
	m.Append("b")
	l := Compute(m, DefaultOptions())
	if l.Bounds.MinX != 0 || l.Bounds.MaxX != DefaultColumnOffset+DefaultBoxWidth {
		t.Errorf("bounds x = [%v, %v]", l.Bounds.MinX, l.Bounds.MaxX)
	}
	if !near(l.Bounds.MinY, -30) || !near(l.Bounds.MaxY, 80) {
		t.Errorf("bounds y = [%v, %v]", l.Bounds.MinY, l.Bounds.MaxY)
	}
}

// randomMap builds a tree by repeatedly selecting an existing node and appending.
func randomMap(t *rapid.T) *mindmap.Map {
	m := mindmap.New()
	n := rapid.IntRange(0, 40).Draw(t, "appends")
	for i := 0; i < n; i++ {
		nodes := m.Nodes()
		target := rapid.IntRange(0, len(nodes)-1).Draw(t, "target")
		_ = m.Select(nodes[target].ID)
		m.Append("n")
	}
	return m
}

func TestBandedProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := randomMap(t)
		l := Compute(m, DefaultOptions())

		if l.Len() != m.Len() {
			t.Fatalf("got %d boxes for %d nodes", l.Len(), m.Len())
		}

		for _, n := range m.Nodes() {
			children := m.Children(n)
			// Sibling bands are consecutive and disjoint.
			for i := 1; i < len(children); i++ {
				prev, _ := l.Band(children[i-1].ID)
				cur, _ := l.Band(children[i].ID)
				if cur.Top < prev.Bottom-1e-9 {
					t.Fatalf("bands of %s and %s overlap", children[i-1].ID, children[i].ID)
				}
			}
			// Each box lies inside its own band and all ancestor bands.
			b, _ := l.Box(n.ID)
			for p, ok := n, true; ok; p, ok = m.Parent(p) {
				band, _ := l.Band(p.ID)
				if !band.Contains(b.Y, b.Bottom()) {
					t.Fatalf("box %s [%v, %v] outside band of %s %+v", n.ID, b.Y, b.Bottom(), p.ID, band)
				}
			}
			// Children sit exactly one column to the right.
			for _, c := range children {
				cb, _ := l.Box(c.ID)
				if !near(cb.X, b.X+DefaultColumnOffset) {
					t.Fatalf("child %s x=%v, parent x=%v", c.ID, cb.X, b.X)
				}
			}
		}

		for i := range l.Boxes {
			for j := i + 1; j < len(l.Boxes); j++ {
				if l.Boxes[i].Overlaps(l.Boxes[j]) {
					t.Fatalf("boxes %s and %s overlap", l.Boxes[i].NodeID, l.Boxes[j].NodeID)
				}
			}
		}
	})
}

func assertNoOverlap(t *testing.T, l Layout) {
	t.Helper()
	for i := range l.Boxes {
		for j := i + 1; j < len(l.Boxes); j++ {
			if l.Boxes[i].Overlaps(l.Boxes[j]) {
				t.Errorf("boxes %s and %s overlap", l.Boxes[i].NodeID, l.Boxes[j].NodeID)
			}
		}
	}
}
