package surface

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/observability"
)

func TestNewSurface(t *testing.T) {
	s := New(800, 600, layout.DefaultOptions())

	if s.Map().Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Map().Len())
	}
	root, _ := s.Map().Root()
	if root.Text != mindmap.DefaultRootText {
		t.Errorf("root text = %q", root.Text)
	}
	b, ok := s.Layout().Box(root.ID)
	if !ok || b.X != 100 || b.Y != 200 {
		t.Errorf("root box = %+v", b)
	}
	if root.Meta[MetaX] != 100.0 || root.Meta[MetaY] != 200.0 {
		t.Errorf("transient coordinates = %v", root.Meta)
	}
}

// Click the root, then click the new child.
func TestClickScenario(t *testing.T) {
	s := New(1280, 800, layout.DefaultOptions())
	root, _ := s.Map().Root()

	child, err := s.Click(root.ID)
	if err != nil {
		t.Fatal(err)
	}
	if child.Text != ClickText || s.Map().Len() != 2 {
		t.Fatalf("child = %+v, len = %d", child, s.Map().Len())
	}
	rb, _ := s.Layout().Box(root.ID)
	if !rb.Selected || rb.Style.BackgroundColor != mindmap.SelectedBackground {
		t.Errorf("root should be drawn selected, got %+v", rb.Style)
	}

	grand, err := s.Click(child.ID)
	if err != nil {
		t.Fatal(err)
	}
	cb, _ := s.Layout().Box(child.ID)
	gb, _ := s.Layout().Box(grand.ID)
	if gb.X <= cb.X {
		t.Errorf("grandchild x=%v should be right of child x=%v", gb.X, cb.X)
	}
	if parent, _ := s.Map().Parent(grand); parent.ID != child.ID {
		t.Errorf("grandchild parent = %s", parent.ID)
	}

	boxes := s.Layout().Boxes
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Overlaps(boxes[j]) {
				t.Errorf("boxes %s and %s overlap", boxes[i].NodeID, boxes[j].NodeID)
			}
		}
	}
	if grand.Meta[MetaX] != gb.X {
		t.Errorf("transient x = %v, want %v", grand.Meta[MetaX], gb.X)
	}
}

func TestClickUnknownNode(t *testing.T) {
	s := New(800, 600, layout.DefaultOptions())
	_, err := s.Click("99")
	if !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("err = %v, want NODE_NOT_FOUND", err)
	}
	if s.Map().Len() != 1 {
		t.Error("failed click must not append")
	}
}

func TestAppendValidatesText(t *testing.T) {
	s := New(800, 600, layout.DefaultOptions())
	if _, err := s.Append("  "); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	n, err := s.Append("idea")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Layout().Box(n.ID); !ok {
		t.Error("append should relayout")
	}
}

func TestAttachLazyRoot(t *testing.T) {
	s := Attach(mindmap.New(mindmap.WithoutRoot()), 800, 600, layout.DefaultOptions())
	if s.Layout().Len() != 0 {
		t.Fatal("empty map should have an empty layout")
	}
	n, err := s.Append("first")
	if err != nil {
		t.Fatal(err)
	}
	if !n.IsRoot() {
		t.Error("first append should create the root")
	}
	if s.Layout().Len() != 1 {
		t.Errorf("layout len = %d", s.Layout().Len())
	}
}

func TestResize(t *testing.T) {
	s := New(800, 600, layout.DefaultOptions())
	s.Resize(1000, 1000)
	b, _ := s.Layout().Box("1")
	if b.X != 200 || b.Y != 400 {
		t.Errorf("root after resize at (%v, %v)", b.X, b.Y)
	}
}

type countingHooks struct {
	observability.NoopSurfaceHooks
	mutations []string
	relayouts int
}

func (h *countingHooks) OnMutation(_ context.Context, kind, _ string, _ int) {
	h.mutations = append(h.mutations, kind)
}

func (h *countingHooks) OnRelayout(context.Context, int, time.Duration) { h.relayouts++ }

func TestHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetSurfaceHooks(h)
	defer observability.Reset()

	s := New(800, 600, layout.DefaultOptions())
	if _, err := s.Click("1"); err != nil {
		t.Fatal(err)
	}
	if len(h.mutations) != 2 || h.mutations[0] != "select" || h.mutations[1] != "append" {
		t.Errorf("mutations = %v", h.mutations)
	}
	if h.relayouts != 3 {
		t.Errorf("relayouts = %d, want 3", h.relayouts)
	}
}

func TestDetach(t *testing.T) {
	h := &countingHooks{}
	observability.SetSurfaceHooks(h)
	defer observability.Reset()

	m := mindmap.New()
	first := Attach(m, 800, 600, layout.DefaultOptions())
	first.Detach()
	first.Detach()
	second := Attach(m, 800, 600, layout.DefaultOptions())
	if got := m.Listeners(); got != 1 {
		t.Fatalf("listeners = %d, want 1", got)
	}

	m.Append("x")
	if h.relayouts != 3 {
		t.Errorf("relayouts = %d, want 3", h.relayouts)
	}
	if first.Layout().Len() != 1 {
		t.Errorf("detached layout len = %d, want 1", first.Layout().Len())
	}
	if second.Layout().Len() != 2 {
		t.Errorf("attached layout len = %d, want 2", second.Layout().Len())
	}
}
