package mindmap

import (
	"errors"
	"strconv"
	"testing"

	"pgregory.net/rapid"
)

func TestNewCreatesSelectedRoot(t *testing.T) {
	m := New()

	root, ok := m.Root()
	if !ok {
		t.Fatal("Root() = false, want pre-created root")
	}
	if root.ID != "1" || root.Text != DefaultRootText {
		t.Errorf("root = {%q %q}, want {%q %q}", root.ID, root.Text, "1", DefaultRootText)
	}
	if !root.IsRoot() {
		t.Error("IsRoot() = false, want true")
	}
	if cur, ok := m.Current(); !ok || cur != root {
		t.Error("Current() should be the root")
	}
	if m.NextID() != "2" {
		t.Errorf("NextID() = %q, want %q", m.NextID(), "2")
	}
}

func TestWithRootText(t *testing.T) {
	m := New(WithRootText("Ideas"))
	root, _ := m.Root()
	if root.Text != "Ideas" {
		t.Errorf("root text = %q, want %q", root.Text, "Ideas")
	}
}

func TestAppendToCurrent(t *testing.T) {
	m := New()
	a := m.Append("a")
	b := m.Append("b")

	root, _ := m.Root()
	children := m.Children(root)
	if len(children) != 2 || children[0] != a || children[1] != b {
		t.Fatalf("root children = %v, want [a b]", children)
	}

	if err := m.Select(a.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}
	a1 := m.Append("a1")

	if p, ok := m.Parent(a1); !ok || p != a {
		t.Errorf("Parent(a1) = %v, want a", p)
	}
	if got := m.Depth(a1); got != 2 {
		t.Errorf("Depth(a1) = %d, want 2", got)
	}
	if got := m.SiblingIndex(b); got != 1 {
		t.Errorf("SiblingIndex(b) = %d, want 1", got)
	}
	if cur, _ := m.Current(); cur != a {
		t.Error("Append must not move the selection")
	}
}

func TestLazyRoot(t *testing.T) {
	m := New(WithoutRoot())
	if _, ok := m.Root(); ok {
		t.Fatal("Root() = true, want no root")
	}
	if m.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", m.Len())
	}

	first := m.Append("first")
	root, ok := m.Root()
	if !ok || root != first {
		t.Fatal("first append should become the root")
	}
	if first.ID != "1" {
		t.Errorf("first.ID = %q, want %q", first.ID, "1")
	}
	if cur, ok := m.Current(); !ok || cur != first {
		t.Error("lazily created root should be selected")
	}

	second := m.Append("second")
	if p, _ := m.Parent(second); p != first {
		t.Error("second append should be a child of the root")
	}
}

func TestAppendWithoutSelectionTargetsRoot(t *testing.T) {
	m := New()
	m.ClearSelection()
	n := m.Append("orphan?")
	if p, ok := m.Parent(n); !ok || !p.IsRoot() {
		t.Error("append without selection should target the root")
	}
}

func TestSelectUnknown(t *testing.T) {
	m := New()
	if err := m.Select("42"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Select(42) error = %v, want ErrUnknownNode", err)
	}
}

func TestOnChange(t *testing.T) {
	m := New()
	var events []EventKind
	m.OnChange(func(e Event) { events = append(events, e.Kind) })

	n := m.Append("x")
	_ = m.Select(n.ID)
	_ = m.Select("missing")

	want := []EventKind{EventAppend, EventSelect}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, events[i], want[i])
		}
	}
}

func TestOnChangeRemove(t *testing.T) {
	m := New()
	var a, b int
	removeA := m.OnChange(func(Event) { a++ })
	m.OnChange(func(Event) { b++ })
	if m.Listeners() != 2 {
		t.Fatalf("listeners = %d, want 2", m.Listeners())
	}

	m.Append("x")
	removeA()
	removeA()
	m.Append("y")

	if a != 1 || b != 2 {
		t.Errorf("calls a=%d b=%d, want 1 and 2", a, b)
	}
	if m.Listeners() != 1 {
		t.Errorf("listeners = %d, want 1", m.Listeners())
	}
}

func TestOnChangeRemoveDuringEmit(t *testing.T) {
	m := New()
	var calls int
	var remove func()
	remove = m.OnChange(func(Event) { calls++; remove() })
	m.OnChange(func(Event) { calls++ })

	m.Append("x")
	m.Append("y")
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDescendantCount(t *testing.T) {
	m := New()
	a := m.Append("a")
	m.Append("b")
	_ = m.Select(a.ID)
	a1 := m.Append("a1")
	_ = m.Select(a1.ID)
	m.Append("a1x")

	root, _ := m.Root()
	tests := []struct {
		node *Node
		want int
	}{
		{root, 4},
		{a, 2},
		{a1, 1},
	}
	counts := m.DescendantCounts()
	for _, tt := range tests {
		if got := m.DescendantCount(tt.node); got != tt.want {
			t.Errorf("DescendantCount(%s) = %d, want %d", tt.node.Text, got, tt.want)
		}
		if got := counts[tt.node.ID]; got != tt.want {
			t.Errorf("DescendantCounts()[%s] = %d, want %d", tt.node.Text, got, tt.want)
		}
	}
}

func TestWalkPreOrder(t *testing.T) {
	m := New()
	a := m.Append("a")
	m.Append("b")
	_ = m.Select(a.ID)
	m.Append("a1")

	var got []string
	for _, n := range m.Nodes() {
		got = append(got, n.Text)
	}
	want := []string{"Root Node", "a", "a1", "b"}
	if len(got) != len(want) {
		t.Fatalf("Nodes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Nodes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	var skipped []string
	m.Walk(func(n *Node, depth int) bool {
		skipped = append(skipped, n.Text)
		return n != a
	})
	if len(skipped) != 3 {
		t.Errorf("Walk with pruning visited %v, want a's subtree skipped", skipped)
	}
}

func TestGraft(t *testing.T) {
	m := New(WithoutRoot())
	if _, err := m.Graft("", "1", "root"); err != nil {
		t.Fatalf("Graft root: %v", err)
	}
	if _, err := m.Graft("1", "7", "seven"); err != nil {
		t.Fatalf("Graft child: %v", err)
	}

	tests := []struct {
		name             string
		parent, id, text string
		want             error
	}{
		{"empty id", "1", "", "x", ErrInvalidNodeID},
		{"duplicate", "1", "7", "x", ErrDuplicateNodeID},
		{"unknown parent", "99", "8", "x", ErrUnknownNode},
		{"second root", "", "9", "x", ErrRootExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Graft(tt.parent, tt.id, tt.text); !errors.Is(err, tt.want) {
				t.Errorf("Graft() error = %v, want %v", err, tt.want)
			}
		})
	}

	if m.NextID() != "8" {
		t.Errorf("NextID() = %q, want %q after grafting id 7", m.NextID(), "8")
	}
}

func TestMetadataPublic(t *testing.T) {
	md := Metadata{"_x": 10.0, "_selected": true, "owner": "ana"}
	pub := md.Public()
	if len(pub) != 1 || pub["owner"] != "ana" {
		t.Errorf("Public() = %v, want only owner", pub)
	}
	if (Metadata{"_x": 1}).Public() != nil {
		t.Error("Public() of transient-only metadata should be nil")
	}
}

func TestAppendProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		last := 1
		seen := map[string]bool{"1": true}

		for i := 0; i < steps; i++ {
			nodes := m.Nodes()
			target := nodes[rapid.IntRange(0, len(nodes)-1).Draw(t, "target")]
			if err := m.Select(target.ID); err != nil {
				t.Fatalf("Select(%s): %v", target.ID, err)
			}

			before := m.Len()
			n := m.Append("n")

			if m.Len() != before+1 {
				t.Fatalf("Len() = %d after append, want %d", m.Len(), before+1)
			}
			id, err := strconv.Atoi(n.ID)
			if err != nil {
				t.Fatalf("id %q is not numeric", n.ID)
			}
			if id <= last {
				t.Fatalf("id %d is not greater than previous id %d", id, last)
			}
			if seen[n.ID] {
				t.Fatalf("id %s reused", n.ID)
			}
			seen[n.ID] = true
			last = id

			if p, _ := m.Parent(n); p != target {
				t.Fatalf("appended node attached to %v, want %v", p, target)
			}
		}
	})
}
