package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/snapshot"
	"github.com/matzehuels/mindmap/pkg/store"
)

// testCLI returns a CLI with a quiet logger and a file store under a temp dir.
func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	cfg := config.Default()
	cfg.Store = store.Config{Backend: store.BackendFile, Path: t.TempDir()}
	c.cfg = &cfg
	return c
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,dot", []string{"svg", "pdf", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "maps/plan.json", "maps/plan"},
		{"", "outline.yaml", "outline"},
		{"out.svg", "plan.json", "out"},
		{"out.png", "plan.json", "out"},
		{"out", "plan.json", "out"},
		{"out.txt", "plan.json", "out.txt"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestPipelineOptionsFlagsOverrideConfig(t *testing.T) {
	c := testCLI(t)
	c.cfg.Style.Name = "flat"
	c.cfg.Layout.Width = 640

	opts, err := c.pipelineOptions(renderOpts{formats: "svg,json", strategy: "classic", height: 480})
	if err != nil {
		t.Fatalf("pipelineOptions() error: %v", err)
	}
	if opts.Style != "flat" || opts.Width != 640 || opts.Height != 480 || opts.Strategy != "classic" {
		t.Errorf("options = %+v", opts)
	}

	if _, err := c.pipelineOptions(renderOpts{formats: "gif"}); err == nil {
		t.Error("pipelineOptions() should reject unknown formats")
	}
}

func TestRenderMapWritesFiles(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "plan.json")

	m := mindmap.New()
	m.Append("a")
	m.Append("b")
	if err := snapshot.ExportJSON(m, input); err != nil {
		t.Fatal(err)
	}

	ctx := withLogger(context.Background(), c.Logger)
	if err := c.runRender(ctx, input, renderOpts{formats: "svg,json,dot"}); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	for _, ext := range []string{"svg", "json", "dot"} {
		data, err := os.ReadFile(filepath.Join(dir, "plan."+ext))
		if err != nil {
			t.Errorf("missing plan.%s: %v", ext, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("plan.%s is empty", ext)
		}
	}

	svg, _ := os.ReadFile(filepath.Join(dir, "plan.svg"))
	if got := bytes.Count(svg, []byte(`class="node`)); got != 3 {
		t.Errorf("svg has %d nodes, want 3", got)
	}
}

func TestRenderSingleOutput(t *testing.T) {
	c := testCLI(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "outline.yaml")
	if err := os.WriteFile(input, []byte("text: Root\nchildren: [a, b]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "custom.png")
	ctx := withLogger(context.Background(), c.Logger)
	if err := c.runRender(ctx, input, renderOpts{formats: "png", output: out, fit: true}); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestWatchNeedsFile(t *testing.T) {
	c := testCLI(t)
	err := c.runRender(context.Background(), "not-a-file-id", renderOpts{watch: true})
	if err == nil {
		t.Error("--watch on a store id should fail")
	}
}
