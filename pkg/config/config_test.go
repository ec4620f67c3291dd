package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/store"
)

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg", "mindmap", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	got, err = Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", "mindmap", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestDefaultStore(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	cfg := Default()
	if cfg.Store.Backend != store.BackendFile {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, store.BackendFile)
	}
	if want := filepath.Join("/tmp/data", "mindmap", "maps"); cfg.Store.Path != want {
		t.Errorf("path = %q, want %q", cfg.Store.Path, want)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[layout]
strategy = "classic"
width = 800
height = 600
row_height = 80

[style]
name = "flat"

[server]
addr = ":9000"
shutdown_timeout = "10s"

[store]
backend = "redis"
url = "redis://localhost:6379/0"
prefix = "mm:"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.Strategy != "classic" {
		t.Errorf("strategy = %q", cfg.Layout.Strategy)
	}
	if cfg.Style.Name != "flat" {
		t.Errorf("style = %q", cfg.Style.Name)
	}
	if cfg.Style.Scale != 2 {
		t.Errorf("scale = %v, want default 2", cfg.Style.Scale)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Store.Backend != store.BackendRedis || cfg.Store.Prefix != "mm:" {
		t.Errorf("store = %+v", cfg.Store)
	}

	lo := cfg.LayoutOptions()
	if lo.RowHeight != 80 || lo.BoxWidth != layout.DefaultBoxWidth {
		t.Errorf("geometry = %+v", lo)
	}
	if lo.Origin != (layout.Point{X: 100, Y: 200}) {
		t.Errorf("origin = %+v, want (100,200)", lo.Origin)
	}
	if lo.Strategy != layout.StrategyClassic {
		t.Errorf("layout strategy = %q", lo.Strategy)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[layout\nwidth = 1"},
		{"unknown key", "[layout]\nwidht = 800"},
		{"unknown table", "[colors]\nbg = \"#fff\""},
		{"bad strategy", "[layout]\nstrategy = \"radial\""},
		{"bad style", "[style]\nname = \"sketchy\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("Decode() expected error")
			}
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg, err := Decode("[layout]\nwidth = 640\n[style]\nfit = true")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	opts := cfg.PipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Width != 640 || !opts.Fit || opts.Style != "boxed" {
		t.Errorf("options = %+v", opts)
	}
}
