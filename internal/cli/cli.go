package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/snapshot"
	"github.com/matzehuels/mindmap/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "mindmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	storeFlag  string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Mindmap builds and renders mind-map trees",
		Long:         `Mindmap is a CLI tool for building mind maps one node at a time, laying them out left to right, and rendering them as SVG, PNG, PDF, JSON or Graphviz DOT. Maps can be edited in the terminal or served over HTTP as clickable SVG pages.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			registerLogHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mindmap/config.toml)")
	root.PersistentFlags().StringVar(&c.storeFlag, "store", "", "store backend override: memory, file, sqlite, redis, mongo")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration & Store
// =============================================================================

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.storeFlag != "" {
		cfg.Store.Backend = c.storeFlag
	}
	c.cfg = &cfg
	c.Logger.Debug("loaded config", "store", cfg.Store.Backend, "strategy", cfg.Layout.Strategy)
	return cfg, nil
}

// openStore opens the configured store. Callers must close it.
func (c *CLI) openStore(ctx context.Context) (*store.Instrumented, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// mapSource remembers where a map was loaded from so it can be written back.
type mapSource struct {
	path  string
	store *store.Instrumented
	rec   store.Record
}

// loadMap resolves ref to a map. A path to an existing file is read as a
// snapshot (.json) or outline (.yaml, .yml); anything else is a store id.
// Callers must Close the returned source.
func (c *CLI) loadMap(ctx context.Context, ref string) (*mindmap.Map, *mapSource, error) {
	if isFile(ref) {
		m, err := importFile(ref)
		if err != nil {
			return nil, nil, err
		}
		return m, &mapSource{path: ref}, nil
	}

	s, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	m, rec, err := store.Load(ctx, s, ref)
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("load %s: %w", ref, err)
	}
	return m, &mapSource{store: s, rec: rec}, nil
}

// Save writes m back to its file or store record.
func (src *mapSource) Save(ctx context.Context, m *mindmap.Map) error {
	if src.store != nil {
		return store.Save(ctx, src.store, src.rec.ID, src.rec.Name, m)
	}
	if isOutline(src.path) {
		return fmt.Errorf("cannot write back to outline %s; export to JSON instead", src.path)
	}
	return snapshot.ExportDocument(m, src.path)
}

// Name describes the source for display.
func (src *mapSource) Name() string {
	if src.store == nil {
		return src.path
	}
	if src.rec.Name != "" {
		return src.rec.Name
	}
	return src.rec.ID
}

// Close releases the store, if any.
func (src *mapSource) Close() error {
	if src.store != nil {
		return src.store.Close()
	}
	return nil
}

// =============================================================================
// Files
// =============================================================================

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isOutline(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// importFile reads a snapshot or outline file based on its extension.
func importFile(path string) (*mindmap.Map, error) {
	if isOutline(path) {
		return snapshot.ImportOutline(path)
	}
	return snapshot.ImportJSON(path)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
