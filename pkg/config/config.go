// Package config loads the mindmap configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/mindmap/config.toml
// (~/.config/mindmap/config.toml when the variable is unset). Every table is
// optional; missing keys keep the values returned by [Default]. Unknown keys
// are rejected so that typos do not silently fall back to defaults.
//
//	[layout]
//	strategy      = "banded"
//	box_width     = 100
//	row_height    = 60
//
//	[style]
//	name  = "flat"
//	scale = 2
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "sqlite"
//	path    = "/var/lib/mindmap/maps.db"
//
// Command-line flags override values from the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/store"
)

const (
	appName  = "mindmap"
	fileName = "config.toml"
)

// Default server settings.
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultShutdownTimeout = 5 * time.Second
)

// Config is the decoded configuration file.
type Config struct {
	Layout Layout       `toml:"layout"`
	Style  Style        `toml:"style"`
	Server Server       `toml:"server"`
	Store  store.Config `toml:"store"`
}

// Layout holds surface size and geometry. Zero values use the layout defaults.
type Layout struct {
	Strategy     string  `toml:"strategy"`
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	BoxWidth     float64 `toml:"box_width"`
	BoxHeight    float64 `toml:"box_height"`
	RowHeight    float64 `toml:"row_height"`
	ColumnOffset float64 `toml:"column_offset"`
}

// Style selects the node renderer.
type Style struct {
	Name  string  `toml:"name"`
	Scale float64 `toml:"scale"`
	Fit   bool    `toml:"fit"`
}

// Server configures `mindmap serve`.
type Server struct {
	Addr string `toml:"addr"`

	// BaseURL is prepended to click URLs embedded in served SVGs.
	BaseURL string `toml:"base_url"`

	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Default returns the built-in configuration. Maps are kept in a file store
// under the XDG data directory.
func Default() Config {
	cfg := Config{
		Layout: Layout{
			Strategy: string(layout.StrategyBanded),
			Width:    pipeline.DefaultWidth,
			Height:   pipeline.DefaultHeight,
		},
		Style: Style{
			Name:  pipeline.DefaultStyle,
			Scale: pipeline.DefaultScale,
		},
		Server: Server{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Store: store.Config{Backend: store.BackendMemory},
	}
	if dir, err := DataDir(); err == nil {
		cfg.Store = store.Config{Backend: store.BackendFile, Path: filepath.Join(dir, "maps")}
	}
	return cfg
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the default configuration file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// DataDir returns the directory for persisted maps (~/.local/share/mindmap/).
func DataDir() (string, error) {
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the file at path on top of [Default]. An empty path loads the
// default location. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML from a string on top of [Default].
func Decode(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown key: %s", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks the strategy and style names.
func (c Config) Validate() error {
	if err := pipeline.ValidateStrategy(c.Layout.Strategy); err != nil {
		return err
	}
	if c.Style.Name != "" {
		if err := pipeline.ValidateStyle(c.Style.Name); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Conversions
// =============================================================================

// Geometry returns the box geometry as layout options (origin unset).
func (c Config) Geometry() layout.Options {
	return layout.Options{
		BoxWidth:     c.Layout.BoxWidth,
		BoxHeight:    c.Layout.BoxHeight,
		RowHeight:    c.Layout.RowHeight,
		ColumnOffset: c.Layout.ColumnOffset,
		Strategy:     layout.Strategy(c.Layout.Strategy),
	}
}

// LayoutOptions returns fully defaulted layout options for a surface of the
// configured size.
func (c Config) LayoutOptions() layout.Options {
	lo := c.Geometry()
	lo.Origin = layout.CenterAnchor(c.Layout.Width, c.Layout.Height)
	lo.SetDefaults()
	return lo
}

// PipelineOptions returns pipeline options seeded from the configuration.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:    c.Layout.Width,
		Height:   c.Layout.Height,
		Strategy: c.Layout.Strategy,
		Geometry: c.Geometry(),
		Style:    c.Style.Name,
		Scale:    c.Style.Scale,
		Fit:      c.Style.Fit,
	}
}
