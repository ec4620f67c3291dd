package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 200 * time.Millisecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path (or base path for multiple outputs)
	vizType  string  // tree or nodelink
	formats  string  // comma-separated output formats
	style    string  // node style: boxed or flat
	strategy string  // layout strategy: banded or classic
	width    float64 // surface width in pixels
	height   float64 // surface height in pixels
	fit      bool    // crop to the layout bounds
	scale    float64 // PNG resolution multiplier
	title    string  // SVG document title
	detailed bool    // ids and metadata in nodelink labels
	watch    bool    // re-render when the input file changes
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <map>",
		Short: "Render a map to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a map to one or more output formats.

<map> is a stored map id, a snapshot JSON file, or a YAML outline. Defaults
for size, style and strategy come from the config file.

Formats:
  svg   Scalable vector graphics (default)
  png   Raster image
  pdf   PDF document (requires rsvg-convert)
  json  Computed layout with box coordinates
  dot   Graphviz source

With --watch, a file input is re-rendered whenever it changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", "", "visualization type: tree (default), nodelink")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "style", "", "node style: boxed, flat")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "layout strategy: banded, classic")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "surface width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "surface height")
	cmd.Flags().BoolVar(&opts.fit, "fit", false, "crop output to the map bounds")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node ids and metadata (nodelink)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the input file changes")

	return cmd
}

// pipelineOptions merges flags over the config file defaults.
func (c *CLI) pipelineOptions(ro renderOpts) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := cfg.PipelineOptions()
	opts.VizType = ro.vizType
	opts.Formats = parseFormats(ro.formats)
	opts.Title = ro.title
	opts.Detailed = ro.detailed
	opts.Logger = c.Logger
	if ro.style != "" {
		opts.Style = ro.style
	}
	if ro.strategy != "" {
		opts.Strategy = ro.strategy
		opts.Geometry.Strategy = ""
	}
	if ro.width > 0 {
		opts.Width = ro.width
	}
	if ro.height > 0 {
		opts.Height = ro.height
	}
	if ro.scale > 0 {
		opts.Scale = ro.scale
	}
	if ro.fit {
		opts.Fit = true
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	opts, err := c.pipelineOptions(ro)
	if err != nil {
		return err
	}
	if ro.watch {
		if !isFile(input) {
			return fmt.Errorf("--watch needs a file input, got %q", input)
		}
		return c.watchRender(ctx, input, ro.output, opts)
	}

	m, src, err := c.loadMap(ctx, input)
	if err != nil {
		return err
	}
	defer src.Close()
	return c.renderMap(ctx, m, input, ro.output, opts)
}

// renderMap runs the pipeline and writes one file per format.
func (c *CLI) renderMap(ctx context.Context, m *mindmap.Map, input, output string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var spin *Spinner
	if slices.Contains(opts.Formats, pipeline.FormatPDF) {
		spin = newSpinnerWithContext(ctx, "Converting to PDF...")
		spin.Start()
	}
	result, err := c.newRunner().Execute(ctx, m, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	base := basePath(output, input)
	for _, format := range opts.Formats {
		path := base + "." + format
		if len(opts.Formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debugf("Generated %s: %d bytes", format, len(result.Artifacts[format]))
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", result.Stats.NodeCount))
	return nil
}

// basePath derives the base output path. If output is empty, the input's
// extension is stripped; a known format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Watch Mode
// =============================================================================

// watchRender renders input, then re-renders on every change until ctx is done.
// The parent directory is watched so that editors replacing the file on save
// are picked up.
func (c *CLI) watchRender(ctx context.Context, input, output string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	render := func() {
		m, err := importFile(input)
		if err != nil {
			printError("%v", err)
			return
		}
		if err := c.renderMap(ctx, m, input, output, opts); err != nil {
			printError("%v", err)
		}
	}
	render()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}
	printInfo("Watching %s (ctrl+c to stop)", input)

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			now := time.Now()
			if now.Sub(last) < watchDebounce {
				continue
			}
			last = now
			logger.Debug("input changed", "op", event.Op.String())
			render()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
