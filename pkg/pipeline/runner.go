package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/render/nodelink"
)

// Runner executes the pipeline and reports progress to its logger and the
// registered observability hooks.
//
// The Runner holds no per-run state; multiple goroutines can use the same
// Runner as long as each passes a map nobody else mutates.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs layout → render for m.
func (r *Runner) Execute(ctx context.Context, m *mindmap.Map, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	l := r.Layout(ctx, m, opts)
	result.Layout = l
	result.Stats.NodeCount = l.Len()
	result.Stats.LinkCount = len(l.Links)
	result.Stats.LayoutTime = l.Elapsed

	if opts.IsNodelink() || slices.Contains(opts.Formats, FormatDOT) {
		result.DOT = nodelink.ToDOT(m, nodelink.Options{Detailed: opts.Detailed})
	}

	start := time.Now()
	artifacts, err := r.Render(ctx, l, result.DOT, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered map",
		"nodes", result.Stats.NodeCount,
		"formats", opts.Formats,
		"duration", result.Stats.LayoutTime+result.Stats.RenderTime)
	return result, nil
}

// Layout computes the layout for m with the options' surface size and strategy.
func (r *Runner) Layout(ctx context.Context, m *mindmap.Map, opts Options) layout.Layout {
	opts.SetDefaults()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Strategy, m.Len())

	l := layout.Compute(m, opts.LayoutOptions())

	hooks.OnLayoutComplete(ctx, opts.Strategy, l.Len(), l.Elapsed)
	r.Logger.Debug("computed layout",
		"boxes", l.Len(),
		"strategy", opts.Strategy,
		"duration", l.Elapsed)
	return l
}

// Render renders a computed layout in every requested format.
func (r *Runner) Render(ctx context.Context, l layout.Layout, dot string, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)

	start := time.Now()
	artifacts, err := Render(ctx, l, dot, opts)
	elapsed := time.Since(start)

	hooks.OnRenderComplete(ctx, opts.Formats, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", elapsed)
	return artifacts, nil
}
