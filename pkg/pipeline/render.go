package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/render/nodelink"
	"github.com/matzehuels/mindmap/pkg/render/sink"
	"github.com/matzehuels/mindmap/pkg/render/styles"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest. dot is the
// Graphviz source for nodelink output and may be empty for tree output
// without the dot format.
func Render(ctx context.Context, l layout.Layout, dot string, opts Options) (map[string][]byte, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := buildSVGOptions(style, opts)

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			var data []byte
			var err error
			if opts.IsNodelink() {
				data, err = renderNodelink(ctx, format, l, dot, opts)
			} else {
				data, err = renderTree(ctx, format, l, dot, svgOpts, opts)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderTree(ctx context.Context, format string, l layout.Layout, dot string, svgOpts []sink.SVGOption, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(l, sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(svgOpts...))
	case FormatJSON:
		return sink.RenderJSON(l, sink.WithJSONStyle(opts.Style), sink.WithJSONIndent())
	case FormatDOT:
		return []byte(dot), nil
	default:
		return nil, fmt.Errorf("unsupported tree format: %s", format)
	}
}

func renderNodelink(ctx context.Context, format string, l layout.Layout, dot string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case FormatJSON:
		return sink.RenderJSON(l, sink.WithJSONStyle(opts.Style), sink.WithJSONIndent())
	case FormatDOT:
		return []byte(dot), nil
	default:
		return nil, fmt.Errorf("unsupported nodelink format: %s", format)
	}
}

func buildSVGOptions(style styles.Style, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Fit {
		svgOpts = append(svgOpts, sink.WithFit(sink.DefaultMargin))
	} else {
		svgOpts = append(svgOpts, sink.WithSize(opts.Width, opts.Height))
	}
	if opts.ClickURL != "" {
		svgOpts = append(svgOpts, sink.WithClickURL(opts.ClickURL))
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}
