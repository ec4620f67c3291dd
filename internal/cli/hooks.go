package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/observability"
)

// logHooks forwards observability events to the CLI logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.SurfaceHooks  = (*logHooks)(nil)
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.StoreHooks    = (*logHooks)(nil)
)

// registerLogHooks installs logHooks for every hook category.
func registerLogHooks(logger *log.Logger) {
	h := &logHooks{logger: logger.WithPrefix("hooks")}
	observability.SetSurfaceHooks(h)
	observability.SetPipelineHooks(h)
	observability.SetStoreHooks(h)
}

func (h *logHooks) OnMutation(_ context.Context, kind, nodeID string, nodeCount int) {
	h.logger.Debug("mutation", "kind", kind, "node", nodeID, "nodes", nodeCount)
}

func (h *logHooks) OnRelayout(_ context.Context, nodeCount int, d time.Duration) {
	h.logger.Debug("relayout", "nodes", nodeCount, "duration", d)
}

func (h *logHooks) OnLayoutStart(_ context.Context, strategy string, nodeCount int) {
	h.logger.Debug("layout start", "strategy", strategy, "nodes", nodeCount)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, strategy string, boxCount int, d time.Duration) {
	h.logger.Debug("layout done", "strategy", strategy, "boxes", boxCount, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "duration", d)
}

func (h *logHooks) OnLoad(_ context.Context, backend, id string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "backend", backend, "id", id, "err", err)
		return
	}
	h.logger.Debug("loaded", "backend", backend, "id", id, "duration", d)
}

func (h *logHooks) OnSave(_ context.Context, backend, id string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("save failed", "backend", backend, "id", id, "err", err)
		return
	}
	h.logger.Debug("saved", "backend", backend, "id", id, "bytes", size, "duration", d)
}
