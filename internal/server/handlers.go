package server

import (
	"bytes"
	stderrors "errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/render/nodelink"
	"github.com/matzehuels/mindmap/pkg/render/sink"
	"github.com/matzehuels/mindmap/pkg/snapshot"
	"github.com/matzehuels/mindmap/pkg/store"
	"github.com/matzehuels/mindmap/pkg/surface"
)

// =============================================================================
// Request/Response Types
// =============================================================================

type createRequest struct {
	Name string `json:"name"`
	Root string `json:"root"`
}

type selectRequest struct {
	Node string `json:"node"`
}

type appendRequest struct {
	Text string `json:"text"`
}

type mapResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Nodes   int    `json:"nodes"`
	Current string `json:"current,omitempty"`
}

type nodeResponse struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Parent string `json:"parent,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type errorResponse struct {
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "list maps"))
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	e, err := s.create(r.Context(), req.Name, req.Root)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e.mu.Lock()
	resp := describe(e)
	e.mu.Unlock()
	w.Header().Set("Location", "/maps/"+e.id)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r.Context(), chi.URLParam(r, "mapID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	l := e.surface.Layout()
	name, nodes := e.name, e.surface.Map().Len()
	e.mu.Unlock()

	opts := s.renderOptions(r, pipeline.FormatSVG)
	opts.ClickURL = s.clickURL(e.id)
	artifacts, err := s.runner.Render(r.Context(), l, "", opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Title: pageTitle(name),
		ID:    e.id,
		Nodes: nodes,
		SVG:   template.HTML(artifacts[pipeline.FormatSVG]),
	})
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r.Context(), chi.URLParam(r, "mapID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := chi.URLParam(r, "format")
	opts := s.renderOptions(r, format)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	e.mu.Lock()
	l := e.surface.Layout()
	var dot string
	if format == pipeline.FormatDOT || opts.IsNodelink() {
		dot = nodelink.ToDOT(e.surface.Map(), nodelink.Options{Detailed: opts.Detailed})
	}
	e.mu.Unlock()

	artifacts, err := s.runner.Render(r.Context(), l, dot, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Write(artifacts[format])
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r.Context(), chi.URLParam(r, "mapID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e.mu.Lock()
	data, err := snapshot.MarshalTreeIndent(e.surface.Map())
	e.mu.Unlock()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode map"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r.Context(), chi.URLParam(r, "mapID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e.mu.Lock()
	l := e.surface.Layout()
	e.mu.Unlock()

	data, err := sink.RenderJSON(l, sink.WithJSONStyle(s.styleParam(r)), sink.WithJSONIndent())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r.Context(), chi.URLParam(r, "mapID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp mapResponse
	err = s.mutate(r.Context(), e, func(sf *surface.Surface) error {
		if err := sf.Select(req.Node); err != nil {
			return err
		}
		resp = describe(e)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r.Context(), chi.URLParam(r, "mapID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req appendRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var resp nodeResponse
	err = s.mutate(r.Context(), e, func(sf *surface.Surface) error {
		n, err := sf.Append(req.Text)
		if err != nil {
			return err
		}
		resp = describeNode(sf, n)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r.Context(), chi.URLParam(r, "mapID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")

	var resp nodeResponse
	err = s.mutate(r.Context(), e, func(sf *surface.Surface) error {
		n, err := sf.Click(nodeID)
		if err != nil {
			return err
		}
		resp = describeNode(sf, n)
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// =============================================================================
// Helpers
// =============================================================================

// renderOptions reads style, fit, scale and type query parameters.
func (s *Server) renderOptions(r *http.Request, format string) pipeline.Options {
	q := r.URL.Query()
	opts := pipeline.Options{
		VizType:  q.Get("type"),
		Width:    s.opts.Width,
		Height:   s.opts.Height,
		Strategy: string(s.opts.Geometry.Strategy),
		Geometry: s.opts.Geometry,
		Formats:  []string{format},
		Style:    s.styleParam(r),
		Detailed: q.Has("detailed"),
		Logger:   s.logger,
	}
	if fit, err := strconv.ParseBool(q.Get("fit")); err == nil {
		opts.Fit = fit
	}
	if scale, err := strconv.ParseFloat(q.Get("scale"), 64); err == nil && scale > 0 {
		opts.Scale = scale
	}
	return opts
}

func (s *Server) styleParam(r *http.Request) string {
	if st := r.URL.Query().Get("style"); st != "" {
		return st
	}
	return s.opts.Style
}

// describe summarizes e. The caller holds e.mu.
func describe(e *entry) mapResponse {
	m := e.surface.Map()
	resp := mapResponse{ID: e.id, Name: e.name, Nodes: m.Len()}
	if cur, ok := m.Current(); ok {
		resp.Current = cur.ID
	}
	return resp
}

func describeNode(sf *surface.Surface, n *mindmap.Node) nodeResponse {
	resp := nodeResponse{ID: n.ID, Text: n.Text}
	if p, ok := sf.Map().Parent(n); ok {
		resp.Parent = p.ID
	}
	if b, ok := sf.Layout().Box(n.ID); ok {
		resp.X, resp.Y = int(b.X), int(b.Y)
	}
	return resp
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.GetCode(err) == "" && stderrors.Is(err, render.ErrConverterMissing) {
		err = errors.Wrap(errors.ErrCodeUnsupported, err, "export needs rsvg-convert")
	}
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
	})
}
