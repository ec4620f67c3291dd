// Package server exposes mind maps over HTTP.
//
// Each map is served by one [surface.Surface] kept in memory after its first
// use. Requests touching the same map are serialized by a per-map mutex, so a
// click (select, append, relayout) completes before the next one starts.
// Every mutation is written through to the configured store.
//
// # Routes
//
//	GET  /healthz
//	GET  /maps                         list stored maps
//	POST /maps                         create a map
//	GET  /maps/{id}                    HTML page with the clickable SVG
//	GET  /maps/{id}/svg|png|pdf|dot    rendered outputs
//	GET  /maps/{id}/json               node tree
//	GET  /maps/{id}/layout             computed layout
//	POST /maps/{id}/select             select a node
//	POST /maps/{id}/append             append below the selected node
//	POST /maps/{id}/nodes/{node}/click select a node and append "new node"
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/snapshot"
	"github.com/matzehuels/mindmap/pkg/store"
	"github.com/matzehuels/mindmap/pkg/surface"
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address for ListenAndServe.
	Addr string

	// BaseURL prefixes click URLs embedded in pages. Empty means
	// same-origin relative URLs.
	BaseURL string

	// Width and Height are the surface size of every served map.
	Width, Height float64

	// Geometry overrides box sizes and selects the layout strategy.
	Geometry layout.Options

	// Style is the default node style for rendered outputs.
	Style string

	ShutdownTimeout time.Duration
	Logger          *log.Logger
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = pipeline.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = pipeline.DefaultHeight
	}
	if o.Style == "" {
		o.Style = pipeline.DefaultStyle
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Server serves mind maps from a store.
type Server struct {
	store  store.Store
	opts   Options
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router

	mu   sync.Mutex
	maps map[string]*entry
}

// entry is a loaded map. mu guards surface and name.
type entry struct {
	mu      sync.Mutex
	id      string
	name    string
	surface *surface.Surface
}

// New creates a server backed by s.
func New(s store.Store, opts Options) *Server {
	opts.setDefaults()
	srv := &Server{
		store:  s,
		opts:   opts,
		runner: pipeline.NewRunner(opts.Logger),
		logger: opts.Logger,
		maps:   make(map[string]*entry),
	}
	srv.router = srv.routes()
	return srv
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/maps", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{mapID}", func(r chi.Router) {
			r.Get("/", s.handlePage)
			r.Get("/json", s.handleSnapshot)
			r.Get("/layout", s.handleLayout)
			r.Get("/{format:svg|png|pdf|dot}", s.handleRender)
			r.Post("/select", s.handleSelect)
			r.Post("/append", s.handleAppend)
			r.Post("/nodes/{nodeID}/click", s.handleClick)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Map Registry
// =============================================================================

// create stores a new map and registers it.
func (s *Server) create(ctx context.Context, name, rootText string) (*entry, error) {
	var opts []mindmap.Option
	if rootText != "" {
		if err := errors.ValidateNodeText(rootText); err != nil {
			return nil, err
		}
		opts = append(opts, mindmap.WithRootText(rootText))
	}

	e := &entry{id: uuid.NewString(), name: name}
	e.surface = s.attach(ctx, mindmap.New(opts...))
	if err := store.Save(ctx, s.store, e.id, e.name, e.surface.Map()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "save map")
	}

	s.mu.Lock()
	s.maps[e.id] = e
	s.mu.Unlock()
	return e, nil
}

// lookup returns the loaded entry for id, loading it from the store on first use.
// The store is read without holding the registry lock; when two requests load
// the same map concurrently, the first one registered wins.
func (s *Server) lookup(ctx context.Context, id string) (*entry, error) {
	if err := errors.ValidateMapID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	e, ok := s.maps[id]
	s.mu.Unlock()
	if ok {
		return e, nil
	}

	m, rec, err := store.Load(ctx, s.store, id)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrap(errors.ErrCodeMapNotFound, err, "map %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load map %s", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.maps[id]; ok {
		return e, nil
	}
	e = &entry{id: id, name: rec.Name, surface: s.attach(ctx, m)}
	s.maps[id] = e
	return e, nil
}

func (s *Server) attach(ctx context.Context, m *mindmap.Map) *surface.Surface {
	return surface.Attach(m, s.opts.Width, s.opts.Height, s.opts.Geometry).WithContext(context.WithoutCancel(ctx))
}

// mutate runs fn with the entry locked and persists the map afterwards.
// If fn fails or the map cannot be saved, the entry is restored to the state
// it had before fn ran, so the served map always matches the store.
func (s *Server) mutate(ctx context.Context, e *entry, fn func(*surface.Surface) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	before, err := snapshot.Marshal(e.surface.Map())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode map %s", e.id)
	}
	rollback := func() {
		m, err := snapshot.Unmarshal(before)
		if err != nil {
			s.logger.Error("restore map", "id", e.id, "err", err)
			return
		}
		e.surface.Detach()
		e.surface = s.attach(ctx, m)
	}

	e.surface.WithContext(context.WithoutCancel(ctx))
	if err := fn(e.surface); err != nil {
		rollback()
		return err
	}
	if err := store.Save(ctx, s.store, e.id, e.name, e.surface.Map()); err != nil {
		rollback()
		return errors.Wrap(errors.ErrCodeInternal, err, "save map %s", e.id)
	}
	return nil
}

// clickURL is the URL template the page script posts to. {id} is replaced
// client-side with the clicked node id.
func (s *Server) clickURL(mapID string) string {
	return s.opts.BaseURL + "/maps/" + mapID + "/nodes/{id}/click"
}
