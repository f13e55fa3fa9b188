// Package server exposes a loaded dependency graph over HTTP.
//
// The service keeps one graph in memory and answers selection, rendering
// and redundancy queries against it:
//
//	GET /healthz                       liveness and graph size
//	GET /version                       build information
//	GET /components?match=Q            resolved names and their closure
//	GET /graph?match=Q&format=F        rendered selection (dot, raw, json, svg, png, pdf)
//	GET /redundant?match=Q             redundancy report of the selection
//	GET /metrics                       Prometheus metrics
//
// Rendered images are kept in a bounded in-memory cache. With watching
// enabled, the graph file is reloaded when it changes on disk; a reload
// that fails leaves the previous graph in place.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/depgraph/pkg/cache"
	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/pipeline"
)

// Defaults applied by [New].
const (
	DefaultAddr     = ":8080"
	DefaultDebounce = 500 * time.Millisecond

	shutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	// Path is the graph file served. It is read by [New] and, when
	// watching, again on every change.
	Path string

	// Addr is the listen address for [Server.ListenAndServe].
	Addr string

	// Runner executes the pipeline stages. Its cache should be a
	// [cache.MemoryCache]; it is purged on reload.
	Runner *pipeline.Runner

	// Gatherer backs the /metrics endpoint. Nil uses the default
	// Prometheus registry.
	Gatherer prometheus.Gatherer

	// Debounce is how long a change must settle before a reload.
	Debounce time.Duration

	Logger *log.Logger
}

// Server serves one graph. It is safe for concurrent use; the graph is
// swapped atomically on reload.
type Server struct {
	cfg    Config
	graph  atomic.Pointer[dag.Graph]
	loaded atomic.Pointer[time.Time]
	router chi.Router
	logger *log.Logger

	renders singleflight.Group // image renders keyed by graph and options
}

// New creates a server and loads the graph at cfg.Path.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Path == "" {
		return nil, errors.New("server: graph path is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Runner.Logger
	}

	s := &Server{cfg: cfg, logger: cfg.Logger}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/components", s.handleComponents)
	r.Get("/graph", s.handleGraph)
	r.Get("/redundant", s.handleRedundant)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})
	return r
}

// Handler returns the HTTP handler of the service.
func (s *Server) Handler() http.Handler { return s.router }

// Graph returns the graph currently served.
func (s *Server) Graph() *dag.Graph { return s.graph.Load() }

// Reload reads the graph file again and swaps it in. On error the
// previous graph stays in place.
func (s *Server) Reload(ctx context.Context) error {
	g, err := s.cfg.Runner.Load(ctx, s.cfg.Path)
	if err != nil {
		return err
	}
	now := time.Now()
	s.graph.Store(g)
	s.loaded.Store(&now)
	if mc, ok := s.cfg.Runner.Cache.(*cache.MemoryCache); ok {
		mc.Purge()
	}
	s.logger.Info("graph loaded",
		"path", s.cfg.Path,
		"components", g.ComponentCount(),
		"edges", g.EdgeCount())
	return nil
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
