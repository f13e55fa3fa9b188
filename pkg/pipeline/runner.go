package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depgraph/pkg/cache"
	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/dag/transform"
	"github.com/matzehuels/depgraph/pkg/httputil"
	"github.com/matzehuels/depgraph/pkg/match"
	"github.com/matzehuels/depgraph/pkg/observability"
	"github.com/matzehuels/depgraph/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and HTTP service use it so that selection, rendering and
// instrumentation behave the same way everywhere.
//
// The Runner is stateless except for the cache, resolver and logger. It
// never mutates a graph it is given, so multiple goroutines can share one
// Runner and one loaded graph.
type Runner struct {
	Cache    cache.Cache
	Resolver *match.Resolver
	Logger   *log.Logger
	Fetcher  *httputil.Fetcher // used for URL inputs; nil means defaults
}

// NewRunner creates a runner.
// If c is nil, a NullCache is used (caching disabled).
// If resolver is nil, a resolver with match.DefaultOptions is used.
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, resolver *match.Resolver, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if resolver == nil {
		resolver = match.New(match.DefaultOptions())
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Resolver: resolver, Logger: logger}
}

// Execute runs the complete load → select → render pipeline.
func (r *Runner) Execute(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	g, err := r.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	result := &Result{}
	result.Stats.LoadTime = time.Since(start)

	return r.executeOn(ctx, g, opts, result)
}

// ExecuteGraph runs the select and render stages on an already loaded
// graph.
func (r *Runner) ExecuteGraph(ctx context.Context, g *dag.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return r.executeOn(ctx, g, opts, &Result{})
}

func (r *Runner) executeOn(ctx context.Context, g *dag.Graph, opts Options, result *Result) (*Result, error) {
	start := time.Now()
	sub, names, err := r.Select(ctx, g, opts.Match)
	if err != nil {
		return nil, err
	}
	result.Graph = sub
	result.Selected = names
	result.Stats.SelectTime = time.Since(start)
	result.Stats.Components = sub.ComponentCount()
	result.Stats.Edges = sub.EdgeCount()

	start = time.Now()
	out, hit, err := r.RenderWithCacheInfo(ctx, sub, opts)
	if err != nil {
		return nil, err
	}
	result.Output = out
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered graph",
		"format", opts.Format,
		"components", result.Stats.Components,
		"edges", result.Stats.Edges,
		"cached", hit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Resolve maps query to component names with the runner's resolver.
func (r *Runner) Resolve(ctx context.Context, g *dag.Graph, query string) ([]string, error) {
	names, err := r.Resolver.Resolve(g, query)
	observability.Graph().OnResolve(ctx, query, len(names), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("resolved query", "query", query, "matches", names)
	return names, nil
}

// Select resolves query and returns the closure of its matches as a new
// graph, along with the names the query resolved to. An empty query
// selects the whole graph and returns g itself.
func (r *Runner) Select(ctx context.Context, g *dag.Graph, query string) (*dag.Graph, []string, error) {
	if query == "" {
		return g, nil, nil
	}
	names, err := r.Resolve(ctx, g, query)
	if err != nil {
		return nil, nil, err
	}
	sub := transform.Filter(g, names)
	observability.Graph().OnFilter(ctx, len(names), sub.ComponentCount())
	r.Logger.Debug("filtered graph",
		"seeds", len(names),
		"kept", sub.ComponentCount(),
		"of", g.ComponentCount())
	return sub, names, nil
}

// Check runs the redundancy detector on g.
func (r *Runner) Check(ctx context.Context, g *dag.Graph) (transform.Report, error) {
	start := time.Now()
	report, err := transform.Check(g)
	observability.Graph().OnCheck(ctx, len(report.Findings), time.Since(start), err)
	if err != nil {
		return transform.Report{}, err
	}
	r.Logger.Debug("checked graph",
		"components", report.Components,
		"findings", len(report.Findings),
		"redundant_edges", report.RedundantEdges)
	return report, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *dag.Graph, opts Options) ([]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return out, err
}

// RenderWithCacheInfo renders g and reports whether the output came from
// the cache. Only image formats are cached: they are keyed by the hash of
// the classified DOT source, so any change to the selection misses.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *dag.Graph, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Format, g.ComponentCount())

	if !IsImage(opts.Format) {
		out, err := Render(ctx, g, opts)
		hooks.OnRenderComplete(ctx, opts.Format, len(out), time.Since(start), err)
		return out, false, err
	}

	key := r.artifactKey(g, opts)
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "error", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, "artifact")
			hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), nil)
			return data, true, nil
		default:
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
	}

	out, err := Render(ctx, g, opts)
	hooks.OnRenderComplete(ctx, opts.Format, len(out), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, out, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(out))
	}
	return out, false, nil
}

func (r *Runner) artifactKey(g *dag.Graph, opts Options) string {
	kopts := cache.ArtifactKeyOpts{Format: opts.Format, Layout: opts.Layout}
	if opts.Format == FormatPNG {
		kopts.Scale = opts.Scale
	}
	return cache.ArtifactKey(cache.Hash([]byte(nodelink.ToDOT(g))), kopts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	return nil
}
