package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/httputil"
	depio "github.com/matzehuels/depgraph/pkg/io"
	"github.com/matzehuels/depgraph/pkg/observability"
)

// Stdin is the path that makes [Runner.Load] read standard input.
const Stdin = "-"

// Load reads the graph at path. Files ending in .json are decoded with
// [depio.ReadJSON]; everything else is the line format, which also
// accepts classified output. The path "-" reads standard input, and an
// http(s) URL is downloaded with the runner's [httputil.Fetcher].
func (r *Runner) Load(ctx context.Context, path string) (*dag.Graph, error) {
	if path == Stdin {
		return r.LoadReader(ctx, "stdin", os.Stdin)
	}
	if httputil.IsURL(path) {
		return r.loadURL(ctx, path)
	}
	f, err := os.Open(path)
	if err != nil {
		observability.Graph().OnLoad(ctx, path, 0, 0, err)
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return r.LoadReader(ctx, path, f)
}

func (r *Runner) loadURL(ctx context.Context, rawURL string) (*dag.Graph, error) {
	f := r.Fetcher
	if f == nil {
		f = httputil.NewFetcher()
	}
	data, err := f.Fetch(ctx, rawURL)
	if err != nil {
		observability.Graph().OnLoad(ctx, rawURL, 0, 0, err)
		return nil, err
	}
	r.Logger.Debug("fetched graph", "url", rawURL, "bytes", len(data))
	return r.LoadReader(ctx, rawURL, bytes.NewReader(data))
}

// LoadReader decodes a graph from rd. name identifies the source in logs
// and errors; a name (or URL path) ending in .json selects the JSON
// decoder.
func (r *Runner) LoadReader(ctx context.Context, name string, rd io.Reader) (*dag.Graph, error) {
	start := time.Now()
	var (
		g   *dag.Graph
		err error
	)
	if isJSON(name) {
		g, err = depio.ReadJSON(rd)
	} else {
		g, err = depio.ReadGraph(rd)
	}
	elapsed := time.Since(start)
	if err != nil {
		observability.Graph().OnLoad(ctx, name, 0, elapsed, err)
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	observability.Graph().OnLoad(ctx, name, g.ComponentCount(), elapsed, nil)

	r.Logger.Debug("loaded graph",
		"source", name,
		"types", len(g.Types()),
		"components", g.ComponentCount(),
		"edges", g.EdgeCount(),
		"duration", elapsed)
	if missing := g.Missing(); len(missing) > 0 {
		r.Logger.Debug("graph references undeclared components", "components", len(missing))
	}
	return g, nil
}

func isJSON(name string) bool {
	if httputil.IsURL(name) {
		name = httputil.Base(name)
	}
	return strings.EqualFold(filepath.Ext(name), ".json")
}
