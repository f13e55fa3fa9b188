// Package pipeline runs the load → select → render pipeline shared by the
// CLI and the HTTP service.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: decode a graph file (line format, classified output or JSON)
//  2. Select: resolve a name query and keep its transitive closure
//  3. Render: emit the selection as classified DOT, raw lines, JSON, or
//     an image rendered by Graphviz
//
// A [Runner] ties the stages together and adds what the library packages
// leave out on purpose: logging, observability hooks, and an artifact
// cache for the image formats. Redundancy checks run on the same loaded
// graph through [Runner.Check].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, "deps.dot", pipeline.Options{
//	    Match:  "net/ice",
//	    Format: pipeline.FormatSVG,
//	})
//	os.WriteFile("ice.svg", result.Output, 0o644)
//
// Run individual stages:
//
//	g, err := runner.Load(ctx, "deps.dot")
//	sub, names, err := runner.Select(ctx, g, "drivers/net")
//	out, err := runner.Render(ctx, sub, opts)
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/errors"
	"github.com/matzehuels/depgraph/pkg/render/nodelink"
)

// Output formats.
const (
	FormatDOT  = "dot"  // classified output
	FormatRaw  = "raw"  // line format, attributes preserved
	FormatJSON = "json" // JSON encoding of the graph model
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

const (
	// DefaultFormat is the output format when none is given.
	DefaultFormat = FormatDOT

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Formats lists the supported output formats in display order.
var Formats = []string{FormatDOT, FormatRaw, FormatJSON, FormatSVG, FormatPNG, FormatPDF}

// ValidateFormat checks that format is one of [Formats].
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// IsImage reports whether format is rendered through Graphviz.
func IsImage(format string) bool {
	return format == FormatSVG || format == FormatPNG || format == FormatPDF
}

// Options configures a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Match is the name query selecting the components to keep, together
	// with everything they depend on. Empty keeps the whole graph.
	Match string `json:"match,omitempty"`

	// Format is one of [Formats]. Empty means DefaultFormat.
	Format string `json:"format,omitempty"`

	// Layout is the Graphviz engine for image formats. Empty means
	// nodelink.DefaultLayout.
	Layout string `json:"layout,omitempty"`

	// Scale is the PNG resolution multiplier. Zero means DefaultScale.
	Scale float64 `json:"scale,omitempty"`

	// Refresh bypasses the artifact cache for reads; fresh output is still
	// stored.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Layout == "" {
		o.Layout = nodelink.DefaultLayout
	}
	if !slices.Contains(nodelink.Layouts, o.Layout) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid layout: %q (must be one of: %s)",
			o.Layout, strings.Join(nodelink.Layouts, ", "))
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the selected graph (the whole graph when no query was given).
	Graph *dag.Graph

	// Selected holds the names the query resolved to, nil without a query.
	Selected []string

	// Output is the rendered graph in the requested format.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Output came from the artifact cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components int // in the selected graph
	Edges      int // in the selected graph
	LoadTime   time.Duration
	SelectTime time.Duration
	RenderTime time.Duration
}
