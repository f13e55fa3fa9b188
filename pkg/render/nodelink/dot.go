package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/errors"
	"github.com/matzehuels/depgraph/pkg/render"
)

// GraphName is the name of the digraph emitted by [ToDOT].
const GraphName = "dpdk_dependencies"

// DefaultLayout is the Graphviz engine used when [Options.Layout] is empty.
// The overlap and model hints of [ToDOT] output are neato attributes.
const DefaultLayout = "neato"

// Layouts lists the Graphviz engines accepted by [Options.Layout].
var Layouts = []string{"dot", "neato", "fdp", "sfdp", "circo", "twopi", "osage", "patchwork"}

// Options configures rendering of classified output.
type Options struct {
	// Layout is the Graphviz engine. Empty means DefaultLayout.
	Layout string
}

func (o Options) layout() (string, error) {
	if o.Layout == "" {
		return DefaultLayout, nil
	}
	if !slices.Contains(Layouts, o.Layout) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown layout %q (want one of %s)",
			o.Layout, strings.Join(Layouts, ", "))
	}
	return o.Layout, nil
}

// ToDOT emits g in classified form: one cluster per component type, in
// type insertion order, each labelled with the type and holding one line
// per non-empty edge group (a bare line for a component without
// dependencies). Optional groups carry [style="dotted"]; no other
// attribute is written, so display names are not part of the output.
//
//	digraph dpdk_dependencies {
//	  overlap=false
//	  model=subset
//	  subgraph cluster_0 {
//	    label = "lib"
//	    "ring" -> { "eal" }
//	  }
//	}
func ToDOT(g *dag.Graph) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", GraphName)
	buf.WriteString("  overlap=false\n")
	buf.WriteString("  model=subset\n")

	for i, typ := range g.Types() {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label = \"%s\"\n", typ)
		for _, c := range g.Components(typ) {
			for _, grp := range emitted(c) {
				buf.WriteString("    ")
				writeGroup(&buf, c.Name, grp)
				buf.WriteString("\n")
			}
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// emitted returns the groups of c that carry dependencies. A component
// whose groups are all empty still gets one bare line so that it stays
// declared.
func emitted(c *dag.Component) []dag.EdgeGroup {
	var out []dag.EdgeGroup
	for _, grp := range c.Groups {
		if len(grp.Deps) > 0 {
			out = append(out, grp)
		}
	}
	if len(out) == 0 && len(c.Groups) > 0 {
		out = append(out, c.Groups[0])
	}
	return out
}

func writeGroup(buf *bytes.Buffer, name string, grp dag.EdgeGroup) {
	buf.WriteString(`"` + name + `"`)
	if len(grp.Deps) > 0 {
		buf.WriteString(` -> { "`)
		buf.WriteString(strings.Join(grp.Deps, `", "`))
		buf.WriteString(`" }`)
	}
	if grp.Optional {
		buf.WriteString(` [style="dotted"]`)
	}
}

// Validate parses dot with Graphviz and reports any syntax error.
func Validate(dot string) error {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	return g.Close()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string, opts Options) ([]byte, error) {
	layout, err := opts.layout()
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(layout))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg header with a plain
// viewBox so that the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string, opts Options) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, opts)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given
// scale.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, opts Options, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, opts)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
