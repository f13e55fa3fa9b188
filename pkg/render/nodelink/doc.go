// Package nodelink emits the classified form of a dependency graph and
// renders it with Graphviz.
//
// # Classified Output
//
// [ToDOT] groups components into one Graphviz cluster per type, labelled
// with the type name, in the order the types were first declared. Every
// recorded edge group becomes one line; optional groups are dotted. The
// output is deterministic for a given graph and can be read back by
// [io.ReadGraph], which takes each record's type from its cluster label.
//
// # Rendering
//
// [RenderSVG] lays the graph out in-process through
// [github.com/goccy/go-graphviz]. The default engine is neato, which
// honours the overlap and model hints at the top of the output; any
// engine in [Layouts] may be chosen through [Options]. PDF and PNG go
// through SVG and require librsvg (rsvg-convert):
//
//	dot := nodelink.ToDOT(g)
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Options{})
//	png, err := nodelink.RenderPNG(ctx, dot, nodelink.Options{Layout: "dot"}, 2.0)
//
// [io.ReadGraph]: github.com/matzehuels/depgraph/pkg/io#ReadGraph
package nodelink
