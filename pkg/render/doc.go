// Package render converts rendered dependency graphs between image formats.
//
// Graphviz, driven by the [nodelink] subpackage, produces SVG in-process.
// [ToPDF] and [ToPNG] turn that SVG into other formats using the external
// rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Options{})
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// When rsvg-convert is missing, both return an error with code
// [errors.ErrCodeUnsupported]; use [Available] to check beforehand.
//
// [nodelink]: github.com/matzehuels/depgraph/pkg/render/nodelink
// [errors.ErrCodeUnsupported]: github.com/matzehuels/depgraph/pkg/errors#ErrCodeUnsupported
package render
