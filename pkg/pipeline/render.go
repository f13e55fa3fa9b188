package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/depgraph/pkg/dag"
	depio "github.com/matzehuels/depgraph/pkg/io"
	"github.com/matzehuels/depgraph/pkg/render/nodelink"
)

// Render encodes g in opts.Format. Options must have been validated.
func Render(ctx context.Context, g *dag.Graph, opts Options) ([]byte, error) {
	nopts := nodelink.Options{Layout: opts.Layout}

	var (
		data []byte
		err  error
	)
	switch opts.Format {
	case FormatDOT:
		data = []byte(nodelink.ToDOT(g))
	case FormatRaw:
		var buf bytes.Buffer
		err = depio.WriteGraph(g, &buf)
		data = buf.Bytes()
	case FormatJSON:
		var buf bytes.Buffer
		err = depio.WriteJSON(g, &buf)
		data = buf.Bytes()
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(g), nopts)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, nodelink.ToDOT(g), nopts, opts.Scale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, nodelink.ToDOT(g), nopts)
	default:
		return nil, ValidateFormat(opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return data, nil
}
