package cli

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depgraph/pkg/pipeline"
	"github.com/matzehuels/depgraph/pkg/render/nodelink"
)

// drawOpts holds the command-line flags for the draw command. Empty values
// fall back to the [render] section of the configuration.
type drawOpts struct {
	match   string
	format  string
	layout  string
	scale   float64
	refresh bool
	noCache bool
}

func (c *CLI) drawCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "draw <input> [output]",
		Short: "Write the classified dependency graph",
		Long: `Write the graph grouped by component type, as DOT or as an image.

With --match, only the components the query resolves to are kept, together
with everything they depend on. A query is a category ("lib", "drivers"), a
component or app name ("eal", "testpmd"), a driver ("net/ice", "ice"), a
driver class ("drivers/net") or a category-qualified name ("lib/eal").

The output defaults to stdout ("-"). When --format is not given, it is taken
from the output file extension, then from the configuration.`,
		Example: `  depgraph draw build/deps.dot deps.gv
  depgraph draw --match net/ice build/deps.dot ice.svg
  depgraph draw -m testpmd -f png --scale 3 build/deps.dot -`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := stdio
			if len(args) == 2 {
				output = args[1]
			}
			return c.runDraw(cmd.Context(), cmd, args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.match, "match", "m", "", "restrict output to a component or category and its dependencies")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(pipeline.Formats, ", "))
	cmd.Flags().StringVar(&opts.layout, "layout", "", "Graphviz engine for image formats (default neato)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG resolution multiplier (default 2)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render images even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(pipeline.Formats))
	_ = cmd.RegisterFlagCompletionFunc("layout", fixedCompletion(nodelink.Layouts))

	return cmd
}

// pipelineOptions merges flags over the configuration.
func (c *CLI) pipelineOptions(opts drawOpts, output string) pipeline.Options {
	popts := c.Config.PipelineOptions()
	popts.Match = opts.match
	popts.Refresh = opts.refresh
	switch {
	case opts.format != "":
		popts.Format = opts.format
	case formatFromPath(output) != "":
		popts.Format = formatFromPath(output)
	}
	if opts.layout != "" {
		popts.Layout = opts.layout
	}
	if opts.scale != 0 {
		popts.Scale = opts.scale
	}
	return popts
}

// formatFromPath maps an output file extension to a format, or "".
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "gv":
		return pipeline.FormatDOT
	case "":
		return ""
	}
	if slices.Contains(pipeline.Formats, ext) {
		return ext
	}
	return ""
}

func (c *CLI) runDraw(ctx context.Context, cmd *cobra.Command, input, output string, opts drawOpts) error {
	popts := c.pipelineOptions(opts, output)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	g, err := loadGraph(ctx, cmd, runner, input)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	var spin *Spinner
	if pipeline.IsImage(popts.Format) && isTerminal(stderr) {
		spin = newSpinner(ctx, stderr, "Rendering "+popts.Format)
		spin.Start()
	}
	res, err := runner.ExecuteGraph(ctx, g, popts)
	if spin != nil {
		if err != nil {
			spin.StopWithError("Rendering failed")
		} else {
			spin.Stop()
		}
	}
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, output, res.Output); err != nil {
		return err
	}
	if output != stdio {
		printSuccess(stderr, "Wrote %s graph", popts.Format)
		printFile(stderr, output)
		printStats(stderr, res.Stats.Components, res.Stats.Edges, res.CacheHit)
	}
	prog.done("Drew graph")
	return nil
}
