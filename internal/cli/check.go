package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depgraph/pkg/dag/transform"
	deperrors "github.com/matzehuels/depgraph/pkg/errors"
	depio "github.com/matzehuels/depgraph/pkg/io"
)

// Report formats of the check command.
const (
	reportText  = "text"
	reportTable = "table"
	reportJSON  = "json"
	reportYAML  = "yaml"
)

var reportFormats = []string{reportText, reportTable, reportJSON, reportYAML}

type checkOpts struct {
	match  string
	format string
	fix    string
}

func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{format: reportText}

	cmd := &cobra.Command{
		Use:   "check <input>",
		Short: "Report dependencies already implied by other dependencies",
		Long: `Report, for each component, the direct dependencies that are also reached
through another direct dependency. Such dependencies can be dropped from
the build description without changing what gets linked.

Findings do not make the command fail; a dependency cycle or a malformed
graph does. With --fix, the whole graph with every redundant dependency
removed is written to the given file; --match narrows only the report.`,
		Example: `  depgraph check build/deps.dot
  depgraph check --format table --match lib build/deps.dot
  depgraph check --fix reduced.dot build/deps.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.match, "match", "m", "", "only check a component or category and its dependencies")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "report format: "+strings.Join(reportFormats, ", "))
	cmd.Flags().StringVar(&opts.fix, "fix", "", "write the graph without redundant dependencies to this file")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(reportFormats))

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, cmd *cobra.Command, input string, opts checkOpts) error {
	write, ok := reportWriters[opts.format]
	if !ok {
		return deperrors.New(deperrors.ErrCodeInvalidFormat, "invalid report format: %q (must be one of: %s)",
			opts.format, strings.Join(reportFormats, ", "))
	}

	runner := c.newRunner(true)
	defer runner.Close()

	prog := newProgress(c.Logger)
	g, err := loadGraph(ctx, cmd, runner, input)
	if err != nil {
		return err
	}
	sub, _, err := runner.Select(ctx, g, opts.match)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if missing := sub.Missing(); len(missing) > 0 {
		printWarning(stderr, "%d components depend on undeclared components", len(missing))
	}

	report, err := runner.Check(ctx, sub)
	if err != nil {
		return err
	}
	if err := write(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Checked %d components", report.Components))

	if opts.fix == "" {
		return nil
	}
	reduced, findings, err := transform.Reduce(g)
	if err != nil {
		return err
	}
	if err := depio.ExportGraph(reduced, opts.fix); err != nil {
		return err
	}
	removed := 0
	for _, f := range findings {
		removed += len(f.Redundant)
	}
	printSuccess(stderr, "Removed %d redundant dependencies from %d components", removed, len(findings))
	printFile(stderr, opts.fix)
	return nil
}

// =============================================================================
// Report Writers
// =============================================================================

var reportWriters = map[string]func(io.Writer, transform.Report) error{
	reportText:  writeReportText,
	reportTable: writeReportTable,
	reportJSON:  writeReportJSON,
	reportYAML:  writeReportYAML,
}

// writeReportText prints one "name: extra deps a, b" line per finding.
func writeReportText(w io.Writer, r transform.Report) error {
	for _, f := range r.Findings {
		if _, err := fmt.Fprintf(w, "%s: extra deps %s\n", f.Component, strings.Join(f.Redundant, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func writeReportTable(w io.Writer, r transform.Report) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	header := table.Row{"COMPONENT", "TYPE", "REDUNDANT"}
	if isTerminal(w) {
		for i, h := range header {
			header[i] = text.FgHiCyan.Sprint(h)
		}
	}
	t.AppendHeader(header)
	for _, f := range r.Findings {
		t.AppendRow(table.Row{f.Component, f.Type, strings.Join(f.Redundant, ", ")})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d components", r.Components),
		fmt.Sprintf("%d edges", r.Edges),
		fmt.Sprintf("%d redundant", r.RedundantEdges),
	})
	t.Render()
	return nil
}

func writeReportJSON(w io.Writer, r transform.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeReportYAML(w io.Writer, r transform.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
