package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depgraph/internal/server"
	"github.com/matzehuels/depgraph/pkg/cache"
	"github.com/matzehuels/depgraph/pkg/match"
	"github.com/matzehuels/depgraph/pkg/pipeline"
)

type serveOpts struct {
	addr  string
	watch bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve <input>",
		Short: "Serve graph queries over HTTP",
		Long: `Load a graph and answer queries over HTTP until interrupted.

Endpoints:
  GET /healthz                  liveness and graph size
  GET /version                  build information
  GET /components?match=Q       names a query resolves to, with their closure
  GET /graph?match=Q&format=F   the selection as dot, raw, json, svg, png or pdf
  GET /redundant?match=Q        redundant dependencies of the selection
  GET /metrics                  Prometheus metrics

With --watch, the file is reloaded whenever it changes.`,
		Example: `  depgraph serve build/deps.dot
  depgraph serve --addr 127.0.0.1:9090 --watch build/deps.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				opts.addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("watch") {
				opts.watch = c.Config.Server.Watch
			}
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the graph when the file changes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	mc, err := cache.NewMemoryCache(c.Config.Server.CacheSize)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(mc, match.New(c.Config.MatchOptions()), c.Logger)
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	server.NewMetrics(reg).Install()

	srv, err := server.New(ctx, server.Config{
		Path:     input,
		Addr:     opts.addr,
		Runner:   runner,
		Gatherer: reg,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(ctx) })
	if opts.watch {
		g.Go(func() error { return srv.Watch(ctx) })
	}
	return g.Wait()
}
