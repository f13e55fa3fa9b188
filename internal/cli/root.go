package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/depgraph/internal/config"
	"github.com/matzehuels/depgraph/pkg/buildinfo"
	"github.com/matzehuels/depgraph/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the configuration file is loaded, the log
// level is set from --verbose, and the graph and cache hooks are pointed
// at the logger.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "depgraph",
		Short: "depgraph queries and checks build dependency graphs",
		Long: `depgraph maintains the dependency graph a build writes one component at a
time, resolves short component names such as "net/ice" or "testpmd", draws
the part of the graph a component needs, and reports dependencies that are
already implied by others.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg

			hooks := &logHooks{logger: c.Logger}
			observability.SetGraphHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (default $XDG_CONFIG_HOME/depgraph/config.toml)")

	root.AddCommand(c.appendCommand())
	root.AddCommand(c.drawCommand())
	root.AddCommand(c.matchCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
