// Package cli implements the depgraph command-line interface.
//
// The commands wrap the graph packages for use from a build system and
// from a shell:
//   - append: add one component record to a graph file (one call per
//     configured component during a build)
//   - draw: write the classified graph, optionally restricted to a name
//     query, as DOT or a rendered image
//   - match: print the components a query resolves to
//   - check: report redundant dependencies, optionally writing the reduced
//     graph
//   - serve: answer the same queries over HTTP
//   - cache: inspect and clear the rendered-artifact cache
//
// Data goes to stdout; status lines and logs go to stderr so that output
// can be piped. All commands accept --verbose (-v) for debug logging and
// --config to point at a configuration file.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depgraph/internal/config"
	"github.com/matzehuels/depgraph/pkg/cache"
	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/match"
	"github.com/matzehuels/depgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// stdio is the path argument meaning standard input or output.
const stdio = "-"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The artifact cache is
// a file cache unless disabled by flag or configuration.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(noCache), match.New(c.Config.MatchOptions()), c.Logger)
}

func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || !c.Config.Cache.Enabled {
		return cache.NewNullCache()
	}
	dir, err := c.Config.CacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// I/O Helpers
// =============================================================================

// loadGraph reads the graph named by path; "-" reads the command's input.
func loadGraph(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, path string) (*dag.Graph, error) {
	if path == stdio {
		return runner.LoadReader(ctx, "stdin", cmd.InOrStdin())
	}
	return runner.Load(ctx, path)
}

// writeOutput writes data to path; "-" writes to the command's output.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == stdio {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
