package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	depio "github.com/matzehuels/depgraph/pkg/io"
)

// buildRootEnv names the build directory when append is run by the build
// system without an explicit file.
const buildRootEnv = "MESON_BUILD_ROOT"

type appendOpts struct {
	typ         string
	optional    bool
	displayName string
	reset       bool
}

func (c *CLI) appendCommand() *cobra.Command {
	var opts appendOpts

	cmd := &cobra.Command{
		Use:   "append [--type T] [--optional] [--display-name N] <file> <component> [deps...]",
		Short: "Add one component to a graph file",
		Long: `Add one component record to a graph file, as a build does once per
configured component. A missing file is created. The file is a valid graph
after every call.

A file argument of "-" means $MESON_BUILD_ROOT/deps.dot.

With --reset, the file is deleted so that the next call starts a new graph.
Running append without arguments resets $MESON_BUILD_ROOT/deps.dot, as the
build does before configuring.`,
		Example: `  depgraph append --type lib deps.dot mempool eal ring
  depgraph append --type drivers --optional deps.dot net_ice bus_pci
  depgraph append --reset deps.dot
  MESON_BUILD_ROOT=build depgraph append`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				if opts.typ != "" || opts.optional || opts.displayName != "" {
					return errors.New("a file and component are required to append")
				}
				return nil
			case opts.reset:
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				opts.reset = true
				args = []string{stdio}
			}
			path, err := graphFilePath(args[0])
			if err != nil {
				return err
			}
			if opts.reset {
				c.Logger.Debug("reset graph file", "path", path)
				return depio.Reset(path)
			}
			if opts.typ == "" {
				return errors.New(`required flag "type" not set`)
			}
			rec := depio.Record{
				Name:        args[1],
				Type:        opts.typ,
				DisplayName: opts.displayName,
				Optional:    opts.optional,
				Deps:        args[2:],
			}
			if err := depio.Append(path, rec); err != nil {
				return err
			}
			c.Logger.Debug("appended component", "path", path, "component", rec.Name, "deps", len(rec.Deps))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.typ, "type", "", "component type (lib, drivers, app, examples, ...)")
	cmd.Flags().BoolVar(&opts.optional, "optional", false, "mark the dependencies as optional")
	cmd.Flags().StringVar(&opts.displayName, "display-name", "", "name of the component as the build system knows it")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "delete the graph file")

	return cmd
}

// graphFilePath resolves the "-" shorthand to the build directory file.
func graphFilePath(arg string) (string, error) {
	if arg != stdio {
		return arg, nil
	}
	root := os.Getenv(buildRootEnv)
	if root == "" {
		return "", errors.New(buildRootEnv + " is not set")
	}
	return filepath.Join(root, "deps.dot"), nil
}
