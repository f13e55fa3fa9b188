package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) matchCommand() *cobra.Command {
	var closure bool

	cmd := &cobra.Command{
		Use:   "match <input> <query>",
		Short: "Print the components a query resolves to",
		Long: `Print, one per line, the component names a query resolves to.

With --closure, every component the matches depend on is printed as well,
in declaration order.`,
		Example: `  depgraph match build/deps.dot ice
  depgraph match --closure build/deps.dot drivers/net`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := c.newRunner(true)
			defer runner.Close()

			g, err := loadGraph(ctx, cmd, runner, args[0])
			if err != nil {
				return err
			}
			sub, names, err := runner.Select(ctx, g, args[1])
			if err != nil {
				return err
			}
			if closure {
				names = make([]string, 0, sub.ComponentCount())
				for _, comp := range sub.All() {
					names = append(names, comp.Name)
				}
			}
			out := cmd.OutOrStdout()
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&closure, "closure", false, "also print everything the matches depend on")
	return cmd
}
