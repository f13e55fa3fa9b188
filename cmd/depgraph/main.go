package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/depgraph/internal/cli"
	deperrors "github.com/matzehuels/depgraph/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes bad input from graph problems for scripts.
func exitCode(err error) int {
	switch deperrors.GetCode(err) {
	case deperrors.ErrCodeUnknownComponent:
		return 2
	case deperrors.ErrCodeMalformedLine, deperrors.ErrCodeDependencyCycle:
		return 3
	}
	return 1
}
