package transform

import (
	"strings"

	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/errors"
)

// CycleError reports a dependency cycle. Path starts and ends with the
// same component, e.g. [a b c a].
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

// Code returns [errors.ErrCodeDependencyCycle].
func (e *CycleError) Code() errors.Code { return errors.ErrCodeDependencyCycle }

// TopoOrder returns the declared component names of g ordered so that
// every component appears after all of its dependencies. Components are
// visited in declaration order, so the result is deterministic.
// Dependencies that are not declared are treated as leaves and left out.
//
// A name declared under several types appears once, with the union of its
// dependencies. Returns a [*CycleError] if the graph is not acyclic.
func TopoOrder(g *dag.Graph) ([]string, error) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	order := make([]string, 0, g.ComponentCount())
	var stack []string

	var dfs func(name string) error
	dfs = func(name string) error {
		color[name] = gray
		stack = append(stack, name)
		for _, d := range g.Deps(name) {
			if !g.Has(d) {
				continue
			}
			switch color[d] {
			case white:
				if err := dfs(d); err != nil {
					return err
				}
			case gray:
				return &CycleError{Path: cyclePath(stack, d)}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		order = append(order, name)
		return nil
	}

	for _, c := range g.All() {
		if color[c.Name] == white {
			if err := dfs(c.Name); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

// cyclePath extracts the cycle closed by an edge back to start from the
// DFS stack.
func cyclePath(stack []string, start string) []string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == start {
			path := append([]string(nil), stack[i:]...)
			return append(path, start)
		}
	}
	return []string{start, start}
}
