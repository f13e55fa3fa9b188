package transform

import "github.com/matzehuels/depgraph/pkg/dag"

// Closure returns the names reachable from seeds, seeds included, in
// breadth-first visiting order. Both required and optional dependencies
// are followed. Names that are not declared in g are kept but not
// expanded. Duplicate seeds are visited once.
func Closure(g *dag.Graph, seeds []string) []string {
	visited := make(map[string]struct{}, len(seeds))
	var order []string
	queue := make([]string, 0, len(seeds))

	visit := func(name string) {
		if _, ok := visited[name]; ok {
			return
		}
		visited[name] = struct{}{}
		order = append(order, name)
		queue = append(queue, name)
	}

	for _, s := range seeds {
		visit(s)
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, d := range g.Deps(name) {
			visit(d)
		}
	}
	return order
}

// Filter returns a new graph containing only the components in the
// closure of seeds. Their edge groups are copied unchanged; types that end
// up empty are dropped. g is not modified.
func Filter(g *dag.Graph, seeds []string) *dag.Graph {
	keep := make(map[string]struct{})
	for _, n := range Closure(g, seeds) {
		keep[n] = struct{}{}
	}
	return g.Subgraph(func(c *dag.Component) bool {
		_, ok := keep[c.Name]
		return ok
	})
}
