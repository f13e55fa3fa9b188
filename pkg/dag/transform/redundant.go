package transform

import "github.com/matzehuels/depgraph/pkg/dag"

// FindRedundant reports, for every component, the direct dependencies that
// are also reachable through another of its direct dependencies. Required
// and optional dependencies are considered together.
//
// The transitive dependency set of each component is computed once, in
// the order returned by [TopoOrder], and reused by its dependents.
// Undeclared dependencies are leaves.
//
// Findings follow the declaration order of g and are never nil. The only
// error is a [*CycleError]; g is not modified.
func FindRedundant(g *dag.Graph) ([]Finding, error) {
	order, err := TopoOrder(g)
	if err != nil {
		return nil, err
	}

	// recursive[n] holds everything reachable from n through at least one
	// intermediate dependency.
	recursive := make(map[string]map[string]struct{}, len(order))
	for _, name := range order {
		set := make(map[string]struct{})
		for _, d := range g.Deps(name) {
			for _, dd := range g.Deps(d) {
				set[dd] = struct{}{}
			}
			for r := range recursive[d] {
				set[r] = struct{}{}
			}
		}
		recursive[name] = set
	}

	findings := []Finding{}
	for _, c := range g.All() {
		var redundant []string
		for _, d := range c.Deps() {
			if _, ok := recursive[c.Name][d]; ok {
				redundant = append(redundant, d)
			}
		}
		if len(redundant) > 0 {
			findings = append(findings, Finding{Component: c.Name, Type: c.Type, Redundant: redundant})
		}
	}
	return findings, nil
}
