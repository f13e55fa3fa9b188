package transform

import "github.com/matzehuels/depgraph/pkg/dag"

// Finding lists the redundant direct dependencies of one component.
type Finding struct {
	Component string   `json:"component" yaml:"component"`
	Type      string   `json:"type" yaml:"type"`
	Redundant []string `json:"redundant" yaml:"redundant"`
}

// Report summarizes a redundancy check.
//
// Report is returned by [Check] and is what the check command and the
// HTTP service print. An empty Findings slice means the graph carries no
// redundant dependencies.
type Report struct {
	// Components is the number of declared components checked.
	Components int `json:"components" yaml:"components"`

	// Edges is the number of dependency edges across all groups.
	Edges int `json:"edges" yaml:"edges"`

	// RedundantEdges is the total number of redundant dependencies, i.e.
	// the sum of len(Redundant) over Findings.
	RedundantEdges int `json:"redundant_edges" yaml:"redundant_edges"`

	// Findings holds one entry per affected component, in declaration
	// order. It is never nil.
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Check runs [FindRedundant] and wraps the result in a [Report].
func Check(g *dag.Graph) (Report, error) {
	findings, err := FindRedundant(g)
	if err != nil {
		return Report{}, err
	}
	r := Report{
		Components: g.ComponentCount(),
		Edges:      g.EdgeCount(),
		Findings:   findings,
	}
	for _, f := range findings {
		r.RedundantEdges += len(f.Redundant)
	}
	return r, nil
}
