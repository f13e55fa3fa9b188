package transform

import (
	"slices"

	"github.com/matzehuels/depgraph/pkg/dag"
)

// Reduce returns a copy of g with every redundant dependency reported by
// [FindRedundant] removed from the groups that carry it, together with
// the findings that were applied. Running FindRedundant on the result
// yields no findings.
//
// Groups left empty by the reduction are kept, so every component stays
// declared with the same optionality groups. g is not modified.
func Reduce(g *dag.Graph) (*dag.Graph, []Finding, error) {
	findings, err := FindRedundant(g)
	if err != nil {
		return nil, nil, err
	}
	out := g.Clone()
	for _, f := range findings {
		c, ok := out.Component(f.Type, f.Component)
		if !ok {
			continue
		}
		for _, grp := range slices.Clone(c.Groups) {
			grp.Deps = slices.DeleteFunc(slices.Clone(grp.Deps), func(d string) bool {
				return slices.Contains(f.Redundant, d)
			})
			if _, err := out.Set(f.Type, f.Component, "", grp); err != nil {
				return nil, nil, err
			}
		}
	}
	return out, findings, nil
}
