// Package transform provides read-only analyses and derived views of a
// build dependency graph.
//
// # Overview
//
// Nothing in this package mutates its input. Analyses return plain values
// and views are returned as new graphs:
//
//   - [Closure] and [Filter] compute the set of components reachable from
//     a selection and the subgraph restricted to that set
//   - [TopoOrder] orders components so that dependencies come before
//     their dependents, rejecting cycles with a [*CycleError]
//   - [FindRedundant] reports direct dependencies that are already pulled
//     in through another direct dependency
//   - [Reduce] returns a copy of the graph with those dependencies removed
//
// # Closure
//
// [Closure] performs a breadth-first walk from the seeds, following both
// required and optional dependencies. A dependency that is not declared
// anywhere in the graph is part of the closure but has no outgoing edges:
//
//	seeds: [testpmd]
//	testpmd → ethdev → ring → eal
//	closure: [testpmd ethdev ring eal]
//
// Filtering is idempotent: filtering the filtered graph with the same
// seeds yields the same graph.
//
// # Redundant Dependencies
//
// A direct dependency d of C is redundant when some other direct
// dependency of C already depends on d, directly or transitively:
//
//	ethdev → ring → eal
//	ethdev → eal          (eal is redundant: ethdev reaches it via ring)
//
// The transitive dependency sets are computed once per component, in
// topological order, so every component is visited once regardless of
// the order in which the graph file declared it. A forward reference is
// therefore legal; only a cycle is an error.
//
// # Usage
//
//	sub := transform.Filter(g, []string{"dpdk-testpmd"})
//
//	findings, err := transform.FindRedundant(g)
//	var cycle *transform.CycleError
//	if errors.As(err, &cycle) {
//	    fmt.Println("cycle:", cycle.Path)
//	}
package transform
