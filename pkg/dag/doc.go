// Package dag provides the in-memory model of a build dependency graph.
//
// # Overview
//
// A build records one line per component as it is configured: the
// component's name, its type ("lib", "drivers", "app", "examples", ...),
// whether the listed dependencies are optional, and the dependencies
// themselves. This package holds the result as a [Graph] of [Component]
// values grouped by type.
//
// # Basic Usage
//
// Create a graph with [New] and record edge groups with [Graph.Set]:
//
//	g := dag.New()
//	g.Set("lib", "eal", "", dag.EdgeGroup{})
//	g.Set("lib", "mempool", "", dag.EdgeGroup{Deps: []string{"eal"}})
//	g.Set("drivers", "net_ice", "", dag.EdgeGroup{Optional: true, Deps: []string{"mempool"}})
//
// Query it with [Graph.Types], [Graph.Components], [Graph.Lookup] and
// [Graph.Deps]. Most callers build graphs with [io.ReadGraph] instead.
//
// # Edge Groups
//
// Each component carries at most one required and one optional
// [EdgeGroup]. Recording a group again for the same (type, name,
// optionality) replaces the earlier one. This mirrors the build, which
// declares every component exactly once per optionality.
//
// # Missing Components
//
// A dependency may name a component that was never declared. The graph
// keeps such references untouched; [Graph.Missing] lists them and the
// traversal functions in the [transform] subpackage treat them as leaves.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. A fully built
// graph can be shared by any number of readers.
//
// [io.ReadGraph]: github.com/matzehuels/depgraph/pkg/io
// [transform]: github.com/matzehuels/depgraph/pkg/dag/transform
package dag
