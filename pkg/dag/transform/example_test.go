package transform_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/dag/transform"
)

func ExampleFilter() {
	g := dag.New()
	g.Set("lib", "eal", "", dag.EdgeGroup{})
	g.Set("lib", "ring", "", dag.EdgeGroup{Deps: []string{"eal"}})
	g.Set("lib", "hash", "", dag.EdgeGroup{Deps: []string{"eal"}})
	g.Set("drivers", "net_ring", "", dag.EdgeGroup{Deps: []string{"ring"}})

	sub := transform.Filter(g, []string{"net_ring"})
	for _, typ := range sub.Types() {
		fmt.Println(typ, sub.Names(typ))
	}
	// Output:
	// lib [eal ring]
	// drivers [net_ring]
}

func ExampleFindRedundant() {
	// ethdev → ring → eal, plus the shortcut ethdev → eal
	g := dag.New()
	g.Set("lib", "eal", "", dag.EdgeGroup{})
	g.Set("lib", "ring", "", dag.EdgeGroup{Deps: []string{"eal"}})
	g.Set("lib", "ethdev", "", dag.EdgeGroup{Deps: []string{"ring", "eal"}})

	findings, _ := transform.FindRedundant(g)
	for _, f := range findings {
		fmt.Printf("%s/%s: %v\n", f.Type, f.Component, f.Redundant)
	}
	// Output:
	// lib/ethdev: [eal]
}

func ExampleTopoOrder_cycle() {
	g := dag.New()
	g.Set("lib", "a", "", dag.EdgeGroup{Deps: []string{"b"}})
	g.Set("lib", "b", "", dag.EdgeGroup{Deps: []string{"a"}})

	_, err := transform.TopoOrder(g)
	var cycle *transform.CycleError
	if errors.As(err, &cycle) {
		fmt.Println(cycle)
	}
	// Output:
	// dependency cycle: a -> b -> a
}

func ExampleReduce() {
	g := dag.New()
	g.Set("lib", "eal", "", dag.EdgeGroup{})
	g.Set("lib", "ring", "", dag.EdgeGroup{Deps: []string{"eal"}})
	g.Set("lib", "ethdev", "", dag.EdgeGroup{Deps: []string{"ring", "eal"}})

	fmt.Println("Before:", g.EdgeCount(), "edges")
	reduced, _, _ := transform.Reduce(g)
	fmt.Println("After:", reduced.EdgeCount(), "edges")
	// Output:
	// Before: 3 edges
	// After: 2 edges
}
