package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidName is returned by [Graph.Set] when the component name is
	// empty. All components must have non-empty identifiers.
	ErrInvalidName = errors.New("component name must not be empty")

	// ErrInvalidType is returned by [Graph.Set] when the component type is
	// empty. Every component belongs to exactly one type.
	ErrInvalidType = errors.New("component type must not be empty")
)

// EdgeGroup is the set of dependencies recorded for a component by one
// declaration. All dependencies in a group share the same optionality.
//
// Deps is a set: duplicates are dropped when the group is stored, and the
// first-seen order is kept so that output is deterministic. An empty Deps
// still records the group (a bare declaration).
type EdgeGroup struct {
	Optional bool
	Deps     []string
}

// Component is a named build unit (library, driver, app or example).
//
// A component holds at most one required and one optional [EdgeGroup].
// Groups appear in Groups in the order they were first declared.
type Component struct {
	Name        string // Unique identifier within its type
	Type        string // Category label, e.g. "lib" or "drivers"
	DisplayName string // Optional human-readable alias; see Label
	Groups      []EdgeGroup
}

// Label returns DisplayName if set, otherwise Name.
func (c *Component) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// Group returns the edge group with the given optionality and whether
// one was recorded.
func (c *Component) Group(optional bool) (EdgeGroup, bool) {
	for _, g := range c.Groups {
		if g.Optional == optional {
			return g, true
		}
	}
	return EdgeGroup{}, false
}

// Required returns the required dependencies, or nil if none were recorded.
func (c *Component) Required() []string {
	g, _ := c.Group(false)
	return g.Deps
}

// Optional returns the optional dependencies, or nil if none were recorded.
func (c *Component) Optional() []string {
	g, _ := c.Group(true)
	return g.Deps
}

// Deps returns the union of required and optional dependencies, in group
// order, without duplicates.
func (c *Component) Deps() []string {
	var deps []string
	seen := make(map[string]struct{})
	for _, g := range c.Groups {
		for _, d := range g.Deps {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			deps = append(deps, d)
		}
	}
	return deps
}

// setGroup stores g, replacing any group with the same optionality.
func (c *Component) setGroup(g EdgeGroup) {
	g.Deps = dedupe(g.Deps)
	for i := range c.Groups {
		if c.Groups[i].Optional == g.Optional {
			c.Groups[i] = g
			return
		}
	}
	c.Groups = append(c.Groups, g)
}

func (c *Component) clone() *Component {
	out := *c
	out.Groups = make([]EdgeGroup, len(c.Groups))
	for i, g := range c.Groups {
		out.Groups[i] = EdgeGroup{Optional: g.Optional, Deps: slices.Clone(g.Deps)}
	}
	return &out
}

// key identifies a component by (type, name).
type key struct {
	typ  string
	name string
}

// Graph is a build dependency graph whose components are grouped by type.
//
// Types, and components within a type, are kept in insertion order so that
// serialization is reproducible for a given input. A dependency may name a
// component that was never declared; such references are kept as-is and
// reported by [Graph.Missing].
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent mutation; concurrent readers are fine.
type Graph struct {
	types      []string
	names      map[string][]string // type -> component names in insertion order
	components map[key]*Component
	order      []key // global declaration order
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		names:      make(map[string][]string),
		components: make(map[key]*Component),
	}
}

// Set records an edge group for the component (typ, name), creating the
// component on first use. A group with the same optionality that was
// recorded earlier is overwritten, not merged. A non-empty displayName
// replaces the stored one.
//
// Returns ErrInvalidName or ErrInvalidType when either identifier is empty.
func (g *Graph) Set(typ, name, displayName string, group EdgeGroup) (*Component, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if typ == "" {
		return nil, ErrInvalidType
	}
	k := key{typ, name}
	c, ok := g.components[k]
	if !ok {
		if _, known := g.names[typ]; !known {
			g.types = append(g.types, typ)
		}
		c = &Component{Name: name, Type: typ}
		g.components[k] = c
		g.names[typ] = append(g.names[typ], name)
		g.order = append(g.order, k)
	}
	if displayName != "" {
		c.DisplayName = displayName
	}
	c.setGroup(group)
	return c, nil
}

// Types returns the component types in insertion order.
func (g *Graph) Types() []string { return slices.Clone(g.types) }

// HasType reports whether at least one component of the given type exists.
func (g *Graph) HasType(typ string) bool {
	_, ok := g.names[typ]
	return ok
}

// Names returns the names of all components of the given type, in
// insertion order. Returns nil for an unknown type.
func (g *Graph) Names(typ string) []string { return slices.Clone(g.names[typ]) }

// Components returns the components of the given type in insertion order.
// The returned pointers refer to the graph's own components.
func (g *Graph) Components(typ string) []*Component {
	names := g.names[typ]
	out := make([]*Component, 0, len(names))
	for _, n := range names {
		out = append(out, g.components[key{typ, n}])
	}
	return out
}

// All returns every component in global declaration order.
func (g *Graph) All() []*Component {
	out := make([]*Component, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, g.components[k])
	}
	return out
}

// Component returns the component (typ, name) and true, or nil and false.
func (g *Graph) Component(typ, name string) (*Component, bool) {
	c, ok := g.components[key{typ, name}]
	return c, ok
}

// Lookup returns every component called name, across all types, in type
// insertion order. Returns nil if the name is not declared.
func (g *Graph) Lookup(name string) []*Component {
	var out []*Component
	for _, t := range g.types {
		if c, ok := g.components[key{t, name}]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether a component called name exists in any type.
func (g *Graph) Has(name string) bool {
	for _, t := range g.types {
		if _, ok := g.components[key{t, name}]; ok {
			return true
		}
	}
	return false
}

// Deps returns the union of the dependencies recorded for name under every
// type it is declared in. Returns nil for an undeclared name.
func (g *Graph) Deps(name string) []string {
	comps := g.Lookup(name)
	switch len(comps) {
	case 0:
		return nil
	case 1:
		return comps[0].Deps()
	}
	var deps []string
	for _, c := range comps {
		deps = append(deps, c.Deps()...)
	}
	return dedupe(deps)
}

// ComponentCount returns the number of components in the graph.
func (g *Graph) ComponentCount() int { return len(g.components) }

// EdgeCount returns the number of dependency edges across all groups.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, c := range g.components {
		for _, grp := range c.Groups {
			n += len(grp.Deps)
		}
	}
	return n
}

// Missing returns, for each component that references undeclared
// dependencies, the list of those names. The map is empty for a fully
// resolvable graph.
func (g *Graph) Missing() map[string][]string {
	out := make(map[string][]string)
	for _, c := range g.All() {
		for _, d := range c.Deps() {
			if !g.Has(d) {
				out[c.Name] = append(out[c.Name], d)
			}
		}
	}
	return out
}

// Subgraph returns a new graph containing copies of the components for
// which keep returns true. Insertion order and edge groups are preserved;
// edges are not pruned even if their targets are dropped.
func (g *Graph) Subgraph(keep func(*Component) bool) *Graph {
	out := New()
	for _, k := range g.order {
		c := g.components[k]
		if !keep(c) {
			continue
		}
		out.components[k] = c.clone()
		out.names[k.typ] = append(out.names[k.typ], k.name)
		out.order = append(out.order, k)
	}
	out.types = slices.DeleteFunc(g.Types(), func(t string) bool {
		_, ok := out.names[t]
		return !ok
	})
	return out
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	return g.Subgraph(func(*Component) bool { return true })
}

func dedupe(names []string) []string {
	if names == nil {
		return []string{}
	}
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
