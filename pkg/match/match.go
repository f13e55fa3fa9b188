package match

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/depgraph/pkg/dag"
	"github.com/matzehuels/depgraph/pkg/errors"
)

// Default naming conventions of the build.
const (
	DefaultAppPrefix  = "dpdk-"
	DefaultDriverType = "drivers"
)

// DefaultAppTypes are the categories whose components carry the app prefix.
var DefaultAppTypes = []string{"app", "examples"}

// Options describes the naming conventions the resolver relies on.
// The zero value is not usable; start from [DefaultOptions].
type Options struct {
	// AppPrefix is prepended to bare names when probing AppTypes.
	AppPrefix string
	// AppTypes lists the categories whose component names carry AppPrefix,
	// in probing order.
	AppTypes []string
	// DriverType is the category holding "class_name" driver components.
	DriverType string
}

// DefaultOptions returns the conventions used by the build system.
func DefaultOptions() Options {
	return Options{
		AppPrefix:  DefaultAppPrefix,
		AppTypes:   slices.Clone(DefaultAppTypes),
		DriverType: DefaultDriverType,
	}
}

// UnknownComponentError is returned when a query matches no component.
type UnknownComponentError struct {
	Query  string
	Reason string // optional detail, e.g. an ambiguous driver name
}

// Error implements the error interface.
func (e *UnknownComponentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unknown component: %s (%s)", e.Query, e.Reason)
	}
	return "unknown component: " + e.Query
}

// Code returns [errors.ErrCodeUnknownComponent].
func (e *UnknownComponentError) Code() errors.Code { return errors.ErrCodeUnknownComponent }

// Query is a parsed resolver input.
type Query struct {
	Raw      string
	Segments []string // 1 to 3 elements; the last keeps any further '/'
}

// ParseQuery splits q on '/' into at most three segments, so a query such
// as "drivers/net/ice" becomes category, driver class and leaf name.
func ParseQuery(q string) Query {
	return Query{Raw: q, Segments: strings.SplitN(q, "/", 3)}
}

// Matcher is one resolution rule. It returns the matching component names,
// or nil when the rule does not apply. A non-nil error stops resolution.
type Matcher struct {
	Name  string
	Match func(g *dag.Graph, q Query) ([]string, error)
}

// Resolver maps queries to component names by trying an ordered chain of
// matchers per query shape. The first matcher returning a non-empty
// result wins.
//
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	opts   Options
	chains map[int][]Matcher // segment count -> matchers
}

// New creates a Resolver with the given conventions.
func New(opts Options) *Resolver {
	r := &Resolver{opts: opts}
	r.chains = map[int][]Matcher{
		1: {
			{"category", r.matchCategory},
			{"app-name", r.matchAppName},
			{"component", r.matchComponent},
			{"unique-driver", r.matchUniqueDriver},
		},
		2: {
			{"driver", r.matchDriver},
			{"driver-class", r.matchDriverClass},
			{"category-component", r.matchCategoryComponent},
			{"category-app", r.matchCategoryApp},
		},
		3: {
			{"qualified-driver", r.matchQualifiedDriver},
		},
	}
	return r
}

// Options returns the conventions the resolver was created with.
func (r *Resolver) Options() Options { return r.opts }

// Matchers returns the rule chain used for queries with the given number
// of segments.
func (r *Resolver) Matchers(segments int) []Matcher {
	return slices.Clone(r.chains[segments])
}

// Resolve maps query to one or more component names in g.
//
// A plain query is tried, in order, as a category (all its components),
// an app or example name with the app prefix, a component name in any
// category, and finally a driver leaf name that must be unique across
// driver classes. "class/name" and "category/name" forms, and the fully
// qualified "category/class/name" driver form, are also accepted.
//
// Resolve never returns an empty result: when nothing matches, it returns
// an [*UnknownComponentError]. Resolve does not modify g.
func (r *Resolver) Resolve(g *dag.Graph, query string) ([]string, error) {
	q := ParseQuery(query)
	if query == "" {
		return nil, &UnknownComponentError{Query: query, Reason: "empty query"}
	}
	for _, m := range r.chains[len(q.Segments)] {
		names, err := m.Match(g, q)
		if err != nil {
			return nil, err
		}
		if len(names) > 0 {
			return names, nil
		}
	}
	return nil, &UnknownComponentError{Query: query}
}

// Resolve resolves query against g using [DefaultOptions].
func Resolve(g *dag.Graph, query string) ([]string, error) {
	return defaultResolver.Resolve(g, query)
}

var defaultResolver = New(DefaultOptions())

// =============================================================================
// Plain queries
// =============================================================================

func (r *Resolver) matchCategory(g *dag.Graph, q Query) ([]string, error) {
	return g.Names(q.Raw), nil
}

func (r *Resolver) matchAppName(g *dag.Graph, q Query) ([]string, error) {
	name := r.opts.AppPrefix + q.Raw
	for _, t := range r.opts.AppTypes {
		if _, ok := g.Component(t, name); ok {
			return []string{name}, nil
		}
	}
	return nil, nil
}

func (r *Resolver) matchComponent(g *dag.Graph, q Query) ([]string, error) {
	if g.Has(q.Raw) {
		return []string{q.Raw}, nil
	}
	return nil, nil
}

func (r *Resolver) matchUniqueDriver(g *dag.Graph, q Query) ([]string, error) {
	var found []string
	for _, name := range g.Names(r.opts.DriverType) {
		if _, leaf, ok := strings.Cut(name, "_"); ok && leaf == q.Raw {
			found = append(found, name)
		}
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found, nil
	}
	return nil, &UnknownComponentError{
		Query:  q.Raw,
		Reason: "ambiguous driver name, matches " + strings.Join(found, ", "),
	}
}

// =============================================================================
// Two segments: class/name or category/name
// =============================================================================

func (r *Resolver) matchDriver(g *dag.Graph, q Query) ([]string, error) {
	name := q.Segments[0] + "_" + q.Segments[1]
	if _, ok := g.Component(r.opts.DriverType, name); ok {
		return []string{name}, nil
	}
	return nil, nil
}

func (r *Resolver) matchDriverClass(g *dag.Graph, q Query) ([]string, error) {
	if q.Segments[0] != r.opts.DriverType {
		return nil, nil
	}
	prefix := q.Segments[1] + "_"
	var found []string
	for _, name := range g.Names(r.opts.DriverType) {
		if strings.HasPrefix(name, prefix) {
			found = append(found, name)
		}
	}
	return found, nil
}

func (r *Resolver) matchCategoryComponent(g *dag.Graph, q Query) ([]string, error) {
	if _, ok := g.Component(q.Segments[0], q.Segments[1]); ok {
		return []string{q.Segments[1]}, nil
	}
	return nil, nil
}

func (r *Resolver) matchCategoryApp(g *dag.Graph, q Query) ([]string, error) {
	if !slices.Contains(r.opts.AppTypes, q.Segments[0]) {
		return nil, nil
	}
	name := r.opts.AppPrefix + q.Segments[1]
	if _, ok := g.Component(q.Segments[0], name); ok {
		return []string{name}, nil
	}
	return nil, nil
}

// =============================================================================
// Three segments: category/class/name
// =============================================================================

func (r *Resolver) matchQualifiedDriver(g *dag.Graph, q Query) ([]string, error) {
	category := q.Segments[0]
	name := q.Segments[1] + "_" + q.Segments[2]
	if !g.HasType(category) {
		return nil, &UnknownComponentError{Query: q.Raw, Reason: "unknown category " + category}
	}
	if _, ok := g.Component(category, name); !ok {
		return nil, &UnknownComponentError{Query: q.Raw}
	}
	return []string{name}, nil
}
