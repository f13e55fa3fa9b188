package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/depgraph/pkg/dag"
)

type jsonGraph struct {
	Components []jsonComponent `json:"components"`
}

type jsonComponent struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	DisplayName string      `json:"display_name,omitempty"`
	Groups      []jsonGroup `json:"groups"`
}

type jsonGroup struct {
	Optional bool     `json:"optional,omitempty"`
	Deps     []string `json:"deps"`
}

// WriteJSON encodes g as JSON and writes it to w.
//
// Components are listed in declaration order with their edge groups:
//
//	{
//	  "components": [
//	    {"name": "eal", "type": "lib", "groups": [{"deps": []}]},
//	    {"name": "net_ice", "type": "drivers", "groups": [
//	      {"deps": ["eal"]},
//	      {"optional": true, "deps": ["mempool"]}
//	    ]}
//	  ]
//	}
//
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *dag.Graph, w io.Writer) error {
	out := jsonGraph{Components: make([]jsonComponent, 0, g.ComponentCount())}
	for _, c := range g.All() {
		jc := jsonComponent{
			Name:        c.Name,
			Type:        c.Type,
			DisplayName: c.DisplayName,
			Groups:      make([]jsonGroup, len(c.Groups)),
		}
		for i, grp := range c.Groups {
			jc.Groups[i] = jsonGroup{Optional: grp.Optional, Deps: grp.Deps}
		}
		out.Components = append(out.Components, jc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a graph written by [WriteJSON].
//
// ReadJSON returns an error if the JSON is malformed or a component lacks
// a name or type. Errors name the offending component.
func ReadJSON(r io.Reader) (*dag.Graph, error) {
	var data jsonGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New()
	for i, c := range data.Components {
		groups := c.Groups
		if len(groups) == 0 {
			groups = []jsonGroup{{}}
		}
		for _, grp := range groups {
			if _, err := g.Set(c.Type, c.Name, c.DisplayName, dag.EdgeGroup{Optional: grp.Optional, Deps: grp.Deps}); err != nil {
				return nil, fmt.Errorf("component %d (%q): %w", i, c.Name, err)
			}
		}
	}
	return g, nil
}
