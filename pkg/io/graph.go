package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/depgraph/pkg/dag"
)

// ReadGraph decodes a graph file from r.
//
// Lines are processed in order. Structural lines (see [IsStructural]) are
// skipped; every other line must decode with [DecodeLine]. Each record is
// stored with [dag.Graph.Set], so a later record for the same (type,
// component, optionality) overwrites an earlier one.
//
// Inside a `subgraph cluster_N { label = "<type>" ... }` block, as written
// by the classified renderer, records without a type attribute take the
// cluster label as their type.
//
// ReadGraph stops at the first malformed line and returns a [*LineError]
// carrying its 1-based line number. ReadGraph does not close r.
func ReadGraph(r io.Reader) (*dag.Graph, error) {
	g := dag.New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		lineNo  int
		depth   int    // open braces
		cluster int    // depth of the innermost cluster, 0 if none
		label   string // type label of the innermost cluster
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		switch {
		case strings.HasPrefix(line, "subgraph") && strings.HasSuffix(line, "{"):
			depth++
			cluster, label = depth, ""
			continue
		case strings.HasSuffix(line, "{") && strings.HasPrefix(line, "digraph"):
			depth++
			continue
		case line == "}":
			if depth == cluster {
				cluster, label = 0, ""
			}
			depth--
			continue
		}
		if v, ok := graphSetting(line); ok {
			if cluster > 0 && strings.HasPrefix(line, "label") {
				label = v
			}
			continue
		}
		if IsStructural(line) {
			continue
		}

		rec, err := decodeLine(line, label)
		if err != nil {
			if le, ok := err.(*LineError); ok {
				le.Line = lineNo
			}
			return nil, err
		}
		if _, err := g.Set(rec.Type, rec.Name, rec.DisplayName, rec.Group()); err != nil {
			return nil, &LineError{Line: lineNo, Text: line, Reason: err.Error()}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return g, nil
}

// Load decodes a graph from already split lines. It behaves like
// [ReadGraph].
func Load(lines []string) (*dag.Graph, error) {
	return ReadGraph(strings.NewReader(strings.Join(lines, "\n")))
}

// ImportGraph reads the graph file at path.
// The error wraps the underlying cause with the file path for context.
func ImportGraph(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadGraph(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Records returns the graph's edge groups as records, in declaration
// order: components in global order, groups in the order they were first
// recorded.
func Records(g *dag.Graph) []Record {
	var out []Record
	for _, c := range g.All() {
		for _, grp := range c.Groups {
			out = append(out, Record{
				Name:        c.Name,
				Type:        c.Type,
				DisplayName: c.DisplayName,
				Optional:    grp.Optional,
				Deps:        grp.Deps,
			})
		}
	}
	return out
}

// WriteGraph encodes g in the raw graph format:
//
//	digraph {
//	"eal" [dpdk_componentType="lib"]
//	"mempool" -> { "eal" } [dpdk_componentType="lib"]
//	}
//
// All attributes are preserved, so ReadGraph(WriteGraph(g)) yields a graph
// equivalent to g.
func WriteGraph(g *dag.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(emptyGraph[0])
	for _, r := range Records(g) {
		bw.WriteString(EncodeLine(r))
		bw.WriteByte('\n')
	}
	bw.WriteString(emptyGraph[1])
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportGraph writes g to path in the raw graph format.
// This is a convenience wrapper around [WriteGraph] for file-based output.
func ExportGraph(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
