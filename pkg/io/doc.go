// Package io reads and writes build dependency graphs.
//
// # Graph Format
//
// The native format is a line-oriented Graphviz digraph that a build
// appends to one component at a time:
//
//	digraph {
//	"eal" [dpdk_componentType="lib"]
//	"mempool" -> { "eal", "ring" } [dpdk_componentType="lib"]
//	"net_ice" -> { "bus_pci" } [dpdk_componentType="drivers",style="dotted",dpdk_displayName="ice"]
//	}
//
// Every interior line is one record: a quoted component name, an optional
// `-> { ... }` dependency list, and a bracketed attribute list. The
// attributes understood are:
//
//   - dpdk_componentType: the component type (required)
//   - style: a value containing "dotted" marks the dependencies as optional
//   - dpdk_displayName: a human-readable alias (optional)
//
// [DecodeLine] and [EncodeLine] convert single records; [ReadGraph] and
// [WriteGraph] convert whole files. [Append] and [Reset] implement the
// build-time appender that keeps the file valid after every step.
//
// # JSON Format
//
// [WriteJSON] and [ReadJSON] provide an alternative JSON encoding of the
// same model for tools that prefer structured input.
//
// # Errors
//
// Malformed records are reported as [*LineError], which carries the line
// number and the code [errors.ErrCodeMalformedLine]:
//
//	g, err := io.ReadGraph(f)
//	var le *io.LineError
//	if errors.As(err, &le) {
//	    fmt.Println("bad line", le.Line)
//	}
//
// [errors.ErrCodeMalformedLine]: github.com/matzehuels/depgraph/pkg/errors
package io
