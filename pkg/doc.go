// Package pkg provides the core libraries for inspecting DPDK build
// dependency graphs.
//
// # Overview
//
// The build records, for every library, driver, app and example it
// configures, the components it links against. Each record is one line of
// a Graphviz digraph:
//
//	"net_ice" -> { "ethdev", "common_iavf" } [dpdk_componentType="drivers"]
//
// The pkg directory turns such a file into a typed graph and answers the
// questions a build maintainer asks of it: what does a component pull in,
// which declared dependencies are implied by others, and what does the
// whole thing look like.
//
// # Architecture
//
// The typical data flow:
//
//	deps.dot (line format, classified output, or JSON)
//	         ↓
//	    [io] package (decode lines into a graph)
//	         ↓
//	    [match] package (resolve a query to component names)
//	         ↓
//	    [dag/transform] package (closure filter, redundancy check)
//	         ↓
//	    [render/nodelink] package (classified DOT, SVG/PNG/PDF)
//
// # Quick Start
//
//	g, _ := io.ImportGraph("build/deps.dot")
//
//	// 1. Resolve a query
//	names, _ := match.Resolve(g, "net/ice")
//
//	// 2. Keep the query's dependency closure
//	sub := transform.Filter(g, names)
//
//	// 3. Emit classified DOT
//	fmt.Print(nodelink.ToDOT(sub))
//
// # Main Packages
//
// [dag] - The graph model: components grouped by type, each holding a
// required and an optional edge group.
//
// [io] - The line codec, whole-file readers and writers, JSON, and the
// append helper used by the build to log dependencies.
//
// [match] - Maps user queries such as "testpmd", "net/ice" or "lib" to
// component names.
//
// [dag/transform] - Closure filtering, topological ordering with cycle
// detection, and redundant dependency detection and removal.
//
// [render/nodelink] - Classified DOT output and Graphviz rendering.
//
// [render] - SVG to PDF/PNG conversion.
//
// [pipeline] - Load, select and render used by both the CLI and the HTTP
// service.
//
// [cache] - Render caches: file, in-memory LRU and null.
//
// [httputil] - Fetching graph files from http(s) URLs with retries.
//
// [observability] - Hook interfaces for logging and metrics.
//
// [errors] - Coded errors shared by all packages.
//
// [buildinfo] - Version information injected at link time.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/dag/...      # Specific package
//	go test -run Example ./... # Examples only
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/dag
// [io]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/io
// [match]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/match
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/dag/transform
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/depgraph/pkg/buildinfo
package pkg
