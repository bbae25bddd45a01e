// LazyGraph - Lazily Evaluated Dataflow Graphs in Go
//
// LazyGraph builds computations as directed acyclic graphs of nodes. A node
// computes its value only when asked for it, pulls the values of its
// predecessors on demand and memoizes the result until something upstream
// changes. Graphs can be run with new input values, edited in place, profiled,
// traced and persisted.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/lazygraph
//
// Basic example:
//
//	package main
//
//	import (
//		"fmt"
//
//		"github.com/smallnest/lazygraph/graph"
//	)
//
//	func main() {
//		a := graph.NewVariable(graph.WithName("a"))
//		b := graph.NewVariable(graph.WithName("b"))
//		sum := graph.Must(graph.Plus(a, b, graph.WithName("sum")))
//		scaled := graph.Must(graph.Times(sum, graph.NewConstant(10)))
//
//		g := graph.New([]*graph.Node{a, b}, []*graph.Node{scaled})
//		out, _ := g.Run(1, 2)
//		fmt.Println(out) // 30
//	}
//
// # Key Features
//
//   - Lazy evaluation: nothing is computed until a value is requested
//   - Memoization: shared predecessors are evaluated once per run
//   - Editing: subgraph extraction, pruning, muting and parameter changes
//   - Benchmarking: per-node evaluation and self time, rendered as a profile
//   - Tracing: nested spans for runs and node evaluations, exported to OpenTelemetry
//   - Visualization: Mermaid, DOT, ASCII and Dagre exports
//   - Persistence: run snapshots in memory, files, SQLite, PostgreSQL or Redis
//
// # Package Structure
//
// graph/
// Nodes, graphs and everything that edits or observes them
//
//	x := graph.NewVariable(graph.WithName("x"))
//	pow := graph.Must(graph.NewFunc("Pow", 1, func(in []any, p graph.Params) (any, error) {
//		return math.Pow(in[0].(float64), p["alpha"].(float64)), nil
//	}, graph.Params{"alpha": 2.0}).Call(x))
//
//	g := graph.New([]*graph.Node{x}, []*graph.Node{pow})
//	_ = graph.PatchGraph(g, 0)
//	g.Run(3.0)
//	fmt.Println(g.Profile().Render())
//
// tuning/
// Batch evaluation and single parameter search
//
//	trials, _ := tuning.SingleSearch(g, batch, tuning.Param{Name: "alpha"},
//		tuning.ListSampler(alphas), score)
//	best, _ := tuning.Best(trials)
//
// store/
// Run snapshots and their persistence
//
// Options:
//   - memory: in-process map
//   - file: one JSON document per snapshot
//   - sqlite: lightweight, file-based storage
//   - postgres: scalable relational database
//   - redis: high-performance in-memory storage with optional TTL
//
// Example:
//
//	s, _ := open.Open(ctx, *cfg)
//	rec := store.NewRecorder(s, "pipeline")
//	out, snap, err := rec.Run(ctx, g, 3.0)
//
// telemetry/
// OpenTelemetry spans and metrics for graph runs
//
//	tracer, _ := telemetry.Install(g)
//
// config/ and log/
// Environment configuration and the package-level logger
//
// # Configuration
//
// The library supports configuration through environment variables:
//
//   - LAZYGRAPH_LOG_LEVEL: Logging level (debug, info, warn, error)
//   - LAZYGRAPH_BENCHMARK_CAPACITY: Default number of samples kept per benchmarked node
//   - LAZYGRAPH_STORE_BACKEND: Snapshot backend (memory, file, sqlite, redis, postgres)
//   - LAZYGRAPH_STORE_DSN: Directory, path, address or connection string of the backend
//   - LAZYGRAPH_STORE_TTL: Snapshot expiry for backends that support it
//
// # License
//
// This project is licensed under the MIT License - see the LICENSE file for details.
package lazygraph // import "github.com/smallnest/lazygraph"
