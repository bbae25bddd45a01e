// Package graph provides a lazily evaluated, memoizing dataflow graph.
//
// A Node is one computation step. Nodes are wired by calling them with their
// operands; a node computes only when its value is read and caches the
// result until it is cleared. Clearing a node clears everything downstream,
// so consumers never see results derived from stale inputs.
//
// A Graph is a view over the nodes connecting a set of inputs to a set of
// outputs. Running a graph clears it, assigns values to its Variable inputs
// and reads its outputs.
//
// # Core Concepts
//
// ## Nodes
// Built-in variants are Constant, Variable, Identity, BinOp and GraphNode.
// User computations implement Evaluable, or use NewFunc for parameterized
// functions that can be tuned between runs. Each node gets an id of the form
// "<Variant>_<n>" from DefaultRegistry. Evaluables backed by flaky or slow
// collaborators can be wrapped with Retry or Timeout.
//
// ## Editing
// Subgraph extracts a graph bounded by internal nodes, splicing Variable
// placeholders where a boundary input had predecessors. Prune detaches dead
// branches and unused inputs. Mute replaces a node's computation without
// touching its wiring. These edits change the shared nodes in place.
//
// ## Observability
// PatchGraph records eval and self times per node in bounded rings, and
// Profile summarizes them. A Tracer records a span per run and per
// evaluation and forwards them to TraceHooks. Exporter draws the wiring as
// Mermaid, DOT, ASCII or dagre data.
//
// # Example Usage
//
//	a := graph.NewVariable(graph.WithName("a"))
//	b := graph.NewVariable(graph.WithName("b"))
//	sum := graph.Must(graph.Plus(a, b, graph.WithName("sum")))
//
//	g := graph.New([]*graph.Node{a, b}, []*graph.Node{sum})
//	out, err := g.Run(1, 2) // 3
//
// # Concurrency
//
// Evaluation is synchronous and single threaded. Run holds a per-graph lock,
// but nodes themselves are unsynchronized: graphs sharing nodes must not be
// run concurrently. Clone gives each goroutine its own copy.
package graph
