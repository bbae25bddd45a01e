package graph

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/smallnest/lazygraph/log"
)

// Graph is a runnable view over the nodes connecting a set of inputs to a set
// of outputs. Membership is fixed at construction: structural edits such as
// Subgraph and Prune build a new Graph.
type Graph struct {
	mu sync.Mutex

	inputs      []*Node
	outputs     []*Node
	nodes       []*Node
	nodesByName map[string]*Node

	bench  *GraphBenchmark
	tracer *Tracer
}

// New builds a graph from its designated inputs and outputs. The node set is
// the inputs and outputs plus everything forward-reachable from the inputs and
// backward-reachable from the outputs. Every output should depend on some
// input; outputs that do not simply evaluate from their own sources.
func New(inputs, outputs []*Node) *Graph {
	g := &Graph{
		inputs:  dedupe(inputs),
		outputs: slices.Clone(outputs),
	}
	g.nodes = dedupe(slices.Concat(
		forwardReachable(g.inputs),
		backwardReachable(g.outputs),
		g.inputs,
		g.outputs,
	))
	g.nodesByName = make(map[string]*Node, len(g.nodes))
	for _, n := range g.nodes {
		g.nodesByName[n.Label()] = n
	}
	return g
}

// Inputs returns the designated entry nodes.
func (g *Graph) Inputs() []*Node { return slices.Clone(g.inputs) }

// Outputs returns the designated exit nodes.
func (g *Graph) Outputs() []*Node { return slices.Clone(g.outputs) }

// Nodes returns every member node in discovery order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// NodesByName maps each member's Label to the node.
func (g *Graph) NodesByName() map[string]*Node {
	m := make(map[string]*Node, len(g.nodesByName))
	for k, v := range g.nodesByName {
		m[k] = v
	}
	return m
}

// Contains reports whether n is a member of the graph.
func (g *Graph) Contains(n *Node) bool {
	return slices.Contains(g.nodes, n)
}

// VariableInputs returns the inputs that accept external values, in input order.
func (g *Graph) VariableInputs() []*Node {
	var vars []*Node
	for _, n := range g.inputs {
		if n.IsVariable() {
			vars = append(vars, n)
		}
	}
	return vars
}

// Clear clears every member node.
func (g *Graph) Clear() {
	for _, n := range g.nodes {
		n.Clear()
	}
}

// Run clears the graph, assigns values to the Variable inputs and returns the
// output values: the bare value for a single output, a []any otherwise.
//
// Values are matched to Variable inputs as follows:
//   - one value per Variable input, in order;
//   - with a single Variable input, several values are assigned to it as one []any;
//   - a single slice whose length equals the number of Variable inputs is unpacked.
//
// Anything else fails with ErrInputArity. Run(x) on a graph with one Variable
// input always assigns x itself, even when x is a slice.
func (g *Graph) Run(values ...any) (any, error) {
	return g.run(func(vars []*Node) error {
		return assignPositional(vars, values)
	})
}

// RunMap is Run with explicit assignments. Keys that are not Variable inputs
// of the graph, nil included, are ignored.
func (g *Graph) RunMap(values map[*Node]any) (any, error) {
	return g.run(func([]*Node) error {
		for n, v := range values {
			if n == nil || !n.IsVariable() || !slices.Contains(g.inputs, n) {
				continue
			}
			if err := n.SetValue(v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *Graph) run(assign func(vars []*Node) error) (result any, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tracer != nil {
		span := g.tracer.startGraph(g)
		defer func() { g.tracer.EndSpan(context.Background(), span, result, err) }()
	}

	start := time.Now()
	log.Debug("running graph: %d nodes, %d inputs, %d outputs", len(g.nodes), len(g.inputs), len(g.outputs))

	g.Clear()
	if err := assign(g.VariableInputs()); err != nil {
		return nil, err
	}

	results := make([]any, len(g.outputs))
	for i, out := range g.outputs {
		v, err := out.Value()
		if err != nil {
			return nil, err
		}
		results[i] = v
	}

	elapsed := time.Since(start)
	if g.bench != nil {
		g.bench.RunTimes.Push(elapsed)
	}
	log.Debug("graph run finished in %s", elapsed)

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

func assignPositional(vars []*Node, values []any) error {
	switch {
	case len(values) == len(vars):
		for i, v := range vars {
			if err := v.SetValue(values[i]); err != nil {
				return err
			}
		}
		return nil
	case len(vars) == 1 && len(values) > 1:
		return vars[0].SetValue(slices.Clone(values))
	case len(values) == 1:
		if unpacked, ok := unpack(values[0]); ok && len(unpacked) == len(vars) {
			return assignPositional(vars, unpacked)
		}
	}
	return fmt.Errorf("%w: got %d values for %d variable inputs", ErrInputArity, len(values), len(vars))
}

func unpack(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// forwardReachable walks successor edges from each start node and returns the
// nodes reached, in first-seen order. Start nodes are only included if
// reached from another start node.
func forwardReachable(from []*Node) []*Node {
	return walk(from, func(n *Node) []*Node { return n.successors })
}

// backwardReachable is forwardReachable along predecessor edges.
func backwardReachable(from []*Node) []*Node {
	return walk(from, func(n *Node) []*Node { return n.predecessors })
}

func walk(from []*Node, next func(*Node) []*Node) []*Node {
	var (
		order []*Node
		seen  = make(map[*Node]bool)
		stack []*Node
	)
	for _, start := range from {
		stack = append(stack, next(start)...)
		for len(stack) > 0 {
			n := stack[0]
			stack = stack[1:]
			if seen[n] {
				continue
			}
			seen[n] = true
			order = append(order, n)
			stack = append(stack, next(n)...)
		}
	}
	return order
}

func dedupe(nodes []*Node) []*Node {
	seen := make(map[*Node]bool, len(nodes))
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
