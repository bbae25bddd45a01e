package graph

import (
	"fmt"
	"slices"

	"github.com/smallnest/lazygraph/log"
)

type graphEvaluable struct {
	graph *Graph
}

func (e *graphEvaluable) Evaluate(inputs []any) (any, error) {
	return e.graph.Run(inputs...)
}

// NewGraphNode wraps g as a node. The node takes one operand per Variable
// input of g, in input order, and evaluates to the result of g.Run.
func NewGraphNode(g *Graph, opts ...NodeOption) *Node {
	return NewNode(VariantGraph, len(g.VariableInputs()), &graphEvaluable{graph: g}, opts...)
}

// Graph returns the wrapped graph of a node built by NewGraphNode, or nil.
func (n *Node) Graph() *Graph {
	if ge, ok := n.evaluable.(*graphEvaluable); ok {
		return ge.graph
	}
	return nil
}

// Subgraph builds a graph bounded by the nodes named in inputIDs and outputIDs,
// resolved as by Resolve. A nil slice keeps the corresponding boundary of g.
//
// Each selected input that has predecessors is replaced by a fresh Variable
// placeholder: every successor of the original is rewired to read from the
// placeholder at the same operand position. This edits the shared nodes, so
// g itself no longer feeds those successors afterwards.
func (g *Graph) Subgraph(inputIDs, outputIDs []string) (*Graph, error) {
	inputs, outputs := g.inputs, g.outputs
	var err error
	if inputIDs != nil {
		if inputs, err = g.resolveAll(inputIDs); err != nil {
			return nil, err
		}
	}
	if outputIDs != nil {
		if outputs, err = g.resolveAll(outputIDs); err != nil {
			return nil, err
		}
	}
	return SubgraphNodes(inputs, outputs)
}

// SubgraphNodes is Subgraph with the boundary given as nodes.
func SubgraphNodes(inputs, outputs []*Node) (*Graph, error) {
	inputs = dedupe(inputs)
	for _, in := range inputs {
		if in.FanIn() == 0 {
			continue
		}
		if slices.Contains(outputs, in) {
			return nil, fmt.Errorf("%w: %s is both an input with predecessors and an output", ErrUnsafeRewire, in.Label())
		}
		for _, succ := range in.successors {
			if !slices.Contains(succ.predecessors, in) {
				return nil, fmt.Errorf("%w: %s lists %s as successor but does not read from it",
					ErrUnsafeRewire, in.Label(), succ.Label())
			}
		}
	}

	spliced := make([]*Node, len(inputs))
	for i, in := range inputs {
		if in.FanIn() == 0 {
			spliced[i] = in
			continue
		}
		spliced[i] = splice(in)
	}
	return New(spliced, outputs), nil
}

// splice moves every successor of orig onto a new Variable placeholder and
// returns the placeholder.
func splice(orig *Node) *Node {
	placeholder := NewVariable(WithName(orig.name))
	for _, succ := range orig.successors {
		for i, p := range succ.predecessors {
			if p == orig {
				succ.predecessors[i] = placeholder
			}
		}
		placeholder.successors = append(placeholder.successors, succ)
		succ.Clear()
	}
	log.Debug("spliced %s into placeholder %s for %d successors", orig.Label(), placeholder.Label(), len(orig.successors))
	orig.successors = nil
	return placeholder
}
