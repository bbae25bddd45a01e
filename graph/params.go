package graph

import (
	"fmt"
	"slices"
)

// Tunable is implemented by evaluables with named parameters that can be
// changed between runs, such as those built by NewFunc.
type Tunable interface {
	Params() []string
	SetParam(name string, v any) error
}

// Params lists the tunable parameters of the node, sorted. It is empty for
// nodes whose evaluable is not Tunable.
func (n *Node) Params() []string {
	if t, ok := n.evaluable.(Tunable); ok {
		return t.Params()
	}
	return nil
}

// SetParam changes a parameter and clears the node so the new value takes effect.
func (n *Node) SetParam(name string, v any) error {
	t, ok := n.evaluable.(Tunable)
	if !ok {
		return fmt.Errorf("%w: %s has no parameters", ErrUnknownParam, n.Label())
	}
	if err := t.SetParam(name, v); err != nil {
		return fmt.Errorf("%s: %w", n.Label(), err)
	}
	n.Clear()
	return nil
}

// SetParam resolves nodeID and sets its parameter.
func (g *Graph) SetParam(nodeID, param string, v any) error {
	n, err := g.Resolve(nodeID)
	if err != nil {
		return err
	}
	return n.SetParam(param, v)
}

// SetParamAuto sets param on the only member node exposing it. Zero or
// several candidates yield a *ResolutionError.
func (g *Graph) SetParamAuto(param string, v any) error {
	var candidates []*Node
	for _, n := range g.nodes {
		if slices.Contains(n.Params(), param) {
			candidates = append(candidates, n)
		}
	}
	n, err := single(param, candidates)
	if err != nil {
		return err
	}
	return n.SetParam(param, v)
}
