package graph

// Cloner is implemented by evaluables carrying mutable state that copies of
// a graph must not share. Evaluables that do not implement it are shared.
type Cloner interface {
	CloneEvaluable() Evaluable
}

func (e *graphEvaluable) CloneEvaluable() Evaluable {
	return &graphEvaluable{graph: e.graph.Clone()}
}

// Clone deep-copies the graph. Every member node, and every predecessor a
// member reads from, is copied with a fresh id, its wiring, cached output,
// mute override and assigned Variable value. Benchmarks, listeners and the
// tracer are not copied.
func (g *Graph) Clone() *Graph {
	copies := make(map[*Node]*Node)
	var clone func(n *Node) *Node
	clone = func(n *Node) *Node {
		if c, ok := copies[n]; ok {
			return c
		}
		ev := n.evaluable
		if cl, ok := ev.(Cloner); ok {
			ev = cl.CloneEvaluable()
		}
		c := &Node{
			id:        DefaultRegistry.Next(n.variant),
			variant:   n.variant,
			name:      n.name,
			arity:     n.arity,
			evaluable: ev,
			override:  n.override,
			muted:     n.muted,
			output:    n.output,
			evaluated: n.evaluated,
		}
		copies[n] = c
		for _, p := range n.predecessors {
			c.predecessors = append(c.predecessors, clone(p))
		}
		return c
	}
	for _, n := range g.nodes {
		clone(n)
	}

	for orig, c := range copies {
		for _, succ := range orig.successors {
			if sc, ok := copies[succ]; ok {
				c.successors = append(c.successors, sc)
			}
		}
	}

	mapped := func(nodes []*Node) []*Node {
		out := make([]*Node, len(nodes))
		for i, n := range nodes {
			out[i] = copies[n]
		}
		return out
	}
	return New(mapped(g.inputs), mapped(g.outputs))
}
