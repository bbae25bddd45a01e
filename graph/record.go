package graph

// NodeRecord is the externally visible state of a node.
type NodeRecord struct {
	ID           string
	Name         string
	Label        string
	Variant      string
	Evaluated    bool
	Muted        bool
	Value        any
	Predecessors []string
}

// Record captures the node's state without evaluating it. Value is the
// cached output, or nil if the node is unevaluated.
func (n *Node) Record() NodeRecord {
	r := NodeRecord{
		ID:        n.id,
		Name:      n.name,
		Label:     n.Label(),
		Variant:   n.variant,
		Evaluated: n.evaluated,
		Muted:     n.muted,
	}
	if n.evaluated {
		r.Value = n.output
	}
	for _, p := range n.predecessors {
		r.Predecessors = append(r.Predecessors, p.id)
	}
	return r
}

// Records captures every member node in discovery order.
func (g *Graph) Records() []NodeRecord {
	out := make([]NodeRecord, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.Record()
	}
	return out
}
