package graph

import (
	"slices"

	"github.com/smallnest/lazygraph/log"
)

// Prune returns a graph over the inputs of g that can reach an output, after
// detaching dead-end branches: every node reachable from the inputs that is
// not an output and feeds nothing is removed from the successor lists of its
// predecessors.
//
// The detach edits the shared nodes; g keeps its membership but its dead
// branches no longer receive clears from upstream.
func Prune(g *Graph) *Graph {
	upstream := backwardReachable(g.outputs)
	var required []*Node
	for _, in := range g.inputs {
		if slices.Contains(upstream, in) || slices.Contains(g.outputs, in) {
			required = append(required, in)
		}
	}

	for _, n := range forwardReachable(g.inputs) {
		if n.FanOut() > 0 || slices.Contains(g.outputs, n) {
			continue
		}
		for _, p := range n.predecessors {
			p.successors = removeNode(p.successors, n)
		}
		log.Debug("pruned dangling node %s", n.Label())
	}

	if dropped := len(g.inputs) - len(required); dropped > 0 {
		log.Debug("pruned %d unused inputs", dropped)
	}
	return New(required, g.outputs)
}
