package graph

import (
	"strings"
)

// Resolve finds the member node identified by id.
//
// An exact match on a node's name or label wins; otherwise id is matched as a
// substring of the generated node ids. Resolution never guesses: zero
// matches, or several at either stage, yield a *ResolutionError.
func (g *Graph) Resolve(id string) (*Node, error) {
	var exact []*Node
	for _, n := range g.nodes {
		if n.name == id || n.Label() == id {
			exact = append(exact, n)
		}
	}
	if len(exact) > 0 {
		return single(id, exact)
	}

	var partial []*Node
	for _, n := range g.nodes {
		if strings.Contains(n.id, id) {
			partial = append(partial, n)
		}
	}
	return single(id, partial)
}

// ResolveNode returns n if it is a member of the graph.
func (g *Graph) ResolveNode(n *Node) (*Node, error) {
	if n != nil && g.Contains(n) {
		return n, nil
	}
	id := "<nil>"
	if n != nil {
		id = n.Label()
	}
	return nil, &ResolutionError{ID: id}
}

func (g *Graph) resolveAll(ids []string) ([]*Node, error) {
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		n, err := g.Resolve(id)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func single(id string, matches []*Node) (*Node, error) {
	if len(matches) == 1 {
		return matches[0], nil
	}
	labels := make([]string, len(matches))
	for i, m := range matches {
		labels[i] = m.Label()
	}
	return nil, &ResolutionError{ID: id, Matches: labels}
}
