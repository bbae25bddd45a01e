package graph

import (
	"fmt"

	"github.com/smallnest/lazygraph/log"
)

// Mute replaces the node's computation without touching its wiring.
//
// A source node has nothing to override and is left as is, even when an
// override is given. Otherwise the override receives the predecessor values in
// place of the node's own computation, whatever the arity. Without one, a node
// with a single predecessor passes that value through and any other node fails
// with ErrMuteAmbiguous.
func (n *Node) Mute(override EvalFunc) error {
	if len(n.predecessors) == 0 {
		return nil
	}
	if override == nil {
		if len(n.predecessors) > 1 {
			return fmt.Errorf("%w: %s has %d predecessors", ErrMuteAmbiguous, n.Label(), len(n.predecessors))
		}
		override = passThrough
	}

	n.override = override
	n.muted = true
	n.Clear()
	log.Debug("muted %s", n.Label())
	return nil
}

// Unmute restores the node's own computation.
func (n *Node) Unmute() {
	if !n.muted {
		return
	}
	n.override = nil
	n.muted = false
	n.Clear()
}

// Muted reports whether an override is installed.
func (n *Node) Muted() bool { return n.muted }

// Mute resolves id and mutes the node.
func (g *Graph) Mute(id string, override EvalFunc) error {
	n, err := g.Resolve(id)
	if err != nil {
		return err
	}
	return n.Mute(override)
}

// Unmute resolves id and unmutes the node.
func (g *Graph) Unmute(id string) error {
	n, err := g.Resolve(id)
	if err != nil {
		return err
	}
	n.Unmute()
	return nil
}
