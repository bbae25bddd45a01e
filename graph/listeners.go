package graph

import (
	"reflect"

	"github.com/smallnest/lazygraph/log"
)

// NodeEvent represents different types of node events
type NodeEvent string

const (
	// NodeEventStart indicates a node is about to evaluate
	NodeEventStart NodeEvent = "start"

	// NodeEventComplete indicates a node has cached a new output
	NodeEventComplete NodeEvent = "complete"

	// NodeEventError indicates the evaluation of a node failed
	NodeEventError NodeEvent = "error"
)

// NodeListener observes the evaluations of a node. Cache hits are not reported.
type NodeListener interface {
	// OnNodeEvent is called synchronously on the evaluating goroutine.
	// value is set on NodeEventComplete and err on NodeEventError.
	OnNodeEvent(event NodeEvent, n *Node, value any, err error)
}

// NodeListenerFunc is a function adapter for NodeListener
type NodeListenerFunc func(event NodeEvent, n *Node, value any, err error)

// OnNodeEvent implements the NodeListener interface
func (f NodeListenerFunc) OnNodeEvent(event NodeEvent, n *Node, value any, err error) {
	f(event, n, value, err)
}

// AddListener registers l on the node.
func (n *Node) AddListener(l NodeListener) {
	n.listeners = append(n.listeners, l)
}

// RemoveListener unregisters l. Listeners are compared with ==, so l must be
// a comparable value such as a pointer; NodeListenerFunc values are never removed.
func (n *Node) RemoveListener(l NodeListener) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return
	}
	for i, existing := range n.listeners {
		if existing == l {
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
			return
		}
	}
}

func (n *Node) notify(event NodeEvent, value any, err error) {
	for _, l := range n.listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("listener panicked on %s %s: %v", n.Label(), event, r)
				}
			}()
			l.OnNodeEvent(event, n, value, err)
		}()
	}
}
