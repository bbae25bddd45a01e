package graph

import (
	"errors"
	"fmt"
	"slices"
)

// Variadic marks a node that accepts any number of operands.
const Variadic = -1

// Evaluable is the computation a node performs. Inputs are the values of the
// node's predecessors, in the order they were bound by Call.
//
// Implementations must read nothing but their inputs. Subgraph rewiring and
// self-time attribution both assume the predecessor list is the node's
// complete set of data dependencies.
type Evaluable interface {
	Evaluate(inputs []any) (any, error)
}

// EvalFunc adapts a plain function to Evaluable. It is also the type of the
// override installed by Mute.
type EvalFunc func(inputs []any) (any, error)

// Evaluate calls f.
func (f EvalFunc) Evaluate(inputs []any) (any, error) {
	return f(inputs)
}

// ErrCycle is returned when a node is reached again while it is still being evaluated.
var ErrCycle = errors.New("cycle detected during evaluation")

// Node is one cacheable computation step.
//
// A node caches its output after the first Value call and keeps returning it
// until Clear is called. Clearing cascades to every successor, so downstream
// consumers never observe results derived from stale inputs.
//
// Nodes are not safe for concurrent use. Graph.Run serializes runs of a single
// graph; graphs that share nodes must not be run concurrently.
type Node struct {
	id      string
	variant string
	name    string
	arity   int

	evaluable Evaluable
	override  EvalFunc
	muted     bool

	output     any
	evaluated  bool
	evaluating bool

	predecessors []*Node
	successors   []*Node

	bench     *Benchmark
	listeners []NodeListener
}

// NodeOption configures a node at construction.
type NodeOption func(*Node)

// WithName sets the display name of a node. Names need not be unique.
func WithName(name string) NodeOption {
	return func(n *Node) {
		n.name = name
	}
}

// NewNode creates a node of the given variant. arity is the fixed number of
// operands Call accepts: 0 makes the node an uncallable source and Variadic
// lifts the check.
func NewNode(variant string, arity int, ev Evaluable, opts ...NodeOption) *Node {
	n := &Node{
		id:        DefaultRegistry.Next(variant),
		variant:   variant,
		arity:     arity,
		evaluable: ev,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ID returns the unique identifier of the node.
func (n *Node) ID() string { return n.id }

// Name returns the user-assigned display name, possibly empty.
func (n *Node) Name() string { return n.name }

// SetName changes the display name.
func (n *Node) SetName(name string) { n.name = name }

// Variant returns the kind of node, e.g. "Constant" or "BinOp".
func (n *Node) Variant() string { return n.variant }

// Arity returns the number of operands Call accepts, or Variadic.
func (n *Node) Arity() int { return n.arity }

// Evaluable returns the computation bound at construction.
func (n *Node) Evaluable() Evaluable { return n.evaluable }

// Label returns the display identifier: "name-(id)" when a name is set, the id otherwise.
func (n *Node) Label() string {
	if n.name == "" {
		return n.id
	}
	return fmt.Sprintf("%s-(%s)", n.name, n.id)
}

func (n *Node) String() string { return n.id }

// Describe renders the label and the cached value without evaluating.
func (n *Node) Describe() string {
	if !n.evaluated {
		return fmt.Sprintf("<%s: unevaluated>", n.Label())
	}
	return fmt.Sprintf("<%s: %#v>", n.Label(), n.output)
}

// Equal reports whether both nodes carry the same id.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.id == other.id
}

// Evaluated reports whether the node holds a cached output.
func (n *Node) Evaluated() bool { return n.evaluated }

// Predecessors returns the operands of the node in binding order.
func (n *Node) Predecessors() []*Node { return slices.Clone(n.predecessors) }

// Successors returns the nodes consuming this node's output.
func (n *Node) Successors() []*Node { return slices.Clone(n.successors) }

// FanIn returns the number of predecessors.
func (n *Node) FanIn() int { return len(n.predecessors) }

// FanOut returns the number of successors.
func (n *Node) FanOut() int { return len(n.successors) }

// Call binds ops as the node's predecessors and returns the node, so that
// construction and wiring can be chained. Each operand gains the node as a
// successor. Calling again replaces the previous operands.
func (n *Node) Call(ops ...*Node) (*Node, error) {
	switch {
	case n.arity == 0:
		return nil, fmt.Errorf("%w: %s", ErrUncallableNode, n.Label())
	case n.arity != Variadic && len(ops) != n.arity:
		return nil, fmt.Errorf("%w: %s expects %d operands, got %d", ErrArity, n.Label(), n.arity, len(ops))
	}
	for i, op := range ops {
		if op == nil {
			return nil, fmt.Errorf("%w: operand %d of %s is nil", ErrArity, i, n.Label())
		}
	}

	n.registerPredecessors(ops)
	n.Clear()
	return n, nil
}

// Must panics if err is non-nil and returns n otherwise. It is meant for
// wiring code where an arity error is a programming mistake.
func Must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

func (n *Node) registerPredecessors(preds []*Node) {
	for _, old := range n.predecessors {
		if !slices.Contains(preds, old) {
			old.successors = removeNode(old.successors, n)
		}
	}

	n.predecessors = slices.Clone(preds)
	for _, p := range preds {
		if !slices.Contains(p.successors, n) {
			p.successors = append(p.successors, n)
		}
	}
}

// Value returns the node's output, evaluating it and its unevaluated
// predecessors first if needed. Within one evaluation epoch the underlying
// computation runs at most once.
func (n *Node) Value() (any, error) {
	if n.evaluated {
		return n.output, nil
	}
	if n.evaluating {
		return nil, fmt.Errorf("%w at %s", ErrCycle, n.Label())
	}

	n.evaluating = true
	defer func() { n.evaluating = false }()

	n.notify(NodeEventStart, nil, nil)

	var (
		out any
		err error
	)
	if n.bench != nil {
		out, err = n.bench.measure(n)
	} else {
		out, _, err = n.evaluate()
	}
	if err != nil {
		n.notify(NodeEventError, nil, err)
		return nil, err
	}

	n.output = out
	n.evaluated = true
	n.notify(NodeEventComplete, out, nil)
	return out, nil
}

// evaluate forces the predecessors and runs the node's strategy. fresh lists
// the predecessors this call computed itself; predecessors found evaluated,
// whether cached before the call or forced by an earlier sibling, are left out.
func (n *Node) evaluate() (out any, fresh []*Node, err error) {
	inputs := make([]any, len(n.predecessors))
	for i, p := range n.predecessors {
		if !p.evaluated {
			fresh = append(fresh, p)
		}
		v, perr := p.Value()
		if perr != nil {
			return nil, fresh, perr
		}
		inputs[i] = v
	}

	out, err = n.strategy()(inputs)
	if err != nil {
		return nil, fresh, &EvalError{Node: n.Label(), Err: err}
	}
	return out, fresh, nil
}

func (n *Node) strategy() EvalFunc {
	if n.override != nil {
		return n.override
	}
	return n.evaluable.Evaluate
}

// Clear drops the cached output and clears every successor. Clearing an
// unevaluated node is a no-op, which also stops the cascade on accidental cycles.
func (n *Node) Clear() {
	if !n.evaluated {
		return
	}
	n.evaluated = false
	n.output = nil

	for _, succ := range n.successors {
		succ.Clear()
	}
}

func removeNode(nodes []*Node, target *Node) []*Node {
	return slices.DeleteFunc(nodes, func(n *Node) bool { return n == target })
}
