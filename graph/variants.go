package graph

import (
	"fmt"
	"maps"
	"slices"
)

// Variant names of the built-in node kinds. They prefix generated ids.
const (
	VariantConstant = "Constant"
	VariantVariable = "Variable"
	VariantIdentity = "Identity"
	VariantBinOp    = "BinOp"
	VariantGraph    = "GraphNode"
)

type unset struct{}

func (unset) String() string { return "<unset>" }

// Unset is the value of a Variable that has not been assigned yet.
var Unset any = unset{}

// IsUnset reports whether v is the Unset marker.
func IsUnset(v any) bool {
	_, ok := v.(unset)
	return ok
}

type constant struct {
	value any
}

func (c *constant) Evaluate([]any) (any, error) { return c.value, nil }

// NewConstant creates a source node that always evaluates to v.
func NewConstant(v any, opts ...NodeOption) *Node {
	return NewNode(VariantConstant, 0, &constant{value: v}, opts...)
}

type variable struct {
	value any
	set   bool
}

func (v *variable) Evaluate([]any) (any, error) {
	if !v.set {
		return Unset, nil
	}
	return v.value, nil
}

func (v *variable) CloneEvaluable() Evaluable {
	cp := *v
	return &cp
}

// NewVariable creates a source node whose value is assigned from outside,
// usually by Graph.Run.
func NewVariable(opts ...NodeOption) *Node {
	return NewNode(VariantVariable, 0, &variable{}, opts...)
}

// IsVariable reports whether n accepts external values.
func (n *Node) IsVariable() bool {
	_, ok := n.evaluable.(*variable)
	return ok
}

// SetValue assigns v to a Variable and clears it, so consumers recompute
// with the new value on their next read.
func (n *Node) SetValue(v any) error {
	vr, ok := n.evaluable.(*variable)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotVariable, n.Label())
	}
	vr.value = v
	vr.set = true
	n.Clear()
	return nil
}

// ResetValue returns a Variable to the unset state.
func (n *Node) ResetValue() error {
	vr, ok := n.evaluable.(*variable)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotVariable, n.Label())
	}
	vr.value = nil
	vr.set = false
	n.Clear()
	return nil
}

func passThrough(inputs []any) (any, error) {
	return inputs[0], nil
}

// NewIdentity creates a one-operand node that forwards its input unchanged.
func NewIdentity(opts ...NodeOption) *Node {
	return NewNode(VariantIdentity, 1, EvalFunc(passThrough), opts...)
}

// BinaryOperator combines the values of a BinOp's two operands.
type BinaryOperator func(a, b any) (any, error)

// NewBinOp creates a two-operand node applying op.
func NewBinOp(op BinaryOperator, opts ...NodeOption) *Node {
	return NewNode(VariantBinOp, 2, EvalFunc(func(inputs []any) (any, error) {
		return op(inputs[0], inputs[1])
	}), opts...)
}

// Plus wires a + b.
func Plus(a, b *Node, opts ...NodeOption) (*Node, error) {
	return NewBinOp(Add, opts...).Call(a, b)
}

// Minus wires a - b.
func Minus(a, b *Node, opts ...NodeOption) (*Node, error) {
	return NewBinOp(Sub, opts...).Call(a, b)
}

// Times wires a * b.
func Times(a, b *Node, opts ...NodeOption) (*Node, error) {
	return NewBinOp(Mul, opts...).Call(a, b)
}

// Chain pipes first through each of next in turn, invoking every stage with
// the previous one as its only operand. It returns the last stage.
func Chain(first *Node, next ...*Node) (*Node, error) {
	cur := first
	for _, stage := range next {
		n, err := stage.Call(cur)
		if err != nil {
			return nil, err
		}
		cur = n
	}
	return cur, nil
}

// Params holds the tunable parameters of a Func node.
type Params map[string]any

// Func is the signature of user-defined n-ary computations.
type Func func(inputs []any, params Params) (any, error)

type funcEvaluable struct {
	fn     Func
	params Params
}

func (f *funcEvaluable) Evaluate(inputs []any) (any, error) {
	return f.fn(inputs, f.params)
}

func (f *funcEvaluable) Params() []string {
	return slices.Sorted(maps.Keys(f.params))
}

func (f *funcEvaluable) SetParam(name string, v any) error {
	if _, ok := f.params[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	f.params[name] = v
	return nil
}

func (f *funcEvaluable) CloneEvaluable() Evaluable {
	return &funcEvaluable{fn: f.fn, params: maps.Clone(f.params)}
}

// NewFunc creates a user-defined node of the given variant. params are the
// node's tunable parameters with their initial values; only keys present
// here can be changed later with SetParam.
func NewFunc(variant string, arity int, fn Func, params Params, opts ...NodeOption) *Node {
	if params == nil {
		params = Params{}
	}
	return NewNode(variant, arity, &funcEvaluable{fn: fn, params: maps.Clone(params)}, opts...)
}
