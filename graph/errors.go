package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUncallableNode is returned when invoking a node that has a fixed fan-in of zero.
	ErrUncallableNode = errors.New("uncallable node")

	// ErrArity is returned when a node is invoked with the wrong number of operands.
	ErrArity = errors.New("operand count does not match node arity")

	// ErrInputArity is returned when run-time values do not match the graph's Variable inputs.
	ErrInputArity = errors.New("input values length not matching graph variable inputs")

	// ErrTypeMismatch is returned when a node receives data of the wrong shape.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrResolution is returned when a node identifier matches zero or several nodes.
	ErrResolution = errors.New("unable to resolve node")

	// ErrMuteAmbiguous is returned when muting a multi-input node without an override.
	ErrMuteAmbiguous = errors.New("cannot mute node with more than one predecessor without an override")

	// ErrNotVariable is returned when assigning a value to a non-Variable node.
	ErrNotVariable = errors.New("node is not a variable")

	// ErrAlreadyBenchmarked is returned when patching a node or graph twice.
	ErrAlreadyBenchmarked = errors.New("benchmarking already attached")

	// ErrUnknownParam is returned when a node does not expose the requested parameter.
	ErrUnknownParam = errors.New("unknown parameter")

	// ErrUnsafeRewire is returned when a subgraph boundary cannot be spliced without
	// breaking the wiring of the new graph.
	ErrUnsafeRewire = errors.New("unsafe subgraph rewire")

	// ErrTimeout is returned by evaluables wrapped with Timeout when they run too long.
	ErrTimeout = errors.New("evaluation timed out")
)

// ResolutionError reports a lookup that did not yield exactly one node.
type ResolutionError struct {
	// ID is the identifier that was looked up
	ID string
	// Matches holds the ids of the candidates when the lookup was ambiguous
	Matches []string
}

func (e *ResolutionError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("unable to resolve node %q: no match", e.ID)
	}
	return fmt.Sprintf("unable to resolve node %q: ambiguous between %s", e.ID, strings.Join(e.Matches, ", "))
}

// Is makes errors.Is(err, ErrResolution) hold.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// TypeMismatchError describes the expected and received type of a value.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s got %s", e.Expected, e.Got)
}

// Is makes errors.Is(err, ErrTypeMismatch) hold.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// NewTypeMismatch builds a TypeMismatchError for value v.
func NewTypeMismatch(expected string, v any) error {
	return &TypeMismatchError{Expected: expected, Got: fmt.Sprintf("%T", v)}
}

// EvalError wraps a failure raised while evaluating a node.
type EvalError struct {
	// Node is the label of the node whose evaluation failed
	Node string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %s: %v", e.Node, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
