package graph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumGraph() (a, b, sum *Node, g *Graph) {
	a = NewVariable(WithName("a"))
	b = NewVariable(WithName("b"))
	sum = Must(Plus(a, b, WithName("sum")))
	return a, b, sum, New([]*Node{a, b}, []*Node{sum})
}

func TestGraphMembership(t *testing.T) {
	x := NewVariable(WithName("x"))
	c := NewConstant(10, WithName("c"))
	inc := Must(Plus(x, c, WithName("inc")))
	out := Must(NewIdentity(WithName("out")).Call(inc))
	side := Must(NewIdentity(WithName("side")).Call(x))
	unrelated := NewConstant(0)

	g := New([]*Node{x, x}, []*Node{out})

	assert.Equal(t, []*Node{x}, g.Inputs())
	assert.Equal(t, []*Node{out}, g.Outputs())
	nodes := g.Nodes()
	assert.ElementsMatch(t, []*Node{x, c, inc, out, side}, nodes)
	assert.NotContains(t, nodes, unrelated)
	assert.True(t, g.Contains(side))

	byName := g.NodesByName()
	assert.Same(t, inc, byName[inc.Label()])
	assert.Equal(t, []*Node{x}, g.VariableInputs())
}

func TestGraphRunPrecedence(t *testing.T) {
	a, b, _, g := sumGraph()

	out, err := g.RunMap(map[*Node]any{a: 1, b: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, out)

	out, err = g.Run(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, out)

	out, err = g.Run([]any{10, 20})
	require.NoError(t, err)
	assert.Equal(t, 30, out)

	out, err = g.Run([]int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, 9, out)

	_, err = g.Run(1)
	assert.ErrorIs(t, err, ErrInputArity)

	_, err = g.Run(1, 2, 3)
	assert.ErrorIs(t, err, ErrInputArity)

	_, err = g.Run([]any{1, 2, 3})
	assert.ErrorIs(t, err, ErrInputArity)
}

func TestGraphRunSingleVariableTakesWholeArgument(t *testing.T) {
	x := NewVariable()
	out := Must(NewIdentity().Call(x))
	g := New([]*Node{x}, []*Node{out})

	v, err := g.Run([]any{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, v)

	v, err = g.Run([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)

	v, err = g.Run(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, v)

	_, err = g.Run()
	assert.ErrorIs(t, err, ErrInputArity)
}

func TestGraphRunMapIgnoresUnknownKeys(t *testing.T) {
	a, b, sum, g := sumGraph()
	stray := NewVariable()

	out, err := g.RunMap(map[*Node]any{a: 2, b: 5, stray: 100, sum: 0, nil: 1})
	require.NoError(t, err)
	assert.Equal(t, 7, out)

	v, err := stray.Value()
	require.NoError(t, err)
	assert.True(t, IsUnset(v))
}

func TestGraphRunLeavesConstantInputs(t *testing.T) {
	k := NewConstant(100, WithName("k"))
	x := NewVariable(WithName("x"))
	sum := Must(Plus(k, x))
	g := New([]*Node{k, x}, []*Node{sum})

	out, err := g.Run(1)
	require.NoError(t, err)
	assert.Equal(t, 101, out)
}

func TestGraphRunMultipleOutputs(t *testing.T) {
	a, b, sum, _ := sumGraph()
	diff := Must(Minus(a, b))
	g := New([]*Node{a, b}, []*Node{sum, diff})

	out, err := g.Run(5, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{8, 2}, out)
}

func TestGraphRunRecomputesEveryTime(t *testing.T) {
	calls := 0
	x := NewVariable()
	n := Must(counting(&calls, double).Call(x))
	g := New([]*Node{x}, []*Node{n})

	for i := 1; i <= 3; i++ {
		out, err := g.Run(i)
		require.NoError(t, err)
		assert.Equal(t, 2*i, out)
	}
	assert.Equal(t, 3, calls)

	out, err := g.Run(3)
	require.NoError(t, err)
	assert.Equal(t, 6, out)
	assert.Equal(t, 4, calls)
}

func TestGraphClear(t *testing.T) {
	_, _, sum, g := sumGraph()
	_, err := g.Run(1, 1)
	require.NoError(t, err)
	assert.True(t, sum.Evaluated())

	g.Clear()
	for _, n := range g.Nodes() {
		assert.False(t, n.Evaluated(), n.Label())
	}
}

func TestGraphRunIsSerialized(t *testing.T) {
	x := NewVariable()
	out := Must(NewIdentity().Call(x))
	g := New([]*Node{x}, []*Node{out})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := g.Run(i)
			assert.NoError(t, err)
			assert.Equal(t, i, v)
		}()
	}
	wg.Wait()
}

func TestGraphNode(t *testing.T) {
	_, _, _, inner := sumGraph()
	gn := NewGraphNode(inner, WithName("adder"))
	assert.Equal(t, VariantGraph, gn.Variant())
	assert.Equal(t, 2, gn.Arity())
	assert.Same(t, inner, gn.Graph())
	assert.Nil(t, NewConstant(1).Graph())

	x := NewVariable(WithName("x"))
	y := NewConstant(40)
	Must(gn.Call(x, y))
	outer := New([]*Node{x}, []*Node{gn})

	out, err := outer.Run(2)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestResolve(t *testing.T) {
	a1 := NewVariable(WithName("dup"))
	a2 := NewVariable(WithName("dup"))
	sum := Must(Plus(a1, a2, WithName("total")))
	g := New([]*Node{a1, a2}, []*Node{sum})

	n, err := g.Resolve("total")
	require.NoError(t, err)
	assert.Same(t, sum, n)

	_, err = g.Resolve("dup")
	require.ErrorIs(t, err, ErrResolution)
	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.ElementsMatch(t, []string{a1.Label(), a2.Label()}, rerr.Matches)

	n, err = g.Resolve(a2.Label())
	require.NoError(t, err)
	assert.Same(t, a2, n)

	n, err = g.Resolve(sum.ID())
	require.NoError(t, err)
	assert.Same(t, sum, n)

	n, err = g.Resolve("BinOp_")
	require.NoError(t, err)
	assert.Same(t, sum, n)

	_, err = g.Resolve("Variable_")
	assert.ErrorIs(t, err, ErrResolution)

	_, err = g.Resolve("nothing-like-this")
	require.ErrorAs(t, err, &rerr)
	assert.Empty(t, rerr.Matches)
	assert.Contains(t, err.Error(), "no match")

	n, err = g.ResolveNode(sum)
	require.NoError(t, err)
	assert.Same(t, sum, n)

	_, err = g.ResolveNode(NewConstant(1))
	assert.ErrorIs(t, err, ErrResolution)
}
