package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrune(t *testing.T) {
	x := NewVariable(WithName("x"))
	unused := NewVariable(WithName("unused"))
	c := Must(NewIdentity(WithName("c")).Call(x))
	d := Must(NewIdentity(WithName("d")).Call(c))
	out := Must(Plus(c, NewConstant(1), WithName("out")))
	deadEnd := Must(NewIdentity(WithName("deadEnd")).Call(unused))

	g := New([]*Node{x, unused}, []*Node{out})
	require.True(t, g.Contains(d))
	require.True(t, g.Contains(deadEnd))

	pruned := Prune(g)

	assert.Equal(t, []*Node{x}, pruned.Inputs())
	assert.Equal(t, []*Node{out}, pruned.Outputs())
	assert.NotContains(t, c.Successors(), d)
	assert.Contains(t, c.Successors(), out)
	assert.Empty(t, unused.Successors())
	assert.False(t, pruned.Contains(d))
	assert.False(t, pruned.Contains(deadEnd))

	v, err := pruned.Run(4)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestPruneKeepsInputThatIsOutput(t *testing.T) {
	x := NewVariable(WithName("x"))
	g := New([]*Node{x}, []*Node{x})

	pruned := Prune(g)
	assert.Equal(t, []*Node{x}, pruned.Inputs())

	v, err := pruned.Run(3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}
