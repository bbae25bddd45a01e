package graph

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delay = 50 * time.Millisecond

func sleeper(name string) *Node {
	return NewNode("Sleep", Variadic, EvalFunc(func(inputs []any) (any, error) {
		time.Sleep(delay)
		return len(inputs), nil
	}), WithName(name))
}

func TestRing(t *testing.T) {
	r := NewRing[int](3)
	_, ok := r.Last()
	assert.False(t, ok)
	assert.Equal(t, 3, r.Cap())

	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{3, 4, 5}, r.Values())
	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, 5, last)

	assert.Equal(t, 1, NewRing[int](0).Cap())
}

func TestSelfTimeExcludesCachedPredecessors(t *testing.T) {
	x := NewVariable(WithName("x"))
	d1 := Must(sleeper("d1").Call(x))
	mid := Must(NewIdentity(WithName("mid")).Call(d1))
	d2 := Must(sleeper("d2").Call(d1, mid))
	g := New([]*Node{x}, []*Node{d2})

	require.NoError(t, PatchGraph(g, 4))
	_, err := g.Run(1)
	require.NoError(t, err)

	d1Eval, _ := d1.Benchmark().EvalTimes.Last()
	d2Eval, _ := d2.Benchmark().EvalTimes.Last()
	d2Self, _ := d2.Benchmark().SelfEvalTimes.Last()
	midSelf, _ := mid.Benchmark().SelfEvalTimes.Last()

	assert.GreaterOrEqual(t, d1Eval, delay)
	assert.GreaterOrEqual(t, d2Eval, 2*delay)
	assert.GreaterOrEqual(t, d2Self, delay)
	assert.Less(t, d2Self, 2*delay-delay/4)
	assert.Less(t, midSelf, delay/2)

	runTime, ok := g.Benchmark().RunTimes.Last()
	require.True(t, ok)
	assert.GreaterOrEqual(t, runTime, d2Eval)
}

func TestSelfTimeOfSiblingForcedPredecessor(t *testing.T) {
	x := NewVariable()
	shared := Must(sleeper("shared").Call(x))
	left := Must(NewIdentity(WithName("left")).Call(shared))
	right := Must(NewIdentity(WithName("right")).Call(shared))
	top := Must(Plus(left, right, WithName("top")))
	g := New([]*Node{x}, []*Node{top})

	require.NoError(t, PatchGraph(g, 0))
	_, err := g.Run(1)
	require.NoError(t, err)

	leftSelf, _ := left.Benchmark().SelfEvalTimes.Last()
	rightEval, _ := right.Benchmark().EvalTimes.Last()
	topSelf, _ := top.Benchmark().SelfEvalTimes.Last()

	assert.Less(t, leftSelf, delay/2)
	assert.Less(t, rightEval, delay/2)
	assert.Less(t, topSelf, delay/2)
}

func TestBenchmarkSamplesOnlyFreshEvaluations(t *testing.T) {
	x := NewVariable()
	out := Must(NewIdentity().Call(x))
	g := New([]*Node{x}, []*Node{out})
	require.NoError(t, PatchGraph(g, 2))

	for i := range 3 {
		_, err := g.Run(i)
		require.NoError(t, err)
		_, err = out.Value()
		require.NoError(t, err)
	}

	assert.Equal(t, 2, out.Benchmark().EvalTimes.Len())
	assert.Equal(t, 2, out.Benchmark().EvalTimes.Cap())
	assert.Equal(t, 2, g.Benchmark().RunTimes.Len())
}

func TestPatchTwice(t *testing.T) {
	_, _, sum, g := sumGraph()
	assert.Nil(t, sum.Benchmark())
	assert.Nil(t, g.Benchmark())

	require.NoError(t, PatchNode(sum, 0))
	assert.Equal(t, 100, sum.Benchmark().EvalTimes.Cap())
	assert.ErrorIs(t, PatchNode(sum, 1), ErrAlreadyBenchmarked)

	require.NoError(t, PatchGraph(g, 5))
	assert.Equal(t, 100, sum.Benchmark().EvalTimes.Cap())
	assert.ErrorIs(t, PatchGraph(g, 5), ErrAlreadyBenchmarked)
}

func TestProfile(t *testing.T) {
	x := NewVariable(WithName("x"))
	slow := Must(sleeper("slow").Call(x))
	out := Must(NewIdentity(WithName("out")).Call(slow))
	g := New([]*Node{x}, []*Node{out})
	require.NoError(t, PatchGraph(g, 0))

	_, err := g.Run(1)
	require.NoError(t, err)

	p := g.Profile()
	require.Len(t, p.Entries, 3)
	assert.Equal(t, slow.Label(), p.Entries[0].Node)
	assert.Equal(t, 1, p.Entries[0].Samples)
	assert.GreaterOrEqual(t, p.SelfTotal(), delay)
	assert.GreaterOrEqual(t, p.LastRun, delay)

	rendered := p.Render()
	assert.Contains(t, rendered, slow.Label())
	assert.Contains(t, rendered, "mean self")
	assert.True(t, strings.Contains(rendered, "last run"))
}
