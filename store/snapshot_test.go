package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lazygraph/graph"
	"github.com/smallnest/lazygraph/store"
	"github.com/smallnest/lazygraph/store/memory"
)

type failingStore struct {
	*memory.MemorySnapshotStore
	err error
}

func (f failingStore) Save(context.Context, *store.Snapshot) error { return f.err }

func doubled() (*graph.Node, *graph.Node, *graph.Graph) {
	x := graph.NewVariable(graph.WithName("x"))
	y := graph.Must(graph.Plus(x, x, graph.WithName("y")))
	return x, y, graph.New([]*graph.Node{x}, []*graph.Node{y})
}

func TestEncodeValue(t *testing.T) {
	assert.JSONEq(t, `{"a":1}`, string(store.EncodeValue(map[string]int{"a": 1})))
	assert.JSONEq(t, `"<unset>"`, string(store.EncodeValue(graph.Unset)))
	assert.JSONEq(t, `null`, string(store.EncodeValue(nil)))

	raw := string(store.EncodeValue(make(chan int)))
	assert.Contains(t, raw, "unsupported type")
}

func TestNewSnapshot(t *testing.T) {
	x, y, g := doubled()

	before := store.NewSnapshot(g, "run-1", "doubled")
	require.Len(t, before.Nodes, 2)
	rec, ok := before.Node(y.ID())
	require.True(t, ok)
	assert.False(t, rec.Evaluated)
	assert.Nil(t, rec.Value)
	assert.Equal(t, []string{x.ID(), x.ID()}, rec.Predecessors)
	assert.False(t, y.Evaluated())

	_, err := g.Run(21)
	require.NoError(t, err)

	after := store.NewSnapshot(g, "run-1", "doubled")
	assert.NotEqual(t, before.ID, after.ID)
	assert.Equal(t, "run-1", after.RunID)
	assert.Equal(t, "doubled", after.Graph)
	assert.Equal(t, 1, after.Version)

	rec, ok = after.Node(y.ID())
	require.True(t, ok)
	assert.True(t, rec.Evaluated)
	assert.Equal(t, graph.VariantBinOp, rec.Variant)
	assert.JSONEq(t, `42`, string(rec.Value))

	_, ok = after.Node("missing")
	assert.False(t, ok)
}

func TestSortSnapshots(t *testing.T) {
	now := time.Now()
	snaps := []*store.Snapshot{
		{ID: "c", Timestamp: now.Add(time.Second), Version: 1},
		{ID: "b", Timestamp: now, Version: 2},
		{ID: "a", Timestamp: now, Version: 1},
	}
	store.SortSnapshots(snaps)
	assert.Equal(t, "a", snaps[0].ID)
	assert.Equal(t, "b", snaps[1].ID)
	assert.Equal(t, "c", snaps[2].ID)
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	_, y, g := doubled()
	ms := memory.NewMemorySnapshotStore()
	rec := store.NewRecorder(ms, "doubled")
	require.NotEmpty(t, rec.RunID())

	out, snap, err := rec.Run(ctx, g, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, out)
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, rec.RunID(), snap.RunID)

	_, snap, err = rec.Run(ctx, g, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Version)
	node, ok := snap.Node(y.ID())
	require.True(t, ok)
	assert.JSONEq(t, `10`, string(node.Value))

	history, err := rec.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Version)
	assert.Equal(t, 2, history[1].Version)

	other := store.NewRecorder(ms, "doubled")
	assert.NotEqual(t, rec.RunID(), other.RunID())
	empty, err := other.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecorderRecordsFailedRuns(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	x := graph.NewVariable()
	bad := graph.Must(graph.NewNode("Failing", 1, graph.EvalFunc(func([]any) (any, error) {
		return nil, boom
	})).Call(x))
	g := graph.New([]*graph.Node{x}, []*graph.Node{bad})

	rec := store.NewRecorder(memory.NewMemorySnapshotStore(), "failing")
	_, snap, err := rec.Run(ctx, g, 1)
	require.ErrorIs(t, err, boom)
	require.NotNil(t, snap)
	assert.Contains(t, snap.Metadata["error"], "boom")

	node, ok := snap.Node(bad.ID())
	require.True(t, ok)
	assert.False(t, node.Evaluated)
}

func TestRecorderKeepsRunErrorWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	diskFull := errors.New("disk full")
	x := graph.NewVariable()
	bad := graph.Must(graph.NewNode("Failing", 1, graph.EvalFunc(func([]any) (any, error) {
		return nil, boom
	})).Call(x))
	g := graph.New([]*graph.Node{x}, []*graph.Node{bad})

	rec := store.NewRecorder(failingStore{memory.NewMemorySnapshotStore(), diskFull}, "failing")
	_, snap, err := rec.Run(ctx, g, 1)
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, diskFull)

	_, y, good := doubled()
	_, snap, err = store.NewRecorder(failingStore{memory.NewMemorySnapshotStore(), diskFull}, "ok").Run(ctx, good, 2)
	require.ErrorIs(t, err, diskFull)
	assert.Nil(t, snap)
	assert.True(t, y.Evaluated())
}
