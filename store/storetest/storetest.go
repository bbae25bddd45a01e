// Package storetest provides a behavioral test suite shared by every
// store.SnapshotStore backend.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lazygraph/store"
)

// NewSnapshot returns a snapshot of a two node graph for run runID.
func NewSnapshot(id, runID string, version int, ts time.Time) *store.Snapshot {
	return &store.Snapshot{
		ID:    id,
		RunID: runID,
		Graph: "pipeline",
		Nodes: []store.NodeRecord{
			{ID: "x_0", Name: "x", Variant: "Variable", Evaluated: true, Value: json.RawMessage(`2`)},
			{ID: "Plus_1", Variant: "BinOp", Evaluated: true, Value: json.RawMessage(`4`), Predecessors: []string{"x_0", "x_0"}},
		},
		Metadata:  map[string]any{"source": "storetest"},
		Timestamp: ts,
		Version:   version,
	}
}

// Run exercises s against the contract of store.SnapshotStore. s must be empty.
func Run(t *testing.T, s store.SnapshotStore) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("save and load", func(t *testing.T) {
		snap := NewSnapshot("load-1", "run-load", 1, base)
		require.NoError(t, s.Save(ctx, snap))

		loaded, err := s.Load(ctx, "load-1")
		require.NoError(t, err)
		assert.Equal(t, "run-load", loaded.RunID)
		assert.Equal(t, "pipeline", loaded.Graph)
		assert.Equal(t, 1, loaded.Version)
		assert.WithinDuration(t, base, loaded.Timestamp, time.Millisecond)
		assert.Equal(t, "storetest", loaded.Metadata["source"])

		require.Len(t, loaded.Nodes, 2)
		rec, ok := loaded.Node("Plus_1")
		require.True(t, ok)
		assert.JSONEq(t, `4`, string(rec.Value))
		assert.Equal(t, []string{"x_0", "x_0"}, rec.Predecessors)
	})

	t.Run("load missing", func(t *testing.T) {
		_, err := s.Load(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("save replaces", func(t *testing.T) {
		snap := NewSnapshot("replace-1", "run-replace", 1, base)
		require.NoError(t, s.Save(ctx, snap))
		snap.Graph = "renamed"
		require.NoError(t, s.Save(ctx, snap))

		loaded, err := s.Load(ctx, "replace-1")
		require.NoError(t, err)
		assert.Equal(t, "renamed", loaded.Graph)

		list, err := s.List(ctx, "run-replace")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("list orders by time then version", func(t *testing.T) {
		for i, v := range []int{3, 1, 2} {
			id := fmt.Sprintf("list-%d", v)
			ts := base
			if i == 0 {
				ts = base.Add(time.Second)
			}
			require.NoError(t, s.Save(ctx, NewSnapshot(id, "run-list", v, ts)))
		}
		require.NoError(t, s.Save(ctx, NewSnapshot("other-1", "run-other", 1, base)))

		list, err := s.List(ctx, "run-list")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "list-1", list[0].ID)
		assert.Equal(t, "list-2", list[1].ID)
		assert.Equal(t, "list-3", list[2].ID)

		empty, err := s.List(ctx, "run-unknown")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, NewSnapshot("delete-1", "run-delete", 1, base)))
		require.NoError(t, s.Delete(ctx, "delete-1"))

		_, err := s.Load(ctx, "delete-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		list, err := s.List(ctx, "run-delete")
		require.NoError(t, err)
		assert.Empty(t, list)

		assert.NoError(t, s.Delete(ctx, "delete-1"))
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, NewSnapshot("clear-1", "run-clear", 1, base)))
		require.NoError(t, s.Save(ctx, NewSnapshot("clear-2", "run-clear", 2, base)))
		require.NoError(t, s.Save(ctx, NewSnapshot("keep-1", "run-keep", 1, base)))

		require.NoError(t, s.Clear(ctx, "run-clear"))

		list, err := s.List(ctx, "run-clear")
		require.NoError(t, err)
		assert.Empty(t, list)

		kept, err := s.Load(ctx, "keep-1")
		require.NoError(t, err)
		assert.Equal(t, "run-keep", kept.RunID)

		assert.NoError(t, s.Clear(ctx, "run-unknown"))
	})
}
