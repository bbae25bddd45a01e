package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lazygraph/store"
	"github.com/smallnest/lazygraph/store/storetest"
)

func TestMemorySnapshotStore(t *testing.T) {
	t.Parallel()

	ms := NewMemorySnapshotStore()
	var _ store.SnapshotStore = ms
	storetest.Run(t, ms)
}

func TestMemorySnapshotStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ms := NewMemorySnapshotStore()
	snap := storetest.NewSnapshot("copy-1", "run-1", 1, time.Now())
	require.NoError(t, ms.Save(ctx, snap))

	snap.Graph = "mutated"
	snap.Nodes[0].Name = "mutated"

	loaded, err := ms.Load(ctx, "copy-1")
	require.NoError(t, err)
	assert.Equal(t, "pipeline", loaded.Graph)
	assert.Equal(t, "x", loaded.Nodes[0].Name)

	loaded.Metadata["source"] = "mutated"
	again, err := ms.Load(ctx, "copy-1")
	require.NoError(t, err)
	assert.Equal(t, "storetest", again.Metadata["source"])
}
