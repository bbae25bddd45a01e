package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lazygraph/store"
	"github.com/smallnest/lazygraph/store/storetest"
)

func TestFileSnapshotStore(t *testing.T) {
	t.Parallel()

	s, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)
	var _ store.SnapshotStore = s
	storetest.Run(t, s)
}

func TestFileSnapshotStore_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "snapshots")
	s, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), storetest.NewSnapshot("snap-1", "run-1", 1, time.Now())))

	_, err = os.Stat(filepath.Join(dir, "snap-1.json"))
	assert.NoError(t, err)
}

func TestFileSnapshotStore_RejectsUnsafeIDs(t *testing.T) {
	t.Parallel()

	s, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	snap := storetest.NewSnapshot("../escape", "run-1", 1, time.Now())
	assert.Error(t, s.Save(context.Background(), snap))
	_, err = s.Load(context.Background(), "")
	assert.Error(t, err)
}
