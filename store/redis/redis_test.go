package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lazygraph/store"
	"github.com/smallnest/lazygraph/store/storetest"
)

func TestRedisSnapshotStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s := NewRedisSnapshotStore(RedisOptions{Addr: mr.Addr()})
	defer s.Close()

	var _ store.SnapshotStore = s
	storetest.Run(t, s)

	assert.True(t, mr.Exists("lazygraph:snapshot:keep-1"))
	assert.True(t, mr.Exists("lazygraph:run:run-keep:snapshots"))
}

func TestRedisSnapshotStore_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisSnapshotStoreWithClient(client, "test:", time.Minute)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, storetest.NewSnapshot("snap-1", "run-1", 1, time.Now())))
	assert.Equal(t, time.Minute, mr.TTL("test:snapshot:snap-1"))

	mr.FastForward(2 * time.Minute)

	_, err = s.Load(ctx, "snap-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.List(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
