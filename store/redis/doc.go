// Package redis provides a Redis-backed SnapshotStore.
//
// Each snapshot is stored as a JSON string under "<prefix>snapshot:<id>" and
// indexed in the set "<prefix>run:<run id>:snapshots". With a TTL, both keys
// expire, so old runs age out without explicit cleanup.
//
//	s := redis.NewRedisSnapshotStore(redis.RedisOptions{
//		Addr: "localhost:6379",
//		TTL:  24 * time.Hour,
//	})
package redis
