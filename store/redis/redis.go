package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/lazygraph/store"
)

// RedisSnapshotStore implements store.SnapshotStore using Redis
type RedisSnapshotStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "lazygraph:"
	TTL      time.Duration // Expiration for snapshots, default 0 (no expiration)
}

// NewRedisSnapshotStore creates a new Redis snapshot store
func NewRedisSnapshotStore(opts RedisOptions) *RedisSnapshotStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisSnapshotStoreWithClient(client, opts.Prefix, opts.TTL)
}

// NewRedisSnapshotStoreWithClient creates a store over an existing client,
// e.g. one built from a redis:// URL.
func NewRedisSnapshotStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisSnapshotStore {
	if prefix == "" {
		prefix = "lazygraph:"
	}
	return &RedisSnapshotStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Close closes the underlying client
func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}

func (s *RedisSnapshotStore) snapshotKey(id string) string {
	return fmt.Sprintf("%ssnapshot:%s", s.prefix, id)
}

func (s *RedisSnapshotStore) runKey(id string) string {
	return fmt.Sprintf("%srun:%s:snapshots", s.prefix, id)
}

// Save stores a snapshot
func (s *RedisSnapshotStore) Save(ctx context.Context, snapshot *store.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.snapshotKey(snapshot.ID), data, s.ttl)

	if snapshot.RunID != "" {
		runKey := s.runKey(snapshot.RunID)
		pipe.SAdd(ctx, runKey, snapshot.ID)
		if s.ttl > 0 {
			pipe.Expire(ctx, runKey, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot to redis: %w", err)
	}
	return nil
}

// Load retrieves a snapshot by ID
func (s *RedisSnapshotStore) Load(ctx context.Context, snapshotID string) (*store.Snapshot, error) {
	data, err := s.client.Get(ctx, s.snapshotKey(snapshotID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, snapshotID)
		}
		return nil, fmt.Errorf("failed to load snapshot from redis: %w", err)
	}

	var snapshot store.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// List returns all snapshots of a run, oldest first. Index entries whose
// snapshot has expired are skipped.
func (s *RedisSnapshotStore) List(ctx context.Context, runID string) ([]*store.Snapshot, error) {
	ids, err := s.client.SMembers(ctx, s.runKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for run %s: %w", runID, err)
	}

	snapshots := []*store.Snapshot{}
	if len(ids) == 0 {
		return snapshots, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.snapshotKey(id)
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshots: %w", err)
	}

	for i, result := range results {
		raw, ok := result.(string)
		if !ok {
			continue
		}
		var snapshot store.Snapshot
		if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", ids[i], err)
		}
		snapshots = append(snapshots, &snapshot)
	}

	store.SortSnapshots(snapshots)
	return snapshots, nil
}

// Delete removes a snapshot
func (s *RedisSnapshotStore) Delete(ctx context.Context, snapshotID string) error {
	snapshot, err := s.Load(ctx, snapshotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.snapshotKey(snapshotID))
	if snapshot.RunID != "" {
		pipe.SRem(ctx, s.runKey(snapshot.RunID), snapshotID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Clear removes all snapshots of a run
func (s *RedisSnapshotStore) Clear(ctx context.Context, runID string) error {
	runKey := s.runKey(runID)
	ids, err := s.client.SMembers(ctx, runKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get snapshots for clearing: %w", err)
	}

	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.snapshotKey(id))
	}
	pipe.Del(ctx, runKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}
