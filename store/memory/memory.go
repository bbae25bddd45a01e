// Package memory provides an in-process SnapshotStore.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/smallnest/lazygraph/store"
)

// MemorySnapshotStore keeps snapshots in a map. Saved snapshots are copied,
// so later changes by the caller do not leak into the store.
type MemorySnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*store.Snapshot
}

// NewMemorySnapshotStore creates an empty store
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snapshots: make(map[string]*store.Snapshot)}
}

func clone(s *store.Snapshot) (*store.Snapshot, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to copy snapshot: %w", err)
	}
	var cp store.Snapshot
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to copy snapshot: %w", err)
	}
	return &cp, nil
}

// Save stores a snapshot
func (m *MemorySnapshotStore) Save(_ context.Context, snapshot *store.Snapshot) error {
	cp, err := clone(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.ID] = cp
	return nil
}

// Load retrieves a snapshot by ID
func (m *MemorySnapshotStore) Load(_ context.Context, snapshotID string) (*store.Snapshot, error) {
	m.mu.RLock()
	s, ok := m.snapshots[snapshotID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, snapshotID)
	}
	return clone(s)
}

// List returns all snapshots of a run, oldest first
func (m *MemorySnapshotStore) List(_ context.Context, runID string) ([]*store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshots := []*store.Snapshot{}
	for _, s := range m.snapshots {
		if s.RunID != runID {
			continue
		}
		cp, err := clone(s)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, cp)
	}
	store.SortSnapshots(snapshots)
	return snapshots, nil
}

// Delete removes a snapshot
func (m *MemorySnapshotStore) Delete(_ context.Context, snapshotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, snapshotID)
	return nil
}

// Clear removes all snapshots of a run
func (m *MemorySnapshotStore) Clear(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.snapshots {
		if s.RunID == runID {
			delete(m.snapshots, id)
		}
	}
	return nil
}
