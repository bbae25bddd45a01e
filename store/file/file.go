// Package file provides a SnapshotStore writing one JSON file per snapshot.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/smallnest/lazygraph/store"
)

// FileSnapshotStore stores snapshots as <id>.json files under a directory.
type FileSnapshotStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileSnapshotStore creates a store rooted at dir, creating it if needed.
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

func (s *FileSnapshotStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid snapshot id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Save stores a snapshot
func (s *FileSnapshotStore) Save(_ context.Context, snapshot *store.Snapshot) error {
	path, err := s.path(snapshot.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load retrieves a snapshot by ID
func (s *FileSnapshotStore) Load(_ context.Context, snapshotID string) (*store.Snapshot, error) {
	path, err := s.path(snapshotID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return readSnapshot(path)
}

func readSnapshot(path string) (*store.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, strings.TrimSuffix(filepath.Base(path), ".json"))
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", path, err)
	}
	return &snap, nil
}

func (s *FileSnapshotStore) all() ([]*store.Snapshot, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	snapshots := make([]*store.Snapshot, 0, len(paths))
	for _, p := range paths {
		snap, err := readSnapshot(p)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// List returns all snapshots of a run, oldest first
func (s *FileSnapshotStore) List(_ context.Context, runID string) ([]*store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.all()
	if err != nil {
		return nil, err
	}
	snapshots := []*store.Snapshot{}
	for _, snap := range all {
		if snap.RunID == runID {
			snapshots = append(snapshots, snap)
		}
	}
	store.SortSnapshots(snapshots)
	return snapshots, nil
}

// Delete removes a snapshot
func (s *FileSnapshotStore) Delete(_ context.Context, snapshotID string) error {
	path, err := s.path(snapshotID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Clear removes all snapshots of a run
func (s *FileSnapshotStore) Clear(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.all()
	if err != nil {
		return err
	}
	for _, snap := range all {
		if snap.RunID != runID {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, snap.ID+".json")); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to clear snapshots: %w", err)
		}
	}
	return nil
}
