package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/smallnest/lazygraph/graph"
	"github.com/smallnest/lazygraph/log"
)

// Recorder runs a graph and saves a snapshot of its nodes after every run.
// All snapshots of one recorder share a run id and carry increasing versions.
type Recorder struct {
	store SnapshotStore
	name  string
	runID string

	mu      sync.Mutex
	version int
}

// NewRecorder creates a recorder saving to s under a fresh run id. name
// labels the graph in every snapshot.
func NewRecorder(s SnapshotStore, name string) *Recorder {
	return &Recorder{
		store: s,
		name:  name,
		runID: uuid.NewString(),
	}
}

// RunID returns the id shared by the recorder's snapshots.
func (r *Recorder) RunID() string { return r.runID }

// Run runs g with values and saves a snapshot whether or not the run
// succeeded. A failed run is recorded with its error in the metadata. When
// both the run and the save fail, the returned error joins the two.
func (r *Recorder) Run(ctx context.Context, g *graph.Graph, values ...any) (any, *Snapshot, error) {
	out, runErr := g.Run(values...)

	snap, err := r.Record(ctx, g, runErr)
	if err != nil {
		return out, nil, errors.Join(runErr, err)
	}
	return out, snap, runErr
}

// Record saves a snapshot of g's current state without running it. A
// non-nil runErr is stored in the metadata.
func (r *Recorder) Record(ctx context.Context, g *graph.Graph, runErr error) (*Snapshot, error) {
	r.mu.Lock()
	r.version++
	version := r.version
	r.mu.Unlock()

	snap := NewSnapshot(g, r.runID, r.name)
	snap.Version = version
	if runErr != nil {
		snap.Metadata["error"] = runErr.Error()
	}

	if err := r.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}
	log.Debug("recorded snapshot %s (run %s, version %d)", snap.ID, r.runID, version)
	return snap, nil
}

// History returns the recorder's snapshots, oldest first.
func (r *Recorder) History(ctx context.Context) ([]*Snapshot, error) {
	return r.store.List(ctx, r.runID)
}
