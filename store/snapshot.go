package store

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/lazygraph/graph"
)

// ErrNotFound is returned when loading a snapshot that does not exist.
var ErrNotFound = errors.New("snapshot not found")

// NodeRecord is the persisted state of one node.
type NodeRecord struct {
	ID           string          `json:"id"`
	Name         string          `json:"name,omitempty"`
	Variant      string          `json:"variant"`
	Evaluated    bool            `json:"evaluated"`
	Muted        bool            `json:"muted,omitempty"`
	Value        json.RawMessage `json:"value,omitempty"`
	Predecessors []string        `json:"predecessors,omitempty"`
}

// Snapshot captures the node states of a graph after one run
type Snapshot struct {
	ID        string         `json:"id"`
	RunID     string         `json:"run_id"`
	Graph     string         `json:"graph"`
	Nodes     []NodeRecord   `json:"nodes"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"timestamp"`
	Version   int            `json:"version"`
}

// Node returns the record with the given node id.
func (s *Snapshot) Node(id string) (NodeRecord, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeRecord{}, false
}

// SnapshotStore defines the interface for snapshot persistence
type SnapshotStore interface {
	// Save stores a snapshot, replacing any snapshot with the same ID
	Save(ctx context.Context, snapshot *Snapshot) error

	// Load retrieves a snapshot by ID
	Load(ctx context.Context, snapshotID string) (*Snapshot, error)

	// List returns all snapshots of a run, oldest first
	List(ctx context.Context, runID string) ([]*Snapshot, error)

	// Delete removes a snapshot
	Delete(ctx context.Context, snapshotID string) error

	// Clear removes all snapshots of a run
	Clear(ctx context.Context, runID string) error
}

// EncodeValue renders a node value as JSON. Values that cannot be encoded
// are stored as the text of the encoding error, so a snapshot can always be
// written.
func EncodeValue(v any) json.RawMessage {
	if graph.IsUnset(v) {
		v = "<unset>"
	}
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(err.Error())
	}
	return data
}

// NewRecord converts a graph node record for persistence.
func NewRecord(r graph.NodeRecord) NodeRecord {
	rec := NodeRecord{
		ID:           r.ID,
		Name:         r.Name,
		Variant:      r.Variant,
		Evaluated:    r.Evaluated,
		Muted:        r.Muted,
		Predecessors: r.Predecessors,
	}
	if r.Evaluated {
		rec.Value = EncodeValue(r.Value)
	}
	return rec
}

// NewSnapshot records the current state of every node of g. Nothing is evaluated.
func NewSnapshot(g *graph.Graph, runID, name string) *Snapshot {
	records := g.Records()
	nodes := make([]NodeRecord, len(records))
	for i, r := range records {
		nodes[i] = NewRecord(r)
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		RunID:     runID,
		Graph:     name,
		Nodes:     nodes,
		Metadata:  make(map[string]any),
		Timestamp: time.Now(),
		Version:   1,
	}
}

// SortSnapshots orders snapshots by timestamp, then version.
func SortSnapshots(snapshots []*Snapshot) {
	slices.SortStableFunc(snapshots, func(a, b *Snapshot) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.Version, b.Version)
	})
}
