package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/lazygraph/store"
)

var columns = []string{"id", "run_id", "graph", "nodes", "metadata", "timestamp", "version"}

func testSnapshot() *store.Snapshot {
	return &store.Snapshot{
		ID:    "snap-1",
		RunID: "run-1",
		Graph: "pipeline",
		Nodes: []store.NodeRecord{
			{ID: "x_0", Name: "x", Variant: "Variable", Evaluated: true, Value: json.RawMessage(`2`)},
			{ID: "Plus_1", Variant: "BinOp", Evaluated: true, Value: json.RawMessage(`4`), Predecessors: []string{"x_0", "x_0"}},
		},
		Metadata:  map[string]any{"error": "none"},
		Timestamp: time.Now(),
		Version:   1,
	}
}

func TestPostgresSnapshotStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresSnapshotStoreWithPool(mock, "")
	snap := testSnapshot()

	nodesJSON, _ := json.Marshal(snap.Nodes)
	metadataJSON, _ := json.Marshal(snap.Metadata)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO snapshots")).
		WithArgs(snap.ID, snap.RunID, snap.Graph, nodesJSON, metadataJSON, snap.Timestamp, snap.Version).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Save(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresSnapshotStoreWithPool(mock, "snapshots")
	snap := testSnapshot()
	nodesJSON, _ := json.Marshal(snap.Nodes)
	metadataJSON, _ := json.Marshal(snap.Metadata)

	rows := pgxmock.NewRows(columns).
		AddRow(snap.ID, snap.RunID, snap.Graph, nodesJSON, metadataJSON, snap.Timestamp, snap.Version)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, run_id, graph, nodes, metadata, timestamp, version FROM snapshots WHERE id = $1")).
		WithArgs(snap.ID).
		WillReturnRows(rows)

	loaded, err := s.Load(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.RunID, loaded.RunID)
	assert.Equal(t, "pipeline", loaded.Graph)
	require.Len(t, loaded.Nodes, 2)
	assert.JSONEq(t, `4`, string(loaded.Nodes[1].Value))
	assert.Equal(t, []string{"x_0", "x_0"}, loaded.Nodes[1].Predecessors)
	assert.Equal(t, "none", loaded.Metadata["error"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_LoadNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, run_id, graph, nodes, metadata, timestamp, version FROM snapshots WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err = s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresSnapshotStoreWithPool(mock, "snapshots")
	snap := testSnapshot()
	nodesJSON, _ := json.Marshal(snap.Nodes)
	metadataJSON, _ := json.Marshal(snap.Metadata)

	rows := pgxmock.NewRows(columns).
		AddRow("snap-1", "run-1", "pipeline", nodesJSON, metadataJSON, snap.Timestamp, 1).
		AddRow("snap-2", "run-1", "pipeline", nodesJSON, metadataJSON, snap.Timestamp, 2)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, run_id, graph, nodes, metadata, timestamp, version FROM snapshots WHERE run_id = $1 ORDER BY timestamp ASC, version ASC")).
		WithArgs("run-1").
		WillReturnRows(rows)

	list, err := s.List(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "snap-1", list[0].ID)
	assert.Equal(t, 2, list[1].Version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_DeleteAndClear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresSnapshotStoreWithPool(mock, "snapshots")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM snapshots WHERE id = $1")).
		WithArgs("snap-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM snapshots WHERE run_id = $1")).
		WithArgs("run-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, s.Delete(context.Background(), "snap-1"))
	require.NoError(t, s.Clear(context.Background(), "run-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSnapshotStore_InitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresSnapshotStoreWithPool(mock, "runs")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS runs")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	require.NoError(t, s.InitSchema(context.Background()))

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS runs")).
		WillReturnError(errors.New("permission denied"))
	err = s.InitSchema(context.Background())
	assert.ErrorContains(t, err, "failed to create schema")

	assert.NoError(t, mock.ExpectationsWereMet())
}
