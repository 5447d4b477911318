package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialgen/internal/graph"
)

var testRelConfig = graph.RelationshipConfig{
	FriendBaseDistance: 5.0,
	FanBaseDistance:    15.0,
	MutualFriendWeight: 0.5,
	MessageFreqWeight:  0.3,
}

var testDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func buildSnapshotFixture(t *testing.T) (DailySnapshot, *graph.Graph) {
	t.Helper()

	g := graph.NewGraph(4)
	for i := 0; i < 4; i++ {
		require.True(t, g.AddNode(&graph.Node{
			ID:        i,
			Name:      "User",
			RegionID:  i % 2,
			Interests: map[string]struct{}{"interest_1": {}, "interest_0": {}},
			CreatedAt: testDate.AddDate(0, 0, -30),
		}))
	}

	// One friend pair (0,1), one fan edge 2→3
	g.AddEdge(0, 1, testDate)
	g.AddEdge(1, 0, testDate)
	g.AddEdge(2, 3, testDate)

	rel := graph.NewRelationshipEngine(g, testRelConfig)
	rel.Refresh()

	return Snapshot(g, rel, "run-1", testDate), g
}

func TestSnapshot_CountsAndShapes(t *testing.T) {
	snap, _ := buildSnapshotFixture(t)

	assert.Equal(t, "2024-01-15", snap.Summary.Date)
	assert.Equal(t, "run-1", snap.Summary.RunID)
	assert.Equal(t, 4, snap.Summary.TotalNodes)
	assert.Equal(t, 3, snap.Summary.TotalEdges)

	// The friend pair is counted once even though it spans two edges
	assert.Equal(t, 1, snap.Summary.FriendRelationships)
	assert.Equal(t, 1, snap.Summary.FanRelationships)
	assert.InDelta(t, 1.5, snap.Summary.AverageDegree, 1e-9)

	require.Len(t, snap.Nodes, 4)
	assert.Equal(t, []string{"interest_0", "interest_1"}, snap.Nodes[0].Interests)

	require.Len(t, snap.Edges, 3)
	assert.Equal(t, "friend", snap.Edges[0].RelationshipType)
	assert.Nil(t, snap.Edges[0].LastInteraction)
}

func TestSnapshot_EmptyGraph(t *testing.T) {
	g := graph.NewGraph(0)
	rel := graph.NewRelationshipEngine(g, testRelConfig)

	snap := Snapshot(g, rel, "run-empty", testDate)
	assert.Equal(t, 0, snap.Summary.TotalNodes)
	assert.Equal(t, 0.0, snap.Summary.AverageDegree)
	assert.Empty(t, snap.Nodes)
	assert.Empty(t, snap.Edges)
}

func TestWriteDaily_RoundTrip(t *testing.T) {
	snap, _ := buildSnapshotFixture(t)
	dir := t.TempDir()

	exporter, err := NewExporter(dir)
	require.NoError(t, err)
	require.NoError(t, exporter.WriteDaily(snap))

	dates, err := ListDates(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-15"}, dates)

	loaded, err := ReadDaily(dir, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, snap.Nodes, loaded.Nodes)
	assert.Equal(t, snap.Edges, loaded.Edges)
	assert.Equal(t, snap.Summary, loaded.Summary)
}

func TestReadDaily_MissingSnapshot(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadDaily(dir, "2024-02-01")
	assert.Error(t, err)

	_, err = ReadDaily(dir, "not-a-date")
	assert.Error(t, err)
}

func TestWriteAggregateCSV(t *testing.T) {
	snap, _ := buildSnapshotFixture(t)
	dir := t.TempDir()

	exporter, err := NewExporter(dir)
	require.NoError(t, err)

	exporter.Collect(snap)
	exporter.Collect(snap)
	require.NoError(t, exporter.WriteAggregateCSV())

	assert.FileExists(t, dir+"/nodes.csv")
	assert.FileExists(t, dir+"/edges_daily.csv")
}
