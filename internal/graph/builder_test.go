package graph

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialgen/internal/cluster"
)

func testBuilderConfig(seed int64) BuilderConfig {
	return BuilderConfig{
		NumNodes:            60,
		MinInterestsPerUser: 2,
		MaxInterestsPerUser: 5,
		Connection: cluster.Params{
			BaseProb:         0.02,
			GeoBoost:         0.15,
			InterestBoost:    0.10,
			MaxInterestBoost: 0.30,
		},
		AccountCreationStartDaysBefore: 180,
		AccountCreationEndDaysBefore:   0,
		Workers:                        4,
		Seed:                           seed,
	}
}

func buildTestGraph(t *testing.T, seed int64) *Graph {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	model := cluster.NewModel(rng, 4, 20)
	cfg := testBuilderConfig(seed)

	g := NewGraph(cfg.NumNodes)
	b := NewBuilder(g, model, rng, cfg, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, b.Generate(context.Background()))
	return g
}

func TestBuilder_GeneratesNodesWithinBounds(t *testing.T) {
	g := buildTestGraph(t, 1)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 60, g.NumNodes())
	for _, n := range g.Nodes() {
		assert.NotEmpty(t, n.Name)
		assert.GreaterOrEqual(t, len(n.Interests), 2)
		assert.LessOrEqual(t, len(n.Interests), 5)
		assert.GreaterOrEqual(t, n.RegionID, 0)
		assert.Less(t, n.RegionID, 4)

		// Creation falls inside the account-creation window
		assert.False(t, n.CreatedAt.After(start))
		assert.False(t, n.CreatedAt.Before(start.AddDate(0, 0, -180)))
	}
}

func TestBuilder_EdgesHaveNoSelfLoopsOrDuplicates(t *testing.T) {
	g := buildTestGraph(t, 2)

	seen := make(map[EdgeKey]struct{})
	for _, e := range g.Edges() {
		assert.NotEqual(t, e.Source, e.Target)

		key := EdgeKey{Source: e.Source, Target: e.Target}
		_, dup := seen[key]
		assert.False(t, dup, "duplicate edge %v", key)
		seen[key] = struct{}{}

		assert.Equal(t, 0, e.MessageCount)
		assert.Nil(t, e.LastInteraction)
	}
}

func TestBuilder_DeterministicForSeed(t *testing.T) {
	g1 := buildTestGraph(t, 7)
	g2 := buildTestGraph(t, 7)

	require.Equal(t, g1.NumEdges(), g2.NumEdges())

	e1, e2 := g1.Edges(), g2.Edges()
	for i := range e1 {
		assert.Equal(t, e1[i].Source, e2[i].Source)
		assert.Equal(t, e1[i].Target, e2[i].Target)
	}
}

func TestTopNodesByInDegree(t *testing.T) {
	g := newTestGraph(t, 5)
	now := time.Now()

	// In-degrees: node 0 gets 3, node 1 gets 2, node 2 gets 1
	g.AddEdge(1, 0, now)
	g.AddEdge(2, 0, now)
	g.AddEdge(3, 0, now)
	g.AddEdge(0, 1, now)
	g.AddEdge(2, 1, now)
	g.AddEdge(0, 2, now)

	assert.Equal(t, []int{0, 1, 2}, TopNodesByInDegree(g, 3))

	// n larger than the node count is truncated
	assert.Len(t, TopNodesByInDegree(g, 50), 5)

	// Ties break toward the lower id
	top := TopNodesByInDegree(g, 5)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, top)
}
