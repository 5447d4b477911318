package evolve

import (
	"context"
	"math/rand"
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

var startDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newPairGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g := graph.NewGraph(n)
	for i := 0; i < n; i++ {
		require.True(t, g.AddNode(&graph.Node{ID: i, CreatedAt: startDate}))
	}
	return g
}

func newEngine(g *graph.Graph, cfg Config, seed int64) (*Engine, *graph.RelationshipEngine) {
	rel := graph.NewRelationshipEngine(g, testRelConfig)
	rel.Refresh()
	return NewEngine(g, rel, rand.New(rand.NewSource(seed)), cfg, startDate), rel
}

func TestStepDay_AdvancesDate(t *testing.T) {
	g := newPairGraph(t, 2)
	e, _ := newEngine(g, Config{}, 1)

	assert.Equal(t, startDate, e.CurrentDate())
	e.StepDay()
	assert.Equal(t, startDate.AddDate(0, 0, 1), e.CurrentDate())
}

func TestMessageActivity_StampsLastInteraction(t *testing.T) {
	g := newPairGraph(t, 2)
	g.AddEdge(0, 1, startDate)

	e, _ := newEngine(g, Config{
		DailyMessageProb:  1.0,
		MinMessagesPerDay: 1,
		MaxMessagesPerDay: 5,
	}, 1)
	e.StepDay()

	edge := g.Edge(0, 1)
	require.NotNil(t, edge)
	assert.GreaterOrEqual(t, edge.MessageCount, 1)
	assert.LessOrEqual(t, edge.MessageCount, 5)
	require.NotNil(t, edge.LastInteraction)
	assert.Equal(t, e.CurrentDate(), *edge.LastInteraction)
}

func TestFanToFriend_FollowBack(t *testing.T) {
	g := newPairGraph(t, 2)
	g.AddEdge(0, 1, startDate)

	e, rel := newEngine(g, Config{FanToFriendProb: 1.0}, 1)
	e.StepDay()

	assert.Equal(t, graph.RelationFriend, rel.RelationshipType(0, 1))
	assert.Equal(t, graph.RelationFriend, g.Edge(0, 1).Relationship)
	assert.Equal(t, graph.RelationFriend, g.Edge(1, 0).Relationship)
}

func TestFriendToFan_NeverStaysFriend(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := newPairGraph(t, 2)
		g.AddEdge(0, 1, startDate)
		g.AddEdge(1, 0, startDate)

		e, rel := newEngine(g, Config{FriendToFanProb: 1.0}, seed)
		e.StepDay()

		// Both directed edges draw a removal; depending on the chosen
		// directions the pair ends fan or none, but never friend.
		assert.NotEqual(t, graph.RelationFriend, rel.RelationshipType(0, 1), "seed %d", seed)
	}
}

func TestBreakConnection_RemovesEdges(t *testing.T) {
	g := newPairGraph(t, 3)
	g.AddEdge(0, 1, startDate)
	g.AddEdge(1, 2, startDate)

	e, _ := newEngine(g, Config{BreakConnectionProb: 1.0}, 1)
	e.StepDay()

	assert.Equal(t, 0, g.NumEdges())
}

func TestNewConnections_Appear(t *testing.T) {
	g := newPairGraph(t, 50)

	e, _ := newEngine(g, Config{NewConnectionProb: 0.2}, 1)
	e.StepDay()

	// floor(50 * 0.2) = 10 draws; a few may collide or self-pair
	assert.Greater(t, g.NumEdges(), 0)
	for _, edge := range g.Edges() {
		assert.NotEqual(t, edge.Source, edge.Target)
		assert.Equal(t, e.CurrentDate(), edge.EstablishedAt)
	}
}

func TestPopularity_GainAddsFan(t *testing.T) {
	g := newPairGraph(t, 5)

	e, _ := newEngine(g, Config{NormalGainFansProb: 1.0}, 1)
	e.StepDay()

	// Every node picks up a new follower when candidates exist
	for id := 0; id < 5; id++ {
		assert.GreaterOrEqual(t, g.InDegree(id), 1)
	}
}

func TestPopularity_LoseNeverBreaksFriendPair(t *testing.T) {
	g := newPairGraph(t, 2)
	g.AddEdge(0, 1, startDate)
	g.AddEdge(1, 0, startDate)

	e, rel := newEngine(g, Config{NormalLoseFansProb: 1.0}, 1)
	for day := 0; day < 10; day++ {
		e.StepDay()
	}

	// The only follower of each node is its mutual friend, which fan churn
	// must never remove.
	assert.Equal(t, graph.RelationFriend, rel.RelationshipType(0, 1))
}

func TestViralSet_FixedForRun(t *testing.T) {
	g := newPairGraph(t, 20)
	// Make nodes 0..4 popular
	for fan := 5; fan < 20; fan++ {
		for target := 0; target < 5; target++ {
			g.AddEdge(fan, target, startDate)
		}
	}

	e, _ := newEngine(g, Config{
		ViralNodeCount:      5,
		DailyMessageProb:    0.3,
		MaxMessagesPerDay:   10,
		FriendToFanProb:     0.1,
		FanToFriendProb:     0.1,
		NewConnectionProb:   0.1,
		BreakConnectionProb: 0.1,
		ViralGainFansProb:   0.5,
		ViralLoseFansProb:   0.2,
		NormalGainFansProb:  0.1,
		NormalLoseFansProb:  0.1,
	}, 1)

	day0 := e.ViralNodes()
	assert.Len(t, day0, 5)
	for id := 0; id < 5; id++ {
		assert.Contains(t, day0, id)
	}

	for day := 0; day < 30; day++ {
		e.StepDay()
	}

	assert.Equal(t, day0, e.ViralNodes())
}

func TestStepDay_CachesConsistentAfterEachDay(t *testing.T) {
	g := newPairGraph(t, 40)

	// Seed some structure
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 120; i++ {
		g.AddEdge(rng.Intn(40), rng.Intn(40), startDate)
	}

	e, rel := newEngine(g, Config{
		DailyMessageProb:    0.4,
		MaxMessagesPerDay:   10,
		FriendToFanProb:     0.05,
		FanToFriendProb:     0.1,
		NewConnectionProb:   0.05,
		BreakConnectionProb: 0.05,
		ViralNodeCount:      3,
		ViralGainFansProb:   0.3,
		ViralLoseFansProb:   0.1,
		NormalGainFansProb:  0.05,
		NormalLoseFansProb:  0.05,
	}, 4)

	for day := 0; day < 15; day++ {
		e.StepDay()

		seen := make(map[graph.EdgeKey]struct{})
		for _, edge := range g.Edges() {
			key := graph.EdgeKey{Source: edge.Source, Target: edge.Target}
			_, dup := seen[key]
			require.False(t, dup, "duplicate edge %v on day %d", key, day)
			seen[key] = struct{}{}

			// Cached classification matches live edge existence
			assert.Equal(t, rel.RelationshipType(edge.Source, edge.Target), edge.Relationship)
			assert.GreaterOrEqual(t, edge.Distance, 0.1)
			assert.NotEqual(t, edge.Source, edge.Target)
		}
	}
}

func TestRun_ExportErrorDoesNotHaltEvolution(t *testing.T) {
	g := newPairGraph(t, 5)
	e, _ := newEngine(g, Config{NormalGainFansProb: 0.5}, 2)

	calls := 0
	err := e.Run(context.Background(), 5, func(date time.Time, g *graph.Graph) error {
		calls++
		return assert.AnError
	})

	require.NoError(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, startDate.AddDate(0, 0, 4), e.CurrentDate())
}
