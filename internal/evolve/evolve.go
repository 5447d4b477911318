package evolve

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"socialgen/internal/graph"
	"socialgen/pkg/logger"
)

// Config holds the daily transition probabilities
type Config struct {
	DailyMessageProb  float64
	MinMessagesPerDay int
	MaxMessagesPerDay int

	FriendToFanProb     float64
	FanToFriendProb     float64
	NewConnectionProb   float64
	BreakConnectionProb float64

	ViralNodeCount     int
	ViralGainFansProb  float64
	ViralLoseFansProb  float64
	NormalGainFansProb float64
	NormalLoseFansProb float64
}

// Engine advances the graph one simulated day at a time. It owns the graph
// for the run's duration; the viral-node set is fixed at construction from
// initial in-degree and never changes afterwards.
type Engine struct {
	g       *graph.Graph
	rel     *graph.RelationshipEngine
	rng     *rand.Rand
	cfg     Config
	current time.Time
	viral   map[int]struct{}
	log     *zap.Logger
}

// NewEngine creates an evolution engine starting at startDate. The viral set
// is the ViralNodeCount nodes with the highest in-degree at this moment.
func NewEngine(g *graph.Graph, rel *graph.RelationshipEngine, rng *rand.Rand, cfg Config, startDate time.Time) *Engine {
	viral := make(map[int]struct{}, cfg.ViralNodeCount)
	for _, id := range graph.TopNodesByInDegree(g, cfg.ViralNodeCount) {
		viral[id] = struct{}{}
	}

	return &Engine{
		g:       g,
		rel:     rel,
		rng:     rng,
		cfg:     cfg,
		current: startDate,
		viral:   viral,
		log:     logger.Get(),
	}
}

// CurrentDate returns the current simulated date
func (e *Engine) CurrentDate() time.Time {
	return e.current
}

// Graph returns the engine's graph for read-only enumeration
func (e *Engine) Graph() *graph.Graph {
	return e.g
}

// ViralNodes reports the fixed viral set as a membership map copy
func (e *Engine) ViralNodes() map[int]struct{} {
	out := make(map[int]struct{}, len(e.viral))
	for id := range e.viral {
		out[id] = struct{}{}
	}
	return out
}

// StepDay advances the simulation by one day: message activity, relationship
// transitions, popularity dynamics, then a full recompute of the cached
// relationship types and distances.
func (e *Engine) StepDay() {
	e.current = e.current.AddDate(0, 0, 1)

	e.updateMessageCounts()
	e.updateRelationships()
	e.updatePopularNodes()

	e.rel.Refresh()
}

// Run drives the engine for the given number of days, invoking perDay on the
// finalized state of each day (day 0 is the initial state). A perDay error
// is logged and skipped: a failed export never blocks or rolls back the
// day-advance.
func (e *Engine) Run(ctx context.Context, days int, perDay func(date time.Time, g *graph.Graph) error) error {
	for day := 0; day < days; day++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if perDay != nil {
			if err := perDay(e.current, e.g); err != nil {
				e.log.Warn("Per-day callback failed",
					zap.String("date", e.current.Format("2006-01-02")),
					zap.Error(err),
				)
			}
		}

		if day < days-1 {
			e.StepDay()
		}
	}
	return nil
}

// updateMessageCounts adds a bounded random message increment to each edge
// with the configured probability and stamps the last interaction.
func (e *Engine) updateMessageCounts() {
	for _, edge := range e.g.Edges() {
		if e.rng.Float64() >= e.cfg.DailyMessageProb {
			continue
		}

		span := e.cfg.MaxMessagesPerDay - e.cfg.MinMessagesPerDay
		increment := e.cfg.MinMessagesPerDay
		if span > 0 {
			increment += e.rng.Intn(span + 1)
		}

		edge.MessageCount += increment
		when := e.current
		edge.LastInteraction = &when
	}
}

// updateRelationships runs the daily transition rules as a strict
// collect-then-apply sequence: all intended removals and additions are
// decided against the step-start classification, then removals are applied
// before additions. A queued removal whose edge is already gone is skipped.
func (e *Engine) updateRelationships() {
	var removals, additions []graph.EdgeKey

	for _, edge := range e.g.Edges() {
		a, b := edge.Source, edge.Target

		switch e.rel.RelationshipType(a, b) {
		case graph.RelationFriend:
			// One side unfollows, breaking mutuality
			if e.rng.Float64() < e.cfg.FriendToFanProb {
				if e.rng.Float64() < 0.5 {
					removals = append(removals, graph.EdgeKey{Source: a, Target: b})
				} else {
					removals = append(removals, graph.EdgeKey{Source: b, Target: a})
				}
			}
		case graph.RelationFan:
			// Follow-back establishes mutuality
			if e.rng.Float64() < e.cfg.FanToFriendProb {
				if !e.g.HasEdge(b, a) {
					additions = append(additions, graph.EdgeKey{Source: b, Target: a})
				}
			}
		}

		// Organic breakup, evaluated per directed edge
		if e.rng.Float64() < e.cfg.BreakConnectionProb {
			removals = append(removals, graph.EdgeKey{Source: a, Target: b})
		}
	}

	// A few entirely new one-way connections
	n := e.g.NumNodes()
	for i := 0; i < int(float64(n)*e.cfg.NewConnectionProb); i++ {
		a := e.rng.Intn(n)
		b := e.rng.Intn(n)
		if a == b {
			continue
		}
		if !e.g.HasEdge(a, b) {
			additions = append(additions, graph.EdgeKey{Source: a, Target: b})
		}
	}

	// Removals before additions, so a freshly added edge is never torn down
	// by a stale queued removal for the same pair.
	for _, key := range removals {
		e.g.RemoveEdge(key.Source, key.Target)
	}
	for _, key := range additions {
		e.g.AddEdge(key.Source, key.Target, e.current)
	}
}

// updatePopularNodes applies the fan gain/loss dynamics per node, using the
// viral probabilities for members of the fixed viral set.
func (e *Engine) updatePopularNodes() {
	n := e.g.NumNodes()

	for id := 0; id < n; id++ {
		_, isViral := e.viral[id]

		gainProb := e.cfg.NormalGainFansProb
		loseProb := e.cfg.NormalLoseFansProb
		if isViral {
			gainProb = e.cfg.ViralGainFansProb
			loseProb = e.cfg.ViralLoseFansProb
		}

		if e.rng.Float64() < gainProb {
			if fan, ok := e.pickNonFollower(id); ok {
				e.g.AddEdge(fan, id, e.current)
			}
		}

		if e.rng.Float64() < loseProb {
			followers := e.g.Followers(id)
			if len(followers) > 0 {
				fan := followers[e.rng.Intn(len(followers))]
				// Never break a mutual pair through fan churn
				if e.rel.RelationshipType(fan, id) == graph.RelationFan {
					e.g.RemoveEdge(fan, id)
				}
			}
		}
	}
}

// pickNonFollower returns a uniformly random node that does not currently
// follow id, or false when every other node already does.
func (e *Engine) pickNonFollower(id int) (int, bool) {
	candidates := make([]int, 0, e.g.NumNodes())
	for other := 0; other < e.g.NumNodes(); other++ {
		if other != id && !e.g.HasEdge(other, id) {
			candidates = append(candidates, other)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[e.rng.Intn(len(candidates))], true
}
