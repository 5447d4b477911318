package graph

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"socialgen/internal/cluster"
	"socialgen/internal/namegen"
	"socialgen/pkg/logger"
)

// BuilderConfig controls initial graph construction
type BuilderConfig struct {
	NumNodes            int
	MinInterestsPerUser int
	MaxInterestsPerUser int
	Connection          cluster.Params

	// Account creation window, in days before the start date
	AccountCreationStartDaysBefore int
	AccountCreationEndDaysBefore   int

	// Workers for the pairwise edge evaluation; <= 1 runs sequentially
	Workers int

	// Seed for the per-node edge-evaluation sub-streams
	Seed int64
}

// Builder constructs the initial node set and directed edge set using the
// clustering model's connection probabilities.
type Builder struct {
	g         *Graph
	model     *cluster.Model
	names     *namegen.Generator
	rng       *rand.Rand
	cfg       BuilderConfig
	startDate time.Time
	log       *zap.Logger
}

// NewBuilder creates a graph builder. The rand source drives node-attribute
// assignment; edge evaluation derives per-node sub-streams from cfg.Seed so
// the parallel phase stays reproducible.
func NewBuilder(g *Graph, model *cluster.Model, rng *rand.Rand, cfg BuilderConfig, startDate time.Time) *Builder {
	return &Builder{
		g:         g,
		model:     model,
		names:     namegen.NewGenerator(rng),
		rng:       rng,
		cfg:       cfg,
		startDate: startDate,
		log:       logger.Get(),
	}
}

// GenerateNodes creates the configured number of nodes, each with a
// location, an interest set, a display name and a creation timestamp drawn
// uniformly from the account-creation window before the start date.
func (b *Builder) GenerateNodes() {
	b.log.Info("Generating nodes", zap.Int("count", b.cfg.NumNodes))

	window := b.cfg.AccountCreationStartDaysBefore - b.cfg.AccountCreationEndDaysBefore
	for id := 0; id < b.cfg.NumNodes; id++ {
		lat, lon, regionID := b.model.AssignLocation()
		interests := b.model.AssignInterests(b.cfg.MinInterestsPerUser, b.cfg.MaxInterestsPerUser)

		daysBefore := b.cfg.AccountCreationEndDaysBefore
		if window > 0 {
			daysBefore += b.rng.Intn(window + 1)
		}

		b.g.AddNode(&Node{
			ID:        id,
			Name:      b.names.Name(),
			Lat:       lat,
			Lon:       lon,
			RegionID:  regionID,
			Interests: interests,
			CreatedAt: b.startDate.AddDate(0, 0, -daysBefore),
		})
	}
}

// GenerateEdges evaluates every ordered pair of distinct nodes: the pair's
// connection probability gates a direction-specific Bernoulli trial at
// 0.3 + 0.4 × avg(geo similarity, interest similarity). The evaluation is a
// pure read of node attributes, so nodes fan out across workers; the
// decided edges are applied serially afterwards.
func (b *Builder) GenerateEdges(ctx context.Context) error {
	nodes := b.g.Nodes()
	b.log.Info("Generating edges", zap.Int("nodes", len(nodes)), zap.Int("workers", b.workers()))

	results := make([][]EdgeKey, len(nodes))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.workers())
	for i := range nodes {
		i := i
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = b.evaluateNode(nodes, i)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	created := 0
	for _, keys := range results {
		for _, key := range keys {
			if _, ok := b.g.AddEdge(key.Source, key.Target, b.startDate); ok {
				created++
			}
		}
	}

	b.log.Info("Edges generated", zap.Int("created", created))
	return nil
}

// evaluateNode decides all outgoing edges for node i against every other
// node, using a sub-stream seeded from the run seed and the node index.
func (b *Builder) evaluateNode(nodes []*Node, i int) []EdgeKey {
	rng := rand.New(rand.NewSource(b.cfg.Seed + int64(i)*7919))
	src := nodes[i]

	var keys []EdgeKey
	for j, dst := range nodes {
		if i == j {
			continue
		}

		prob := b.model.ConnectionProbability(
			src.RegionID, dst.RegionID,
			src.Interests, dst.Interests,
			b.cfg.Connection,
		)
		if rng.Float64() >= prob {
			continue
		}

		// Higher similarity raises the chance the edge actually forms in
		// this direction, within [0.3, 0.7].
		similarity := (b.model.GeographicSimilarity(src.RegionID, dst.RegionID) +
			b.model.InterestSimilarity(src.Interests, dst.Interests)) / 2.0
		if rng.Float64() < 0.3+similarity*0.4 {
			keys = append(keys, EdgeKey{Source: src.ID, Target: dst.ID})
		}
	}
	return keys
}

// Generate runs node then edge generation
func (b *Builder) Generate(ctx context.Context) error {
	b.GenerateNodes()
	return b.GenerateEdges(ctx)
}

func (b *Builder) workers() int {
	if b.cfg.Workers <= 1 {
		return 1
	}
	return b.cfg.Workers
}

// TopNodesByInDegree returns the ids of the n nodes with the highest
// in-degree, ties broken by lower id. Used to fix the viral-node set at
// evolution start.
func TopNodesByInDegree(g *Graph, n int) []int {
	ids := make([]int, g.NumNodes())
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(a, b int) bool {
		da, db := g.InDegree(ids[a]), g.InDegree(ids[b])
		if da != db {
			return da > db
		}
		return ids[a] < ids[b]
	})
	if n > len(ids) {
		n = len(ids)
	}
	if n < 0 {
		n = 0
	}
	return ids[:n]
}
