package main

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialgen/internal/cluster"
	"socialgen/internal/evolve"
	"socialgen/internal/export"
	"socialgen/internal/graph"
	"socialgen/pkg/config"
	"socialgen/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting dataset generation...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	runID := uuid.New().String()
	log.Info("Run configured",
		zap.String("run_id", runID),
		zap.Int("nodes", cfg.NumNodes),
		zap.Int("days", cfg.NumDays),
		zap.String("start_date", cfg.StartDate.Format("2006-01-02")),
		zap.String("output_dir", cfg.OutputDir),
		zap.Int64("seed", cfg.Seed),
	)

	rng := rand.New(rand.NewSource(cfg.Seed))
	model := cluster.NewModel(rng, cfg.NumRegions, cfg.TotalInterestCategories)

	// Build the initial graph
	g := graph.NewGraph(cfg.NumNodes)
	builder := graph.NewBuilder(g, model, rng, graph.BuilderConfig{
		NumNodes:            cfg.NumNodes,
		MinInterestsPerUser: cfg.MinInterestsPerUser,
		MaxInterestsPerUser: cfg.MaxInterestsPerUser,
		Connection: cluster.Params{
			BaseProb:         cfg.BaseConnectionProb,
			GeoBoost:         cfg.GeographicBoost,
			InterestBoost:    cfg.InterestOverlapBoost,
			MaxInterestBoost: cfg.MaxInterestBoost,
		},
		AccountCreationStartDaysBefore: cfg.AccountCreationStartDaysBefore,
		AccountCreationEndDaysBefore:   cfg.AccountCreationEndDaysBefore,
		Workers:                        runtime.GOMAXPROCS(0),
		Seed:                           cfg.Seed,
	}, cfg.StartDate)

	ctx := context.Background()
	start := time.Now()
	if err := builder.Generate(ctx); err != nil {
		log.Fatal("Failed to build initial graph", zap.Error(err))
	}
	log.Info("Initial graph built",
		zap.Int("nodes", g.NumNodes()),
		zap.Int("edges", g.NumEdges()),
		zap.Duration("elapsed", time.Since(start)),
	)

	// Establish the initial classification and distances
	rel := graph.NewRelationshipEngine(g, graph.RelationshipConfig{
		FriendBaseDistance: cfg.FriendBaseDistance,
		FanBaseDistance:    cfg.FanBaseDistance,
		MutualFriendWeight: cfg.MutualFriendWeight,
		MessageFreqWeight:  cfg.MessageFreqWeight,
	})
	rel.Refresh()

	engine := evolve.NewEngine(g, rel, rng, evolve.Config{
		DailyMessageProb:    cfg.DailyMessageProb,
		MinMessagesPerDay:   cfg.MinMessagesPerDay,
		MaxMessagesPerDay:   cfg.MaxMessagesPerDay,
		FriendToFanProb:     cfg.FriendToFanProb,
		FanToFriendProb:     cfg.FanToFriendProb,
		NewConnectionProb:   cfg.NewConnectionProb,
		BreakConnectionProb: cfg.BreakConnectionProb,
		ViralNodeCount:      cfg.ViralNodeCount,
		ViralGainFansProb:   cfg.ViralGainFansProb,
		ViralLoseFansProb:   cfg.ViralLoseFansProb,
		NormalGainFansProb:  cfg.NormalGainFansProb,
		NormalLoseFansProb:  cfg.NormalLoseFansProb,
	}, cfg.StartDate)

	exporter, err := export.NewExporter(cfg.OutputDir)
	if err != nil {
		log.Fatal("Failed to create exporter", zap.Error(err))
	}

	log.Info("Generating daily snapshots", zap.Int("days", cfg.NumDays))
	day := 0
	err = engine.Run(ctx, cfg.NumDays, func(date time.Time, g *graph.Graph) error {
		day++
		if day == 1 || day%10 == 0 {
			log.Info("Snapshot",
				zap.Int("day", day),
				zap.String("date", date.Format("2006-01-02")),
				zap.Int("edges", g.NumEdges()),
			)
		}

		snap := export.Snapshot(g, rel, runID, date)
		if cfg.ExportCSV {
			exporter.Collect(snap)
		}
		if cfg.ExportJSON {
			return exporter.WriteDaily(snap)
		}
		return nil
	})
	if err != nil {
		log.Fatal("Evolution run failed", zap.Error(err))
	}

	if cfg.ExportCSV {
		if err := exporter.WriteAggregateCSV(); err != nil {
			log.Error("Failed to write aggregate CSVs", zap.Error(err))
		}
	}

	log.Info("Dataset generation complete",
		zap.String("run_id", runID),
		zap.String("output_dir", cfg.OutputDir),
		zap.Duration("elapsed", time.Since(start)),
	)
}
