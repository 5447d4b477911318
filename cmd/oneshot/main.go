package main

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"go.uber.org/zap"

	"socialgen/internal/oneshot"
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
	log.Info("Starting one-shot dataset generation...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	gen := oneshot.NewGenerator(rng, cfg.OneshotNumUsers, cfg.OneshotConnectionProb)

	users, connections := gen.Generate()
	stats := oneshot.Summarize(users, connections)

	outDir := filepath.Join(cfg.OutputDir, "oneshot")
	if err := oneshot.WriteFiles(outDir, users, connections); err != nil {
		log.Fatal("Failed to write dataset", zap.Error(err))
	}

	log.Info("One-shot dataset written",
		zap.String("output_dir", outDir),
		zap.Int("users", stats.TotalUsers),
		zap.Int("connections", stats.TotalConnections),
		zap.Float64("avg_connections", stats.AvgConnections),
		zap.Float64("avg_messages", stats.AvgMessages),
		zap.Float64("avg_mutuals", stats.AvgMutuals),
		zap.Float64("density", stats.Density),
	)
}
