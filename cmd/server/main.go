package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialgen/internal/export"
	"socialgen/pkg/config"
	apperrors "socialgen/pkg/errors"
	"socialgen/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting dataset API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if _, err := os.Stat(cfg.OutputDir); err != nil {
		log.Fatal("Dataset directory not found", zap.String("dir", cfg.OutputDir), zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg.OutputDir, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port), zap.String("dataset", cfg.OutputDir))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newRouter builds the read-only snapshot API over an exported dataset
// directory.
func newRouter(datasetDir string, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// List available snapshot dates
		api.GET("/dates", func(c *gin.Context) {
			dates, err := export.ListDates(datasetDir)
			if err != nil {
				log.Error("Failed to list snapshot dates", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list dates"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"dates": dates})
		})

		// Full record sets for one day
		api.GET("/snapshot/:date/nodes", func(c *gin.Context) {
			snap, ok := loadSnapshot(c, datasetDir, log)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, snap.Nodes)
		})

		api.GET("/snapshot/:date/edges", func(c *gin.Context) {
			snap, ok := loadSnapshot(c, datasetDir, log)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, snap.Edges)
		})

		api.GET("/snapshot/:date/summary", func(c *gin.Context) {
			snap, ok := loadSnapshot(c, datasetDir, log)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, snap.Summary)
		})

		// One node plus its incident edges
		api.GET("/snapshot/:date/node/:id", func(c *gin.Context) {
			snap, ok := loadSnapshot(c, datasetDir, log)
			if !ok {
				return
			}

			id, err := strconv.Atoi(c.Param("id"))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid node id"})
				return
			}

			for _, node := range snap.Nodes {
				if node.UserID == id {
					var incident []export.EdgeRecord
					for _, edge := range snap.Edges {
						if edge.Source == id || edge.Target == id {
							incident = append(incident, edge)
						}
					}
					c.JSON(http.StatusOK, gin.H{"node": node, "edges": incident})
					return
				}
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		})

		// Mutual friends of a pair as of one day
		api.POST("/snapshot/:date/mutual-friends", func(c *gin.Context) {
			snap, ok := loadSnapshot(c, datasetDir, log)
			if !ok {
				return
			}

			var req struct {
				User1 *int `json:"user1" binding:"required"`
				User2 *int `json:"user2" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			mutual := mutualFriends(snap.Edges, *req.User1, *req.User2)
			c.JSON(http.StatusOK, gin.H{
				"user1":          *req.User1,
				"user2":          *req.User2,
				"mutual_friends": mutual,
			})
		})
	}

	return router
}

func loadSnapshot(c *gin.Context, datasetDir string, log *zap.Logger) (export.DailySnapshot, bool) {
	date := c.Param("date")
	snap, err := export.ReadDaily(datasetDir, date)
	if err != nil {
		var notFound *apperrors.ErrSnapshotNotFound
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Snapshot not found"})
			return snap, false
		}
		log.Error("Failed to read snapshot", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read snapshot"})
		return snap, false
	}
	return snap, true
}

// mutualFriends finds the nodes both users follow that follow both back,
// from a snapshot's directed edge records.
func mutualFriends(edges []export.EdgeRecord, user1, user2 int) []int {
	follows := make(map[[2]int]struct{}, len(edges))
	for _, edge := range edges {
		follows[[2]int{edge.Source, edge.Target}] = struct{}{}
	}
	has := func(a, b int) bool {
		_, ok := follows[[2]int{a, b}]
		return ok
	}

	mutual := []int{}
	for _, edge := range edges {
		if edge.Source != user1 {
			continue
		}
		m := edge.Target
		if has(user2, m) && has(m, user1) && has(m, user2) {
			mutual = append(mutual, m)
		}
	}
	return mutual
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("HTTP Request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
