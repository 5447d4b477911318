package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "socialgen/pkg/errors"
	"socialgen/pkg/logger"
)

// Exporter writes daily snapshots and aggregated CSVs under one output
// directory. A failed write returns a typed export error and leaves the
// in-memory simulation untouched.
type Exporter struct {
	outputDir string
	log       *zap.Logger

	// aggregate rows collected across days for the CSV export
	nodeRows [][]string
	edgeRows [][]string
}

// NewExporter creates an exporter rooted at outputDir, creating it if needed
func NewExporter(outputDir string) (*Exporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, apperrors.NewExportFailed(outputDir, err)
	}
	return &Exporter{
		outputDir: outputDir,
		log:       logger.Get(),
	}, nil
}

// WriteDaily writes nodes.json, edges.json and summary.json for one
// snapshot under <outputDir>/<YYYY-MM-DD>/.
func (e *Exporter) WriteDaily(snap DailySnapshot) error {
	dir := filepath.Join(e.outputDir, snap.Date.Format(dateLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewExportFailed(dir, err)
	}

	if err := writeJSON(filepath.Join(dir, "nodes.json"), snap.Nodes); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "edges.json"), snap.Edges); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "summary.json"), snap.Summary)
}

// Collect appends a snapshot's rows to the aggregate CSV buffers
func (e *Exporter) Collect(snap DailySnapshot) {
	date := snap.Date.Format(dateLayout)

	for _, n := range snap.Nodes {
		e.nodeRows = append(e.nodeRows, []string{
			strconv.Itoa(n.UserID),
			n.Name,
			date,
			formatFloat(n.Lat),
			formatFloat(n.Lon),
			strconv.Itoa(n.RegionID),
			strings.Join(n.Interests, ","),
			n.CreatedAt,
		})
	}

	for _, edge := range snap.Edges {
		lastInteraction := ""
		if edge.LastInteraction != nil {
			lastInteraction = *edge.LastInteraction
		}
		e.edgeRows = append(e.edgeRows, []string{
			date,
			strconv.Itoa(edge.Source),
			strconv.Itoa(edge.Target),
			edge.RelationshipType,
			strconv.Itoa(edge.MessageCount),
			lastInteraction,
			formatFloat(edge.Distance),
			edge.EstablishedAt,
		})
	}
}

// WriteAggregateCSV writes nodes.csv and edges_daily.csv from the rows
// collected so far.
func (e *Exporter) WriteAggregateCSV() error {
	nodesPath := filepath.Join(e.outputDir, "nodes.csv")
	nodeHeader := []string{"user_id", "name", "date", "location_lat", "location_lon", "region_id", "interests", "created_at"}
	if err := writeCSV(nodesPath, nodeHeader, e.nodeRows); err != nil {
		return err
	}

	edgesPath := filepath.Join(e.outputDir, "edges_daily.csv")
	edgeHeader := []string{"date", "source", "target", "relationship_type", "message_count", "last_interaction", "distance", "established_at"}
	if err := writeCSV(edgesPath, edgeHeader, e.edgeRows); err != nil {
		return err
	}

	e.log.Info("Aggregate CSVs written",
		zap.String("nodes", nodesPath),
		zap.String("edges", edgesPath),
	)
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
