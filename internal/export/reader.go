package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	apperrors "socialgen/pkg/errors"
)

// ListDates returns the snapshot dates available under a dataset directory,
// sorted ascending. Entries that are not date-named directories are ignored.
func ListDates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewExportFailed(dir, err)
	}

	var dates []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := time.Parse(dateLayout, entry.Name()); err != nil {
			continue
		}
		dates = append(dates, entry.Name())
	}
	sort.Strings(dates)
	return dates, nil
}

// ReadDaily loads one exported snapshot back from disk
func ReadDaily(dir, date string) (DailySnapshot, error) {
	var snap DailySnapshot

	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return snap, apperrors.NewSnapshotNotFound(date)
	}

	snapDir := filepath.Join(dir, date)
	if _, err := os.Stat(snapDir); err != nil {
		return snap, apperrors.NewSnapshotNotFound(date)
	}

	if err := readJSON(filepath.Join(snapDir, "nodes.json"), &snap.Nodes); err != nil {
		return snap, err
	}
	if err := readJSON(filepath.Join(snapDir, "edges.json"), &snap.Edges); err != nil {
		return snap, err
	}
	if err := readJSON(filepath.Join(snapDir, "summary.json"), &snap.Summary); err != nil {
		return snap, err
	}

	snap.Date = parsed
	return snap, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.NewExportFailed(path, err)
	}
	return nil
}
