package web

import (
	"encoding/csv"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// metricFiles maps API routes to the CSV files the reporting commands
// append to.
var metricFiles = map[string]string{
	"/api/evm":            "evm.csv",
	"/api/evm/trend":      "evm_trend.csv",
	"/api/velocity":       "velocity.csv",
	"/api/efficiency":     "efficiency.csv",
	"/api/quality-gate":   "quality_gate.csv",
	"/api/commit-quality": "commit_quality.csv",
	"/api/pr-resolution":  "pr_resolution.csv",
}

// Run serves the exported CSV snapshots as JSON for the local dashboard.
// Read-only; the reporting commands stay the only writers.
func Run(addr, dataDir string, log zerolog.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	for route, filename := range metricFiles {
		path := filepath.Join(dataDir, filename)
		e.GET(route, func(c echo.Context) error {
			rows, err := readCSV(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return c.JSON(http.StatusNotFound, map[string]any{
						"error": "no data recorded yet",
						"file":  path,
					})
				}
				return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
			}
			return c.JSON(http.StatusOK, rows)
		})
	}

	log.Info().Str("addr", addr).Str("data", dataDir).Msg("dashboard API listening")
	return e.Start(addr)
}

// readCSV loads a semicolon-separated snapshot file into one JSON object
// per row, keyed by the header line.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []map[string]string{}, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
