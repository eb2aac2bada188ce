package web

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evm.csv")
	content := "Timestamp;EV;AC\n2026-08-30T06:00:00Z;100.00;50.00\n2026-08-30T18:00:00Z;120.00;70.00\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := readCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["EV"] != "100.00" || rows[1]["AC"] != "70.00" {
		t.Errorf("got %+v, want values keyed by header", rows)
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := readCSV(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want ErrNotExist", err)
	}
}

func TestReadCSVEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	rows, err := readCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestEveryMetricRouteHasAFile(t *testing.T) {
	seen := map[string]bool{}
	for route, file := range metricFiles {
		if file == "" {
			t.Errorf("route %s has no file", route)
		}
		if seen[file] {
			t.Errorf("file %s served by two routes", file)
		}
		seen[file] = true
	}
}
