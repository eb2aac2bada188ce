package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVAppender appends snapshot rows to a semicolon-separated file, the
// format the dashboard importer expects. The header is written only when
// the file is created; re-runs append, they never rewrite.
type CSVAppender struct {
	Path string
}

func NewCSVAppender(path string) *CSVAppender {
	return &CSVAppender{Path: path}
}

func (a *CSVAppender) Append(header, row []string) error {
	return a.AppendRows(header, [][]string{row})
}

func (a *CSVAppender) AppendRows(header []string, rows [][]string) error {
	if dir := filepath.Dir(a.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	_, statErr := os.Stat(a.Path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(a.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", a.Path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'
	defer writer.Flush()

	if writeHeader {
		if err := writer.Write(header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSV rewrites a snapshot file from scratch. Used by the historical
// exports that recompute their whole series each run.
func WriteCSV(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = ';'
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
