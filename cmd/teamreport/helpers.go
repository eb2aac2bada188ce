package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/notipswe/teamreport/internal/app"
	"github.com/notipswe/teamreport/internal/config"
	"github.com/notipswe/teamreport/internal/export"
	"github.com/notipswe/teamreport/internal/logger"
)

// newApp loads configuration, runs the validators the command needs and
// wires the application. Validation failures abort before any fetch.
func newApp(validators ...func(*config.Config) error) (*app.App, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.Output.Directory = outputDir
	}
	if useSheet {
		validators = append(validators, (*config.Config).ValidateGoogle)
	}
	for _, validate := range validators {
		if err := validate(cfg); err != nil {
			return nil, err
		}
	}
	return app.New(cfg, logger.New(verbose)), nil
}

func dataPath(a *app.App, name string) string {
	return filepath.Join(a.Config.Output.Directory, name)
}

func sheetsClient(ctx context.Context, a *app.App) (*export.SheetsClient, error) {
	return export.NewSheetsClient(ctx, []byte(a.Config.Google.CredentialsJSON), a.Config.Google.SpreadsheetID, a.Log)
}

// appendSnapshot writes one row to the CSV snapshot and, when requested,
// the dashboard worksheet.
func appendSnapshot(ctx context.Context, a *app.App, file, worksheet string, header []string, row []any) error {
	if err := export.NewCSVAppender(dataPath(a, file)).Append(header, toStrings(row)); err != nil {
		return err
	}
	if !useSheet {
		return nil
	}
	sheets, err := sheetsClient(ctx, a)
	if err != nil {
		return err
	}
	if err := sheets.EnsureSheet(ctx, worksheet, header); err != nil {
		return err
	}
	return sheets.AppendRow(ctx, worksheet, row)
}

func toStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch t := v.(type) {
		case string:
			out[i] = t
		case int:
			out[i] = strconv.Itoa(t)
		case float64:
			out[i] = strconv.FormatFloat(t, 'f', 2, 64)
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}

func toStringRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = toStrings(r)
	}
	return out
}

func newSpinner(description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = bar.RenderBlank()
	return bar
}

func newBar(count int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
