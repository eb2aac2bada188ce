package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/notipswe/teamreport/internal/evm"
)

// SnapshotColumns is the fixed column order of the evm worksheet,
// cumulative metrics first, then the current-sprint variants.
var SnapshotColumns = []string{
	"Timestamp",
	"Sprint",
	"Sprint Count",
	"BAC",
	"EV",
	"PV",
	"AC",
	"CPI",
	"SPI",
	"EAC",
	"ETC",
	"TEAC",
	"Burn Rate",
	"Sprint EV",
	"Sprint PV",
	"Sprint AC",
	"Sprint CPI",
	"Sprint SPI",
	"Sprint Burn Rate",
}

// Snapshot is one scheduled-run row: the cumulative project metrics plus
// the current sprint on its own.
type Snapshot struct {
	Timestamp   time.Time
	SprintName  string
	SprintCount int
	BAC         float64
	Cumulative  evm.Metrics
	Sprint      evm.Metrics
}

// CollectSnapshot runs the full cumulative pipeline: every sprint of the
// project, every qualifying work item, aggregated once over the whole
// window and once over the current sprint with its burn rate re-based on
// the sprint start. An empty issue set produces a zero-activity snapshot
// rather than an error, so quiet periods still land a row.
func (a *App) CollectSnapshot(ctx context.Context) (*Snapshot, error) {
	sprints, err := a.ProjectSprints(ctx)
	if err != nil {
		return nil, err
	}
	if len(sprints) == 0 {
		return nil, fmt.Errorf("no sprints found for project %s", a.Config.Jira.ProjectKey)
	}

	now := time.Now()
	daysElapsed := evm.ElapsedDaysSince(sprints[0].Start, now)
	budget := a.Config.Budget

	ids := make([]int64, len(sprints))
	for i, s := range sprints {
		ids[i] = s.ID
	}
	items, err := a.FetchWorkItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		a.Log.Warn().Msg("no qualifying work items, recording zero-activity snapshot")
	}
	rows := evm.BuildRows(items, a.RateTable(), nil)

	current := sprints[len(sprints)-1]
	snap := &Snapshot{
		Timestamp:   now,
		SprintName:  current.Name,
		SprintCount: len(sprints),
		BAC:         budget.BAC,
		Cumulative:  evm.Aggregate(rows, budget.BAC, budget.PlannedDays, float64(daysElapsed)),
	}

	currentItems, err := a.FetchWorkItems(ctx, []int64{current.ID})
	if err != nil {
		return nil, err
	}
	if len(currentItems) > 0 {
		sprintDays := evm.ElapsedDaysSince(current.Start, now)
		if sprintDays < 1 {
			sprintDays = 1
		}
		sprintRows := evm.BuildRows(currentItems, a.RateTable(), nil)
		snap.Sprint = evm.Aggregate(sprintRows, budget.BAC, budget.PlannedDays, float64(sprintDays))
	}
	return snap, nil
}

// Row serializes the snapshot in SnapshotColumns order, monetary values
// and indices rounded for display.
func (s *Snapshot) Row() []any {
	c, sp := s.Cumulative, s.Sprint
	return []any{
		s.Timestamp.UTC().Format(time.RFC3339),
		s.SprintName,
		s.SprintCount,
		evm.Round2(s.BAC),
		evm.Round2(c.EV),
		evm.Round2(c.PV),
		evm.Round2(c.AC),
		evm.Round2(c.CPI),
		evm.Round2(c.SPI),
		evm.Round2(c.EAC),
		evm.Round2(c.ETC),
		evm.Round2(c.TEAC),
		evm.Round2(c.BurnRate),
		evm.Round2(sp.EV),
		evm.Round2(sp.PV),
		evm.Round2(sp.AC),
		evm.Round2(sp.CPI),
		evm.Round2(sp.SPI),
		evm.Round2(sp.BurnRate),
	}
}

// CSVRow is Row rendered as strings for the semicolon CSV sink.
func (s *Snapshot) CSVRow() []string {
	row := s.Row()
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

// TrendColumns is the column order of the historical per-sprint export.
var TrendColumns = []string{
	"Timestamp",
	"Sprint",
	"EV",
	"PV",
	"AC",
	"CPI",
	"SPI",
	"EAC",
	"ETC",
	"TEAC",
	"Burn Rate",
}

// TrendRow is one historical snapshot: the cumulative metrics as they
// stood at the end of a sprint.
type TrendRow struct {
	Sprint  evm.Sprint
	Metrics evm.Metrics
}

// CollectTrend recomputes the cumulative metrics at the end of each
// closed sprint, re-basing elapsed days on that sprint's end date. This
// is the historical-trend mode; CollectSnapshot is the as-of-today mode.
func (a *App) CollectTrend(ctx context.Context) ([]TrendRow, error) {
	sprints, err := a.ProjectSprints(ctx)
	if err != nil {
		return nil, err
	}
	if len(sprints) == 0 {
		return nil, fmt.Errorf("no sprints found for project %s", a.Config.Jira.ProjectKey)
	}

	budget := a.Config.Budget
	var out []TrendRow
	var windowIDs []int64
	for _, sprint := range sprints {
		windowIDs = append(windowIDs, sprint.ID)
		if sprint.State != "closed" {
			continue
		}
		items, err := a.FetchWorkItems(ctx, windowIDs)
		if err != nil {
			return nil, err
		}
		rows := evm.BuildRows(items, a.RateTable(), nil)
		elapsed := evm.ElapsedDaysSince(sprints[0].Start, sprint.End)
		if elapsed < 1 {
			elapsed = 1
		}
		out = append(out, TrendRow{
			Sprint:  sprint,
			Metrics: evm.Aggregate(rows, budget.BAC, budget.PlannedDays, float64(elapsed)),
		})
	}
	return out, nil
}

func (t TrendRow) Row() []any {
	m := t.Metrics
	return []any{
		t.Sprint.End.UTC().Format(time.RFC3339),
		t.Sprint.Name,
		evm.Round2(m.EV),
		evm.Round2(m.PV),
		evm.Round2(m.AC),
		evm.Round2(m.CPI),
		evm.Round2(m.SPI),
		evm.Round2(m.EAC),
		evm.Round2(m.ETC),
		evm.Round2(m.TEAC),
		evm.Round2(m.BurnRate),
	}
}
