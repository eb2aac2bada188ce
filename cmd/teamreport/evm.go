package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/notipswe/teamreport/internal/app"
	"github.com/notipswe/teamreport/internal/config"
	"github.com/notipswe/teamreport/internal/evm"
	"github.com/notipswe/teamreport/internal/export"
)

var (
	evmSprint  string
	evmCSV     string
	evmHistory bool
	evmXLSX    bool
)

var evmCmd = &cobra.Command{
	Use:   "evm",
	Short: "Earned-value metrics (PV/EV/AC, CPI/SPI, EAC/ETC/TEAC, burn rate)",
	Long: `Computes the earned-value snapshot over the project's sprints.

Without flags it prints a summary up to the target sprint (--sprint or
JIRA_SPRINT_NAME). With --csv or --google-sheet it records a cumulative
plus current-sprint snapshot row. With --history it recomputes the
cumulative series at the end of each closed sprint.`,
	RunE: runEVM,
}

func init() {
	evmCmd.Flags().StringVarP(&evmSprint, "sprint", "s", "", "Target sprint name (default $JIRA_SPRINT_NAME)")
	evmCmd.Flags().StringVar(&evmCSV, "csv", "", "Append the snapshot row to this CSV file (default <output>/evm.csv)")
	evmCmd.Flags().BoolVar(&evmHistory, "history", false, "Export the historical per-sprint trend instead of a snapshot")
	evmCmd.Flags().BoolVar(&evmXLSX, "xlsx", false, "Also write the historical trend as an Excel workbook")
}

func runEVM(cmd *cobra.Command, args []string) error {
	a, err := newApp((*config.Config).ValidateJira, (*config.Config).ValidateBudget)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if evmHistory {
		return runEVMHistory(ctx, a)
	}
	if evmCSV != "" || useSheet || cmd.Flags().Changed("csv") {
		return runEVMSnapshot(ctx, a)
	}
	return runEVMSummary(ctx, a)
}

func runEVMSnapshot(ctx context.Context, a *app.App) error {
	bar := newSpinner("Collecting EVM snapshot")
	snap, err := a.CollectSnapshot(ctx)
	finishBar(bar)
	if err != nil {
		return err
	}

	file := "evm.csv"
	path := dataPath(a, file)
	if evmCSV != "" {
		path = evmCSV
	}
	if err := export.NewCSVAppender(path).Append(app.SnapshotColumns, snap.CSVRow()); err != nil {
		return err
	}
	fmt.Printf("\nSnapshot appended to %s\n", path)

	if useSheet {
		sheets, err := sheetsClient(ctx, a)
		if err != nil {
			return err
		}
		if err := sheets.EnsureSheet(ctx, "evm-jira", app.SnapshotColumns); err != nil {
			return err
		}
		if err := sheets.AppendRow(ctx, "evm-jira", snap.Row()); err != nil {
			return err
		}
		fmt.Printf("Appended to Google Sheet: %s\n", snap.Timestamp.UTC().Format(time.RFC3339))
	}
	return nil
}

func runEVMHistory(ctx context.Context, a *app.App) error {
	bar := newSpinner("Recomputing historical trend")
	trend, err := a.CollectTrend(ctx)
	finishBar(bar)
	if err != nil {
		return err
	}
	if len(trend) == 0 {
		fmt.Println("\nNo closed sprints yet, nothing to export")
		return nil
	}

	rows := make([][]any, len(trend))
	for i, t := range trend {
		rows[i] = t.Row()
	}

	path := dataPath(a, "evm_trend.csv")
	if err := export.WriteCSV(path, app.TrendColumns, toStringRows(rows)); err != nil {
		return err
	}
	fmt.Printf("\nTrend written to %s (%d sprints)\n", path, len(trend))

	if evmXLSX {
		file, err := export.NewExcelExporter(a.Config.Output.Directory).Export("evm-trend", app.TrendColumns, rows)
		if err != nil {
			return err
		}
		fmt.Printf("Workbook written to %s\n", file)
	}

	if useSheet {
		sheets, err := sheetsClient(ctx, a)
		if err != nil {
			return err
		}
		if err := sheets.EnsureSheet(ctx, "evm-trend", app.TrendColumns); err != nil {
			return err
		}
		if err := sheets.Overwrite(ctx, "evm-trend", app.TrendColumns, rows); err != nil {
			return err
		}
		fmt.Println("Trend uploaded to Google Sheet")
	}
	return nil
}

func runEVMSummary(ctx context.Context, a *app.App) error {
	target := evmSprint
	if target == "" {
		target = a.Config.Jira.SprintName
	}
	if target == "" {
		return fmt.Errorf("no target sprint: use --sprint, JIRA_SPRINT_NAME, or --csv/--google-sheet for a snapshot run")
	}

	bar := newSpinner("Fetching sprints")
	sprints, err := a.ProjectSprints(ctx)
	finishBar(bar)
	if err != nil {
		return err
	}
	window, err := evm.SprintsThrough(sprints, target)
	if err != nil {
		return err
	}
	fmt.Printf("Sprints in window: %d\n", len(window))

	ids := make([]int64, len(window))
	for i, s := range window {
		ids[i] = s.ID
	}
	items, err := a.FetchWorkItems(ctx, ids)
	if err != nil {
		return err
	}
	rows := evm.BuildRows(items, a.RateTable(), nil)

	budget := a.Config.Budget
	elapsed := evm.ElapsedDaysSince(sprints[0].Start, time.Now())
	m := evm.Aggregate(rows, budget.BAC, budget.PlannedDays, float64(elapsed))
	printSummary(target, budget.BAC, m)
	return nil
}

func printSummary(sprint string, bac float64, m evm.Metrics) {
	fmt.Printf("\n Sprint target: %s\n", sprint)
	fmt.Printf(" BAC (Budget At Completion): EUR %10.2f\n", bac)
	fmt.Printf(" [MP01] Earned Value  (EV):      EUR %10.2f\n", evm.Round2(m.EV))
	fmt.Printf(" [MP02] Planned Value (PV):      EUR %10.2f\n", evm.Round2(m.PV))
	fmt.Printf(" [MP03] Actual Cost   (AC):      EUR %10.2f\n", evm.Round2(m.AC))
	fmt.Printf(" [MP04] Cost Perf. Index (CPI):      %10.2f\n", evm.Round2(m.CPI))
	fmt.Printf(" [MP05] Schedule Perf. Idx (SPI):    %10.2f\n", evm.Round2(m.SPI))
	fmt.Printf(" [MP06] Estimate At Completion:  EUR %10.2f\n", evm.Round2(m.EAC))
	fmt.Printf(" [MP07] Estimate To Complete:    EUR %10.2f\n", evm.Round2(m.ETC))
	fmt.Printf(" [MP08] Time Est. At Compl.:         %10.2f days\n", evm.Round2(m.TEAC))
	fmt.Printf(" [MP09] Budget Burn Rate:        EUR %10.2f/day\n", evm.Round2(m.BurnRate))
}
