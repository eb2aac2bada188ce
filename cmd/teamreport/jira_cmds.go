package main

import (
	"fmt"
	"sort"
	"time"

	lo "github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/notipswe/teamreport/internal/config"
	"github.com/notipswe/teamreport/internal/evm"
	"github.com/notipswe/teamreport/internal/export"
	"github.com/notipswe/teamreport/internal/stats"
)

var velocitySprint string

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Sprint velocity stability (1 - stddev/mean of logged hours)",
	RunE:  runVelocity,
}

var efficiencyCmd = &cobra.Command{
	Use:   "efficiency",
	Short: "Time efficiency per closed sprint (productive vs estimated hours)",
	RunE:  runEfficiency,
}

func init() {
	velocityCmd.Flags().StringVarP(&velocitySprint, "sprint", "s", "", "Target sprint name (default $JIRA_SPRINT_NAME)")
}

var velocityColumns = []string{"Timestamp", "Sprint", "Hours", "Mean Hours", "Stability %"}

func runVelocity(cmd *cobra.Command, args []string) error {
	a, err := newApp((*config.Config).ValidateJira)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	target := velocitySprint
	if target == "" {
		target = a.Config.Jira.SprintName
	}
	if target == "" {
		return fmt.Errorf("no target sprint: use --sprint or JIRA_SPRINT_NAME")
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
	closed := lo.Filter(window, func(s evm.Sprint, _ int) bool { return s.State == "closed" })
	if len(closed) == 0 {
		fmt.Println("No closed sprints in the window, nothing to record")
		return nil
	}

	fmt.Printf("Analyzing logged hours for %d closed sprints...\n", len(closed))
	velocities := make([]stats.SprintVelocity, 0, len(closed))
	for _, s := range closed {
		seconds, err := a.SprintDoneSpentSeconds(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("sprint %s: %w", s.Name, err)
		}
		hours := evm.Round2(float64(seconds) / 3600.0)
		velocities = append(velocities, stats.SprintVelocity{Sprint: s.Name, Hours: hours})
		fmt.Printf(" - %s: %.2f h\n", s.Name, hours)
	}

	result := stats.Stability(velocities)
	fmt.Printf("\n [MP21] Sprint velocity stability: %.2f%%\n", evm.Round2(result.StabilityPct))
	fmt.Printf(" Mean velocity: %.2f h\n", evm.Round2(result.MeanHours))

	timestamp := time.Now().UTC().Format(time.RFC3339)
	rows := make([][]any, len(result.Sprints))
	for i, v := range result.Sprints {
		rows[i] = []any{
			timestamp,
			v.Sprint,
			v.Hours,
			evm.Round2(result.MeanHours),
			fmt.Sprintf("%.2f%%", evm.Round2(result.StabilityPct)),
		}
	}
	if err := export.NewCSVAppender(dataPath(a, "velocity.csv")).AppendRows(velocityColumns, toStringRows(rows)); err != nil {
		return err
	}
	if useSheet {
		sheets, err := sheetsClient(ctx, a)
		if err != nil {
			return err
		}
		if err := sheets.EnsureSheet(ctx, "sprint-velocity-stability", velocityColumns); err != nil {
			return err
		}
		if err := sheets.AppendRows(ctx, "sprint-velocity-stability", rows); err != nil {
			return err
		}
		fmt.Printf("Uploaded %d rows to the dashboard\n", len(rows))
	}
	return nil
}

var efficiencyColumns = []string{"Timestamp", "Sprint", "Productive Hours", "Estimated Hours", "Sprint Efficiency %", "Cumulative Efficiency %"}

func runEfficiency(cmd *cobra.Command, args []string) error {
	a, err := newApp((*config.Config).ValidateJira)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	bar := newSpinner("Fetching closed sprints")
	sprints, err := a.ProjectSprints(ctx)
	finishBar(bar)
	if err != nil {
		return err
	}
	closed := lo.Filter(sprints, func(s evm.Sprint, _ int) bool { return s.State == "closed" })
	sort.SliceStable(closed, func(i, j int) bool { return closed[i].End.Before(closed[j].End) })
	if len(closed) == 0 {
		fmt.Println("No closed sprints yet, nothing to record")
		return nil
	}

	efforts := make([]stats.SprintEffort, 0, len(closed))
	for _, s := range closed {
		effort, err := a.SprintEffort(ctx, s)
		if err != nil {
			return fmt.Errorf("sprint %s: %w", s.Name, err)
		}
		efforts = append(efforts, effort)
		fmt.Printf(" - Processed: %s\n", s.Name)
	}

	rows := stats.BuildEfficiencies(efforts)
	if len(rows) == 0 {
		fmt.Println("No sprint carried an estimate, nothing to record")
		return nil
	}

	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{
			r.End.UTC().Format(time.RFC3339),
			r.Sprint,
			evm.Round2(r.ProductiveHours),
			evm.Round2(r.EstimatedHours),
			fmt.Sprintf("%.2f%%", evm.Round2(r.Percent)),
			fmt.Sprintf("%.2f%%", evm.Round2(r.CumulativePct)),
		}
	}
	if err := export.WriteCSV(dataPath(a, "efficiency.csv"), efficiencyColumns, toStringRows(out)); err != nil {
		return err
	}
	fmt.Printf("\nEfficiency series written for %d sprints\n", len(rows))

	if useSheet {
		sheets, err := sheetsClient(ctx, a)
		if err != nil {
			return err
		}
		if err := sheets.EnsureSheet(ctx, "time-efficiency", efficiencyColumns); err != nil {
			return err
		}
		if err := sheets.Overwrite(ctx, "time-efficiency", efficiencyColumns, out); err != nil {
			return err
		}
		fmt.Println("Uploaded to the dashboard")
	}
	return nil
}
