package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/notipswe/teamreport/internal/config"
	"github.com/notipswe/teamreport/internal/evm"
	"github.com/notipswe/teamreport/internal/export"
	"github.com/notipswe/teamreport/internal/stats"
)

var lookbackDays int

var qualityGateCmd = &cobra.Command{
	Use:   "quality-gate",
	Short: "Workflow run pass rate per repository",
	RunE:  runQualityGate,
}

var commitQualityCmd = &cobra.Command{
	Use:   "commit-quality",
	Short: "Conventional Commits adherence across the organization",
	RunE:  runCommitQuality,
}

var prResolutionCmd = &cobra.Command{
	Use:   "pr-resolution",
	Short: "Mean time from pull request creation to merge",
	RunE:  runPRResolution,
}

func init() {
	commitQualityCmd.Flags().IntVar(&lookbackDays, "days", config.DefaultLookback, "How many days back to scan")
	prResolutionCmd.Flags().IntVar(&lookbackDays, "days", config.DefaultLookback, "How many days back to scan")
}

// lookbackWindow prefers the --days flag when set, else the configured
// LOOKBACK_DAYS.
func lookbackWindow(cmd *cobra.Command, cfg *config.Config) int {
	if cmd.Flags().Changed("days") {
		return lookbackDays
	}
	return cfg.GitHub.LookbackDays
}

var qualityGateColumns = []string{"Timestamp", "Repo", "Total Gates", "Passed Gates", "Pass Rate (%)"}

func runQualityGate(cmd *cobra.Command, args []string) error {
	a, err := newApp((*config.Config).ValidateGitHub)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	spinner := newSpinner("Listing repositories")
	repos, err := a.GitHub.OrgRepos(ctx, a.Config.GitHub.Org)
	finishBar(spinner)
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		fmt.Println("No repositories found, nothing to record")
		return nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	var rows [][]any
	bar := newBar(len(repos), "Scanning workflow runs")
	for _, repo := range repos {
		runs, err := a.GitHub.WorkflowRuns(ctx, a.Config.GitHub.Org, repo.Name)
		if err != nil {
			return fmt.Errorf("repo %s: %w", repo.Name, err)
		}
		conclusions := make([]string, 0, len(runs))
		for _, r := range runs {
			if r.Status == "completed" {
				conclusions = append(conclusions, r.Conclusion)
			}
		}
		gate := stats.QualityGate(conclusions)
		if gate.Total == 0 {
			bar.Add(1)
			continue
		}
		rows = append(rows, []any{
			timestamp,
			repo.Name,
			gate.Total,
			gate.Passed,
			evm.Round2(gate.Rate),
		})
		bar.Add(1)
	}
	finishBar(bar)

	if len(rows) == 0 {
		fmt.Println("No repository has completed workflow runs, nothing to record")
		return nil
	}
	for _, r := range rows {
		fmt.Printf(" - %s: %v/%v passed (%.2f%%)\n", r[1], r[3], r[2], r[4])
	}
	if err := export.NewCSVAppender(dataPath(a, "quality_gate.csv")).AppendRows(qualityGateColumns, toStringRows(rows)); err != nil {
		return err
	}
	if useSheet {
		sheets, err := sheetsClient(ctx, a)
		if err != nil {
			return err
		}
		if err := sheets.EnsureSheet(ctx, "mp19-quality-gate", qualityGateColumns); err != nil {
			return err
		}
		if err := sheets.AppendRows(ctx, "mp19-quality-gate", rows); err != nil {
			return err
		}
		fmt.Printf("Uploaded %d rows to the dashboard\n", len(rows))
	}
	return nil
}

var commitQualityColumns = []string{"Timestamp", "Total Commits", "Conventional", "Percentage"}

func runCommitQuality(cmd *cobra.Command, args []string) error {
	a, err := newApp((*config.Config).ValidateGitHub)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	days := lookbackWindow(cmd, a.Config)

	spinner := newSpinner("Listing repositories")
	repos, err := a.GitHub.OrgRepos(ctx, a.Config.GitHub.Org)
	finishBar(spinner)
	if err != nil {
		return err
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	var messages []string
	bar := newBar(len(repos), "Collecting commits")
	for _, repo := range repos {
		commits, err := a.GitHub.CommitsSince(ctx, a.Config.GitHub.Org, repo.Name, since)
		if err != nil {
			return fmt.Errorf("repo %s: %w", repo.Name, err)
		}
		for _, c := range commits {
			messages = append(messages, c.Commit.Message)
		}
		bar.Add(1)
	}
	finishBar(bar)

	quality := stats.MessageQuality(messages)
	fmt.Printf("\n [MP20] Commit message quality (last %d days)\n", days)
	fmt.Printf(" Total commits:  %d\n", quality.Total)
	fmt.Printf(" Conventional:   %d\n", quality.Conventional)
	fmt.Printf(" Adherence:      %.2f%%\n", evm.Round2(quality.Percent))

	row := []any{
		time.Now().UTC().Format(time.RFC3339),
		quality.Total,
		quality.Conventional,
		evm.Round2(quality.Percent),
	}
	return appendSnapshot(ctx, a, "commit_quality.csv", "commit-message-quality", commitQualityColumns, row)
}

var prResolutionColumns = []string{"Timestamp", "Merged PRs", "Mean Hours"}

func runPRResolution(cmd *cobra.Command, args []string) error {
	a, err := newApp((*config.Config).ValidateGitHub)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	days := lookbackWindow(cmd, a.Config)

	spinner := newSpinner("Listing repositories")
	repos, err := a.GitHub.OrgRepos(ctx, a.Config.GitHub.Org)
	finishBar(spinner)
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	var durations []time.Duration
	bar := newBar(len(repos), "Collecting pull requests")
	for _, repo := range repos {
		prs, err := a.GitHub.ClosedPRs(ctx, a.Config.GitHub.Org, repo.Name)
		if err != nil {
			return fmt.Errorf("repo %s: %w", repo.Name, err)
		}
		var repoDurations []time.Duration
		for _, pr := range prs {
			if pr.MergedAt == nil || pr.MergedAt.Before(cutoff) {
				continue
			}
			repoDurations = append(repoDurations, pr.MergedAt.Sub(pr.CreatedAt))
		}
		if len(repoDurations) > 0 {
			fmt.Printf(" - %s: %d merged PRs, mean %.2f h\n",
				repo.Name, len(repoDurations), evm.Round2(stats.MeanResolutionHours(repoDurations)))
			durations = append(durations, repoDurations...)
		}
		bar.Add(1)
	}
	finishBar(bar)

	mean := stats.MeanResolutionHours(durations)
	fmt.Printf("\n [MP22] PR resolution time (last %d days)\n", days)
	fmt.Printf(" Merged PRs: %d\n", len(durations))
	fmt.Printf(" Mean time:  %.2f h\n", evm.Round2(mean))

	row := []any{
		time.Now().UTC().Format(time.RFC3339),
		len(durations),
		evm.Round2(mean),
	}
	return appendSnapshot(ctx, a, "pr_resolution.csv", "time-resolution-pr", prResolutionColumns, row)
}
