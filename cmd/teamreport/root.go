package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose   bool
	outputDir string
	useSheet  bool
)

var rootCmd = &cobra.Command{
	Use:   "teamreport",
	Short: "Team metrics for the shared project dashboard",
	Long: `TeamReport polls Jira and GitHub, computes the project metrics
(earned value, velocity stability, time efficiency, quality gates,
commit quality, PR resolution time) and appends the results to the
shared dashboard spreadsheet and local CSV snapshots.

Each subcommand is one scheduled report; CI cron runs them independently.`,
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Directory for CSV snapshots (default $OUTPUT_DIR or data)")
	rootCmd.PersistentFlags().BoolVar(&useSheet, "google-sheet", false, "Also append results to the dashboard Google Sheet")

	rootCmd.AddCommand(evmCmd)
	rootCmd.AddCommand(velocityCmd)
	rootCmd.AddCommand(efficiencyCmd)
	rootCmd.AddCommand(qualityGateCmd)
	rootCmd.AddCommand(commitQualityCmd)
	rootCmd.AddCommand(prResolutionCmd)
	rootCmd.AddCommand(webCmd)
}
