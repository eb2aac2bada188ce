package main

import (
	"github.com/spf13/cobra"

	"github.com/notipswe/teamreport/internal/config"
	"github.com/notipswe/teamreport/internal/logger"
	"github.com/notipswe/teamreport/internal/web"
)

var webAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the collected metric snapshots as a JSON API",
	RunE:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&webAddr, "addr", ":8080", "Listen address")
}

func runWeb(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	dir := cfg.Output.Directory
	if outputDir != "" {
		dir = outputDir
	}
	return web.Run(webAddr, dir, logger.New(verbose))
}
