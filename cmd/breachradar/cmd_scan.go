package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"breachradar/internal/app"
	"breachradar/internal/config"
	"breachradar/internal/logging"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one monitoring scan",
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging)

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	report, err := application.RunOnce(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scan complete: %d new prospect(s) from %d fetched article(s)\n",
		report.NewProspects, report.ArticlesFetched)
	if report.Reposted {
		fmt.Fprintln(out, "No new prospects; reposted the last stored prospect.")
	}
	if report.NoResults {
		fmt.Fprintln(out, "No new prospects and empty store; sent a no-results notice.")
	}
	return nil
}
