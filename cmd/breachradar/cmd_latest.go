package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"breachradar/internal/app"
	"breachradar/internal/config"
	"breachradar/internal/logging"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the most recently stored prospect",
	RunE:  runLatest,
}

func runLatest(cmd *cobra.Command, _ []string) error {
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

	prospect, ok, err := application.Latest(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "No prospects stored yet.")
		return nil
	}

	fmt.Fprintf(out, "Company:   %s\n", prospect.CompanyName)
	fmt.Fprintf(out, "Category:  %s\n", prospect.Category)
	fmt.Fprintf(out, "Severity:  %d / 10\n", prospect.Severity)
	fmt.Fprintf(out, "Fit:       %d / 10\n", prospect.FitRating)
	fmt.Fprintf(out, "Article:   %s (%s)\n", prospect.Article.Title, prospect.Article.Source)
	fmt.Fprintf(out, "URL:       %s\n", prospect.Article.URL)
	if !prospect.DiscoveredAt.IsZero() {
		fmt.Fprintf(out, "Stored:    %s\n", prospect.DiscoveredAt.Format("2006-01-02 15:04:05 MST"))
	}
	if len(prospect.DecisionMakers) > 0 {
		fmt.Fprintln(out, "Contacts:")
		for _, dm := range prospect.DecisionMakers {
			fmt.Fprintf(out, "  - %s (%s)\n    %s\n", dm.Name, dm.Title, dm.ProfileLink)
		}
	}
	return nil
}
