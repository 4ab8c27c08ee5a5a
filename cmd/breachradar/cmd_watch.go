package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"breachradar/internal/app"
	"breachradar/internal/config"
	"breachradar/internal/logging"
)

var watchFlags struct {
	interval time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan repeatedly on an interval until interrupted",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchFlags.interval, "interval", 0,
		"override the configured scan interval (e.g. 30m)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if watchFlags.interval > 0 {
		cfg.Scheduler.Interval = config.Duration(watchFlags.interval)
	}
	logger := logging.New(cfg.Logging)

	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watch mode started", "interval", cfg.Scheduler.Interval.Std())
	return application.Watch(ctx)
}
