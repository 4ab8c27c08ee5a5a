package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"breachradar/internal/config"
	"breachradar/internal/domain"
	"breachradar/internal/infrastructure/enrich"
	"breachradar/internal/infrastructure/feed"
	"breachradar/internal/infrastructure/scheduler"
	"breachradar/internal/infrastructure/storage"
	"breachradar/internal/infrastructure/teams"
	"breachradar/internal/logging"
	"breachradar/internal/ports"
	"breachradar/internal/scanner"
	"breachradar/internal/usecase"
)

// Application wires configuration to adapters and the pipeline use case.
type Application struct {
	cfg      config.Config
	store    *storage.SQLiteStore
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance. Opening the dedup store is the
// only fallible step; a storage failure here aborts startup.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging)
	}

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.Feeds.Timeout.Std()}
	registry := scanner.NewRegistry()
	registry.Register(feed.NewRSSScanner(client))
	registry.Register(feed.NewAtomScanner(client))

	source := feed.NewSource(registry, cfg.Feeds, baseLogger.With("component", "source"))
	notifier := teams.NewNotifier(cfg.Notifications.Teams, baseLogger.With("component", "teams"))

	var enricher ports.ContentEnricher
	if cfg.Pipeline.FetchContent {
		enricher = enrich.NewContentFetcher(nil)
	}

	opts := usecase.Options{
		RecencyWindow:          cfg.Pipeline.RecencyWindow.Std(),
		IncludeGeneral:         cfg.Pipeline.IncludeGeneral,
		MaxCompaniesPerArticle: cfg.Pipeline.MaxCompaniesPerArticle,
	}
	if cfg.Pipeline.NoRecencyWindow {
		opts.RecencyWindow = 0
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:   source,
		Store:    store,
		Notifier: notifier,
		Enricher: enricher,
		Taxonomy: cfg.Taxonomy,
		Weights:  cfg.Scoring,
		Options:  opts,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		store:    store,
		pipeline: pipeline,
		logger:   baseLogger,
	}, nil
}

// RunOnce performs a single pipeline execution.
func (a *Application) RunOnce(ctx context.Context) (usecase.RunReport, error) {
	return a.pipeline.Run(ctx)
}

// Watch runs the pipeline on the configured interval until the context is
// cancelled. Run errors are logged; only scheduler failures are returned.
func (a *Application) Watch(ctx context.Context) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval.Std())

	job := func(time.Time) {
		if _, err := a.pipeline.Run(ctx); err != nil {
			a.logger.Error("scan run failed", "error", err)
		}
	}

	if err := driver.Start(ctx, job); err != nil {
		return err
	}
	<-ctx.Done()
	return driver.Stop(context.Background())
}

// Latest returns the most recently persisted prospect.
func (a *Application) Latest(ctx context.Context) (domain.Prospect, bool, error) {
	return a.store.Latest(ctx)
}

// Close releases the dedup store.
func (a *Application) Close() error {
	return a.store.Close()
}
