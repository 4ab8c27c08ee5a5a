package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"breachradar/internal/config"
	"breachradar/internal/domain"
	"breachradar/internal/ports"
	"breachradar/internal/scanner"
)

// Source implements ports.FeedSource over registered format strategies.
// Feeds are processed sequentially in priority order; a failing feed
// contributes an empty list and the scan continues. A fixed politeness delay
// separates consecutive fetches.
type Source struct {
	registry   *scanner.Registry
	feeds      []config.FeedConfig
	fetchDelay time.Duration
	maxEntries int
	logger     *slog.Logger
}

var _ ports.FeedSource = (*Source)(nil)

// NewSource wires the scanner registry with config-defined feeds.
func NewSource(reg *scanner.Registry, cfg config.FeedsConfig, log *slog.Logger) *Source {
	feeds := make([]config.FeedConfig, len(cfg.Sources))
	copy(feeds, cfg.Sources)
	sort.SliceStable(feeds, func(i, j int) bool {
		return feeds[i].Priority < feeds[j].Priority
	})

	return &Source{
		registry:   reg,
		feeds:      feeds,
		fetchDelay: cfg.FetchDelay.Std(),
		maxEntries: cfg.MaxEntries,
		logger:     log,
	}
}

// Fetch iterates over configured feeds and executes their scanners. Per-feed
// errors are logged as recoverable source failures and never abort the scan.
func (s *Source) Fetch(ctx context.Context) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch feeds", "feeds", len(s.feeds))

	var aggregated []domain.Article
	for i, feedCfg := range s.feeds {
		if i > 0 && s.fetchDelay > 0 {
			if err := sleepCtx(ctx, s.fetchDelay); err != nil {
				return aggregated, err
			}
		}

		strategy, err := s.registry.Resolve(feedCfg.Format)
		if err != nil {
			s.warn("skip feed", "feed", feedCfg.Name, "error", err)
			continue
		}

		req := scanner.Request{
			SourceName: feedCfg.Name,
			URL:        feedCfg.URL,
			MaxEntries: s.maxEntries,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			fetchErr := &domain.SourceFetchError{Source: feedCfg.Name, Err: err}
			s.warn("feed failed, contributing no articles", "feed", feedCfg.Name, "error", fetchErr)
			continue
		}

		s.debug("feed produced articles", "feed", feedCfg.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("feed source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Source) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
