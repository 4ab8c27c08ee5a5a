package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"breachradar/internal/analysis"
	"breachradar/internal/domain"
	"breachradar/internal/ports"
)

// RunState tracks the orchestrator's position in a run. States advance
// strictly forward; there are no retries across states.
type RunState string

const (
	StateIdle       RunState = "idle"
	StateFetching   RunState = "fetching"
	StateExtracting RunState = "extracting"
	StateRanking    RunState = "ranking"
	StatePersisting RunState = "persisting"
	StateNotifying  RunState = "notifying"
	StateDone       RunState = "done"
)

const maxDecisionMakersPerProspect = 3

// Options captures per-variant pipeline policy.
type Options struct {
	// RecencyWindow drops articles published earlier than now-window (and
	// articles with no parseable date) before extraction. Zero disables the
	// filter.
	RecencyWindow time.Duration
	// IncludeGeneral produces prospects even for fallback-classified
	// articles.
	IncludeGeneral bool
	// MaxCompaniesPerArticle caps how many prospects one article can create.
	MaxCompaniesPerArticle int
}

// RunReport summarizes one run. Partial success is the normal case: the
// report is produced even when sources or notifications failed.
type RunReport struct {
	State                RunState
	ArticlesFetched      int
	SkippedOutsideWindow int
	SkippedDuplicateURL  int
	SkippedSimilarTitle  int
	SkippedKnown         int
	NewProspects         int
	Notified             int
	Reposted             bool
	NoResults            bool
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source   ports.FeedSource
	Store    ports.ProspectStore
	Notifier ports.Notifier
	Enricher ports.ContentEnricher // optional
	Taxonomy analysis.Taxonomy
	Weights  analysis.ScoreWeights
	Options  Options
	Logger   *slog.Logger
	Now      func() time.Time // defaults to time.Now
}

// Pipeline drives Fetch -> Filter-new -> Extract -> Classify -> Score ->
// Rank -> Persist -> Notify. Source and notification failures are recovered
// locally; storage failures abort the run.
type Pipeline struct {
	source   ports.FeedSource
	store    ports.ProspectStore
	notifier ports.Notifier
	enricher ports.ContentEnricher
	taxonomy analysis.Taxonomy
	weights  analysis.ScoreWeights
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Taxonomy == nil {
		deps.Taxonomy = analysis.DefaultTaxonomy()
	}
	if deps.Weights == (analysis.ScoreWeights{}) {
		deps.Weights = analysis.DefaultWeights()
	}
	if deps.Options.MaxCompaniesPerArticle <= 0 {
		deps.Options.MaxCompaniesPerArticle = 3
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{
		source:   deps.Source,
		store:    deps.Store,
		notifier: deps.Notifier,
		enricher: deps.Enricher,
		taxonomy: deps.Taxonomy,
		weights:  deps.Weights,
		opts:     deps.Options,
		logger:   deps.Logger,
		now:      deps.Now,
	}
}

// Run executes one batch scan. The returned report is valid even on error;
// its State shows how far the run progressed.
func (p *Pipeline) Run(ctx context.Context) (RunReport, error) {
	report := RunReport{State: StateIdle}
	now := p.now()

	report.State = StateFetching
	articles, err := p.source.Fetch(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch articles: %w", err)
	}
	report.ArticlesFetched = len(articles)

	fresh, err := p.filterNew(ctx, articles, now, &report)
	if err != nil {
		return report, err
	}

	report.State = StateExtracting
	prospects := p.buildProspects(ctx, fresh, now)
	report.NewProspects = len(prospects)

	report.State = StateRanking
	sort.SliceStable(prospects, func(i, j int) bool {
		return prospects[i].FitRating > prospects[j].FitRating
	})

	report.State = StatePersisting
	for _, prospect := range prospects {
		if err := p.store.Put(ctx, prospect); err != nil {
			return report, err
		}
	}

	report.State = StateNotifying
	if err := p.notify(ctx, prospects, &report); err != nil {
		return report, err
	}

	report.State = StateDone
	p.info("run complete",
		"fetched", report.ArticlesFetched,
		"skipped_window", report.SkippedOutsideWindow,
		"skipped_known", report.SkippedKnown,
		"skipped_similar", report.SkippedSimilarTitle,
		"prospects", report.NewProspects,
		"notified", report.Notified,
		"reposted", report.Reposted,
		"no_results", report.NoResults)
	return report, nil
}

// filterNew drops out-of-window, within-run duplicate, near-duplicate-title,
// and already-processed articles. A storage failure here is fatal.
func (p *Pipeline) filterNew(ctx context.Context, articles []domain.Article, now time.Time, report *RunReport) ([]domain.Article, error) {
	var (
		kept       []domain.Article
		keptTitles []string
	)
	seenURLs := map[string]struct{}{}

	for _, article := range articles {
		if p.opts.RecencyWindow > 0 {
			if article.PublishedAt.IsZero() || now.Sub(article.PublishedAt) > p.opts.RecencyWindow {
				report.SkippedOutsideWindow++
				continue
			}
		}

		if _, ok := seenURLs[article.URL]; ok {
			report.SkippedDuplicateURL++
			continue
		}
		seenURLs[article.URL] = struct{}{}

		known, err := p.store.Has(ctx, article.URL)
		if err != nil {
			return nil, err
		}
		if known {
			report.SkippedKnown++
			continue
		}

		title := cleanTitle(article.Title)
		if similarToAny(title, keptTitles) {
			report.SkippedSimilarTitle++
			continue
		}

		keptTitles = append(keptTitles, title)
		kept = append(kept, article)
	}
	return kept, nil
}

func similarToAny(title string, titles []string) bool {
	for _, existing := range titles {
		if titlesSimilar(title, existing) {
			return true
		}
	}
	return false
}

// buildProspects runs extraction, classification and scoring over the
// filtered articles. One article yields at most MaxCompaniesPerArticle
// prospects, in company discovery order.
func (p *Pipeline) buildProspects(ctx context.Context, articles []domain.Article, now time.Time) []domain.Prospect {
	var prospects []domain.Prospect

	for _, article := range articles {
		analysisText := article.Title + " " + analysis.PlainText(article.Summary)
		if p.enricher != nil {
			if extra := p.enricher.FetchText(ctx, article.URL); extra != "" {
				analysisText += " " + extra
			}
		}

		category := p.taxonomy.Classify(analysisText)
		if category == domain.CategoryGeneral && !p.opts.IncludeGeneral {
			continue
		}

		entities := analysis.Extract(analysisText)
		if len(entities.Companies) == 0 {
			continue
		}

		severity := p.weights.Severity(analysisText)
		summary := analysis.Summarize(article.Summary)

		companies := entities.Companies
		if len(companies) > p.opts.MaxCompaniesPerArticle {
			companies = companies[:p.opts.MaxCompaniesPerArticle]
		}

		for _, company := range companies {
			prospects = append(prospects, domain.Prospect{
				CompanyName:     company,
				Category:        category,
				Severity:        severity,
				FitRating:       p.weights.Fit(company, category, severity),
				Article:         article,
				DecisionMakers:  decisionMakers(entities.People, company),
				Summary:         summary,
				PhoneSearchLink: phoneSearchURL(company),
				DiscoveredAt:    now,
			})
		}
	}
	return prospects
}

func decisionMakers(people []string, company string) []domain.DecisionMaker {
	if len(people) > maxDecisionMakersPerProspect {
		people = people[:maxDecisionMakersPerProspect]
	}
	makers := make([]domain.DecisionMaker, 0, len(people))
	for _, name := range people {
		makers = append(makers, domain.DecisionMaker{
			Name:        name,
			Title:       "Executive / Decision Maker",
			ProfileLink: linkedInSearchURL(name, company),
		})
	}
	return makers
}

// notify delivers new prospects, or falls back to the always-say-something
// policy: repost the latest stored prospect, or send a no-results signal when
// the store is empty. Delivery failures are logged, never fatal.
func (p *Pipeline) notify(ctx context.Context, prospects []domain.Prospect, report *RunReport) error {
	if len(prospects) > 0 {
		if err := p.notifier.PublishProspects(ctx, prospects); err != nil {
			p.warn("notification delivery failed", "error", err)
			return nil
		}
		report.Notified = len(prospects)
		return nil
	}

	last, ok, err := p.store.Latest(ctx)
	if err != nil {
		return err
	}
	if !ok {
		report.NoResults = true
		if err := p.notifier.PublishNoResults(ctx); err != nil {
			p.warn("no-results notification failed", "error", err)
		}
		return nil
	}

	last.Repost = true
	report.Reposted = true
	if err := p.notifier.PublishProspects(ctx, []domain.Prospect{last}); err != nil {
		p.warn("repost notification failed", "error", err)
		return nil
	}
	report.Notified = 1
	return nil
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
