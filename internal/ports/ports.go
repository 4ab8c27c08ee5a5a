package ports

import (
	"context"
	"time"

	"breachradar/internal/domain"
)

// FeedSource pulls raw articles from all configured syndication feeds.
// Per-feed failures are isolated inside the source; an error here means the
// source itself is unusable.
type FeedSource interface {
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// ProspectStore is the durable URL-keyed dedup record, the pipeline's only
// cross-run memory.
type ProspectStore interface {
	Has(ctx context.Context, url string) (bool, error)
	// Put is idempotent: inserting an already-stored URL is a no-op, never an
	// error.
	Put(ctx context.Context, p domain.Prospect) error
	Latest(ctx context.Context) (domain.Prospect, bool, error)
}

// Notifier delivers ranked prospects, or a no-results signal, to the outbound
// chat sink. Delivery failures are recoverable.
type Notifier interface {
	PublishProspects(ctx context.Context, prospects []domain.Prospect) error
	PublishNoResults(ctx context.Context) error
}

// ContentEnricher fetches full article text for richer extraction. Best
// effort: failures yield an empty string.
type ContentEnricher interface {
	FetchText(ctx context.Context, url string) string
}

// Scheduler controls when pipeline runs execute in watch mode.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
