package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"breachradar/internal/domain"
	"breachradar/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS prospects (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    company_name      TEXT NOT NULL,
    category          TEXT NOT NULL,
    article_url       TEXT NOT NULL UNIQUE,
    article_title     TEXT,
    source_feed       TEXT,
    published_at      TEXT,
    severity          INTEGER,
    fit_rating        INTEGER,
    summary           TEXT,
    phone_search_link TEXT,
    discovered_at     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS decision_makers (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    prospect_id      INTEGER NOT NULL,
    full_name        TEXT NOT NULL,
    title            TEXT,
    linkedin_profile TEXT,
    FOREIGN KEY (prospect_id) REFERENCES prospects (id)
);`

// SQLiteStore is the durable URL-keyed dedup record backing the pipeline.
// Safe for concurrent use within one process via database/sql; cross-process
// locking is not supported and callers must run a single writer process.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.ProspectStore = (*SQLiteStore)(nil)

// Open creates or opens the store file and ensures the schema exists.
func Open(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, &domain.StorageError{Op: "init schema", Err: err}
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Has reports whether an article URL was already processed in a prior run.
func (s *SQLiteStore) Has(ctx context.Context, url string) (bool, error) {
	query, args, err := sq.Select("1").
		From("prospects").
		Where(sq.Eq{"article_url": url}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, &domain.StorageError{Op: "build has query", Err: err}
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &domain.StorageError{Op: "query has", Err: err}
	}
	return true, nil
}

// Put persists a prospect and its decision makers in one transaction.
// Idempotent: a URL conflict leaves the store unchanged and returns nil.
func (s *SQLiteStore) Put(ctx context.Context, p domain.Prospect) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StorageError{Op: "begin tx", Err: err}
	}
	defer tx.Rollback()

	query, args, err := sq.Insert("prospects").
		Columns("company_name", "category", "article_url", "article_title",
			"source_feed", "published_at", "severity", "fit_rating",
			"summary", "phone_search_link", "discovered_at").
		Values(p.CompanyName, string(p.Category), p.Article.URL, p.Article.Title,
			p.Article.Source, formatTime(p.Article.PublishedAt), p.Severity, p.FitRating,
			p.Summary, p.PhoneSearchLink, formatTime(p.DiscoveredAt)).
		Suffix("ON CONFLICT(article_url) DO NOTHING").
		ToSql()
	if err != nil {
		return &domain.StorageError{Op: "build insert", Err: err}
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return &domain.StorageError{Op: "insert prospect", Err: err}
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "rows affected", Err: err}
	}
	if inserted == 0 {
		// Duplicate URL: deliberate no-op.
		return nil
	}

	prospectID, err := res.LastInsertId()
	if err != nil {
		return &domain.StorageError{Op: "last insert id", Err: err}
	}

	for _, dm := range p.DecisionMakers {
		query, args, err := sq.Insert("decision_makers").
			Columns("prospect_id", "full_name", "title", "linkedin_profile").
			Values(prospectID, dm.Name, dm.Title, dm.ProfileLink).
			ToSql()
		if err != nil {
			return &domain.StorageError{Op: "build decision maker insert", Err: err}
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return &domain.StorageError{Op: "insert decision maker", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "commit", Err: err}
	}
	return nil
}

// Latest returns the most recently persisted prospect, or false when the
// store is empty.
func (s *SQLiteStore) Latest(ctx context.Context) (domain.Prospect, bool, error) {
	query, args, err := sq.Select("id", "company_name", "category", "article_url",
		"article_title", "source_feed", "published_at", "severity", "fit_rating",
		"summary", "phone_search_link", "discovered_at").
		From("prospects").
		OrderBy("discovered_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Prospect{}, false, &domain.StorageError{Op: "build latest query", Err: err}
	}

	var (
		id                      int64
		p                       domain.Prospect
		category                string
		publishedAt, discovered string
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&id, &p.CompanyName, &category, &p.Article.URL, &p.Article.Title,
		&p.Article.Source, &publishedAt, &p.Severity, &p.FitRating,
		&p.Summary, &p.PhoneSearchLink, &discovered)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Prospect{}, false, nil
	}
	if err != nil {
		return domain.Prospect{}, false, &domain.StorageError{Op: "query latest", Err: err}
	}

	p.Category = domain.Category(category)
	p.Article.ID = domain.ArticleID(p.Article.URL)
	p.Article.PublishedAt = parseTime(publishedAt)
	p.Article.Summary = p.Summary
	p.DiscoveredAt = parseTime(discovered)

	makers, err := s.decisionMakers(ctx, id)
	if err != nil {
		return domain.Prospect{}, false, err
	}
	p.DecisionMakers = makers

	return p, true, nil
}

func (s *SQLiteStore) decisionMakers(ctx context.Context, prospectID int64) ([]domain.DecisionMaker, error) {
	query, args, err := sq.Select("full_name", "title", "linkedin_profile").
		From("decision_makers").
		Where(sq.Eq{"prospect_id": prospectID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, &domain.StorageError{Op: "build decision makers query", Err: err}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "query decision makers", Err: err}
	}
	defer rows.Close()

	var makers []domain.DecisionMaker
	for rows.Next() {
		var dm domain.DecisionMaker
		if err := rows.Scan(&dm.Name, &dm.Title, &dm.ProfileLink); err != nil {
			return nil, &domain.StorageError{Op: "scan decision maker", Err: err}
		}
		makers = append(makers, dm)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate decision makers", Err: err}
	}
	return makers, nil
}

// formatTime renders a fixed-width UTC timestamp so the TEXT column sorts
// chronologically. RFC3339Nano is unsuitable here: it trims trailing
// fractional zeros, which breaks lexicographic ordering.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
