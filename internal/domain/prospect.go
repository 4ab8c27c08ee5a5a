package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Category is one label from the closed vulnerability taxonomy. Unclassified
// articles always fall back to CategoryGeneral, never an empty label.
type Category string

const (
	CategoryBrokenAccessControl   Category = "A01: Broken Access Control"
	CategoryCryptographicFailures Category = "A02: Cryptographic Failures"
	CategoryInjection             Category = "A03: Injection"
	CategoryInsecureDesign        Category = "A04: Insecure Design"
	CategoryMisconfiguration      Category = "A05: Security Misconfiguration"
	CategoryVulnerableComponents  Category = "A06: Vulnerable Components"
	CategoryAuthFailures          Category = "A07: Identification & Authentication Failures"
	CategoryIntegrityFailures     Category = "A08: Software & Data Integrity Failures"
	CategoryLoggingFailures       Category = "A09: Security Logging & Monitoring Failures"
	CategorySSRF                  Category = "A10: Server-Side Request Forgery (SSRF)"
	CategoryGeneral               Category = "Web Application Vulnerability (General)"
)

// Article is a raw feed entry. Immutable once fetched; its URL is the sole
// deduplication key across runs.
type Article struct {
	ID          string
	Title       string
	URL         string
	Summary     string
	Source      string
	PublishedAt time.Time
}

// NewArticle derives the article ID from its URL.
func NewArticle(title, url, summary, source string, publishedAt time.Time) Article {
	return Article{
		ID:          ArticleID(url),
		Title:       title,
		URL:         url,
		Summary:     summary,
		Source:      source,
		PublishedAt: publishedAt,
	}
}

// ArticleID hashes a URL into a stable identifier.
func ArticleID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// EntityKind distinguishes the two extraction targets.
type EntityKind int

const (
	EntityCompany EntityKind = iota
	EntityPerson
)

// EntityMatch is a single heuristic extraction hit. Derived per run, never
// persisted; its identity is its string value.
type EntityMatch struct {
	Name string
	Kind EntityKind
}

// DecisionMaker is a person guessed to be worth contacting at a prospect
// company, with a best-effort LinkedIn search link.
type DecisionMaker struct {
	Name        string
	Title       string
	ProfileLink string
}

// Prospect is the pipeline's output unit: a company tied to a breach article
// with derived severity and business-fit scores. Never mutated after creation
// within a run; persisted keyed by Article.URL.
type Prospect struct {
	CompanyName     string
	Category        Category
	Severity        int // clamped to [1,10]
	FitRating       int // clamped to [0,10]
	Article         Article
	DecisionMakers  []DecisionMaker
	Summary         string
	PhoneSearchLink string
	DiscoveredAt    time.Time
	Repost          bool
}
