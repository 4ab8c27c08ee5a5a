package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"breachradar/internal/domain"
	"breachradar/internal/scanner"
)

type atomDocument struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Links     []atomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Content   string     `xml:"content"`
	Published string     `xml:"published"`
	Updated   string     `xml:"updated"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// AtomScanner parses Atom feeds (Google Alerts style exports and a few
// security blogs publish Atom only).
type AtomScanner struct {
	client *http.Client
}

// NewAtomScanner wires an HTTP client; a nil client gets a 20s timeout default.
func NewAtomScanner(client *http.Client) *AtomScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &AtomScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (s *AtomScanner) Name() string {
	return "atom"
}

// Scan fetches the feed and maps entries to articles.
func (s *AtomScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	body, err := fetchBody(ctx, s.client, req.URL)
	if err != nil {
		return nil, err
	}

	var doc atomDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse atom: %w", err)
	}

	entries := doc.Entries
	if req.MaxEntries > 0 && len(entries) > req.MaxEntries {
		entries = entries[:req.MaxEntries]
	}

	articles := make([]domain.Article, 0, len(entries))
	for _, entry := range entries {
		link := entry.link()
		if link == "" {
			continue
		}
		summary := strings.TrimSpace(entry.Summary)
		if summary == "" {
			summary = strings.TrimSpace(entry.Content)
		}
		published := strings.TrimSpace(entry.Published)
		if published == "" {
			published = strings.TrimSpace(entry.Updated)
		}
		articles = append(articles, domain.NewArticle(
			strings.TrimSpace(entry.Title),
			link,
			summary,
			req.SourceName,
			parseFeedTime(published),
		))
	}
	return articles, nil
}

// link prefers the alternate link, falling back to the first href present.
func (e atomEntry) link() string {
	for _, l := range e.Links {
		if l.Rel == "alternate" && l.Href != "" {
			return strings.TrimSpace(l.Href)
		}
	}
	for _, l := range e.Links {
		if l.Href != "" {
			return strings.TrimSpace(l.Href)
		}
	}
	return ""
}
