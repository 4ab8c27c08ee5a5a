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

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// RSSScanner parses RSS 2.0 channels.
type RSSScanner struct {
	client *http.Client
}

// NewRSSScanner wires an HTTP client; a nil client gets a 20s timeout default.
func NewRSSScanner(client *http.Client) *RSSScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RSSScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan fetches the feed and maps channel items to articles. Items without a
// link are dropped; malformed dates leave PublishedAt zero.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	body, err := fetchBody(ctx, s.client, req.URL)
	if err != nil {
		return nil, err
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	items := doc.Channel.Items
	if req.MaxEntries > 0 && len(items) > req.MaxEntries {
		items = items[:req.MaxEntries]
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		articles = append(articles, domain.NewArticle(
			strings.TrimSpace(item.Title),
			link,
			strings.TrimSpace(item.Description),
			req.SourceName,
			parseFeedTime(strings.TrimSpace(item.PubDate)),
		))
	}
	return articles, nil
}
