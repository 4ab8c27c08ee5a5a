package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"breachradar/internal/scanner"
)

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Security Alerts</title>
  <entry>
    <title>Acme Corp breach confirmed</title>
    <link rel="self" href="https://example.com/self"/>
    <link rel="alternate" href="https://example.com/acme-breach"/>
    <summary>Initial disclosure.</summary>
    <published>2026-03-09T10:30:00Z</published>
  </entry>
  <entry>
    <title>Fallback fields entry</title>
    <link href="https://example.com/fallback"/>
    <content>Body text stands in for the summary.</content>
    <updated>2026-03-09T11:00:00Z</updated>
  </entry>
  <entry>
    <title>No link at all</title>
    <summary>Dropped.</summary>
  </entry>
</feed>`

func TestAtomScannerScan(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomFixture))
	}))
	defer server.Close()

	sc := NewAtomScanner(server.Client())
	articles, err := sc.Scan(context.Background(), scanner.Request{
		SourceName: "AlertsFeed",
		URL:        server.URL,
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (linkless entry dropped), got %d", len(articles))
	}

	first := articles[0]
	if first.URL != "https://example.com/acme-breach" {
		t.Fatalf("expected alternate link preferred, got %s", first.URL)
	}
	if first.Summary != "Initial disclosure." {
		t.Fatalf("unexpected summary: %s", first.Summary)
	}
	want := time.Date(2026, time.March, 9, 10, 30, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Fatalf("unexpected published time: %v", first.PublishedAt)
	}

	second := articles[1]
	if second.URL != "https://example.com/fallback" {
		t.Fatalf("expected first href fallback, got %s", second.URL)
	}
	if second.Summary != "Body text stands in for the summary." {
		t.Fatalf("expected content fallback for summary, got %s", second.Summary)
	}
	wantUpdated := time.Date(2026, time.March, 9, 11, 0, 0, 0, time.UTC)
	if !second.PublishedAt.Equal(wantUpdated) {
		t.Fatalf("expected updated fallback for published time, got %v", second.PublishedAt)
	}
}
