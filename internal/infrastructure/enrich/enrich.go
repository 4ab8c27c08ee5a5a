package enrich

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"breachradar/internal/ports"
)

// contentSelectors are tried in order of preference; the first match wins.
var contentSelectors = []string{
	"article",
	".article-content",
	".post-content",
	".entry-content",
	"main",
	".content",
}

const (
	maxContentChars = 2000
	fetchTimeout    = 10 * time.Second
)

// ContentFetcher pulls the main text of an article page to widen the
// extraction surface beyond the feed summary. Strictly best effort: any
// failure yields an empty string.
type ContentFetcher struct {
	client *http.Client
}

var _ ports.ContentEnricher = (*ContentFetcher)(nil)

// NewContentFetcher wires an HTTP client; a nil client gets a 10s timeout
// default.
func NewContentFetcher(client *http.Client) *ContentFetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &ContentFetcher{client: client}
}

// FetchText downloads the page and extracts its main text block, capped at
// 2000 characters.
func (f *ContentFetcher) FetchText(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "breachradar/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	var content string
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			content = sel.Text()
			break
		}
	}
	if content == "" {
		content = doc.Find("body").Text()
	}

	content = strings.Join(strings.Fields(content), " ")
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	return content
}
