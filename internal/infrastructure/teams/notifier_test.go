package teams

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"breachradar/internal/config"
	"breachradar/internal/domain"
)

type webhookRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *webhookRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, string(body))
		r.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func (r *webhookRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

func (r *webhookRecorder) body(i int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bodies[i]
}

func newTestNotifier(url string) *Notifier {
	return NewNotifier(config.TeamsConfig{
		WebhookURL: url,
		Timeout:    config.Duration(5 * time.Second),
	}, nil)
}

func testProspect(company string) domain.Prospect {
	return domain.Prospect{
		CompanyName:     company,
		Category:        domain.CategoryInjection,
		Severity:        8,
		FitRating:       7,
		Article:         domain.NewArticle(company+" breach", "https://example.com/"+company, "", "TestFeed", time.Now()),
		Summary:         "Attackers exploited a SQL injection flaw.",
		PhoneSearchLink: "https://www.google.com/search?q=" + company,
		DecisionMakers: []domain.DecisionMaker{
			{Name: "John Smith", Title: "Executive / Decision Maker", ProfileLink: "https://linkedin.example.com/john"},
		},
	}
}

func TestPublishProspectsSendsSummaryAndCards(t *testing.T) {
	t.Parallel()

	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	n := newTestNotifier(server.URL)
	prospects := []domain.Prospect{testProspect("Acme"), testProspect("Umbrella")}

	if err := n.PublishProspects(context.Background(), prospects); err != nil {
		t.Fatalf("PublishProspects error: %v", err)
	}

	if rec.count() != 3 {
		t.Fatalf("expected summary plus 2 cards, got %d posts", rec.count())
	}
	if !strings.Contains(rec.body(0), "Daily Prospecting Report") {
		t.Fatalf("expected summary card first, got %s", rec.body(0))
	}
	if !strings.Contains(rec.body(1), "Acme") || !strings.Contains(rec.body(2), "Umbrella") {
		t.Fatal("expected one card per prospect in order")
	}
	if !strings.Contains(rec.body(1), "New Breach Prospect") {
		t.Fatalf("expected new-prospect header, got %s", rec.body(1))
	}
}

func TestPublishProspectsCardShape(t *testing.T) {
	t.Parallel()

	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	n := newTestNotifier(server.URL)
	if err := n.PublishProspects(context.Background(), []domain.Prospect{testProspect("Acme")}); err != nil {
		t.Fatalf("PublishProspects error: %v", err)
	}

	var payload struct {
		Type        string `json:"type"`
		Attachments []struct {
			ContentType string `json:"contentType"`
			Content     struct {
				Type    string `json:"type"`
				Version string `json:"version"`
				Body    []any  `json:"body"`
				Actions []struct {
					Type  string `json:"type"`
					Title string `json:"title"`
					URL   string `json:"url"`
				} `json:"actions"`
			} `json:"content"`
		} `json:"attachments"`
	}
	if err := json.Unmarshal([]byte(rec.body(1)), &payload); err != nil {
		t.Fatalf("decode card: %v", err)
	}

	if payload.Type != "message" || len(payload.Attachments) != 1 {
		t.Fatalf("unexpected envelope: %+v", payload)
	}
	card := payload.Attachments[0]
	if card.ContentType != "application/vnd.microsoft.card.adaptive" {
		t.Fatalf("unexpected content type: %s", card.ContentType)
	}
	if card.Content.Type != "AdaptiveCard" || card.Content.Version != "1.5" {
		t.Fatalf("unexpected card type/version: %s %s", card.Content.Type, card.Content.Version)
	}
	if len(card.Content.Actions) != 2 {
		t.Fatalf("expected article and phone actions, got %+v", card.Content.Actions)
	}
	if card.Content.Actions[0].Title != "Read Source Article" {
		t.Fatalf("unexpected first action: %+v", card.Content.Actions[0])
	}
}

func TestPublishProspectsRepostSkipsSummary(t *testing.T) {
	t.Parallel()

	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	n := newTestNotifier(server.URL)
	repost := testProspect("Acme")
	repost.Repost = true

	if err := n.PublishProspects(context.Background(), []domain.Prospect{repost}); err != nil {
		t.Fatalf("PublishProspects error: %v", err)
	}

	if rec.count() != 1 {
		t.Fatalf("expected a single card without summary, got %d posts", rec.count())
	}
	if !strings.Contains(rec.body(0), "Last Processed Prospect") {
		t.Fatalf("expected repost header, got %s", rec.body(0))
	}
}

func TestPublishNoResults(t *testing.T) {
	t.Parallel()

	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	n := newTestNotifier(server.URL)
	if err := n.PublishNoResults(context.Background()); err != nil {
		t.Fatalf("PublishNoResults error: %v", err)
	}

	if rec.count() != 1 {
		t.Fatalf("expected one post, got %d", rec.count())
	}
	if !strings.Contains(rec.body(0), "No new breach prospects") {
		t.Fatalf("expected all-clear text, got %s", rec.body(0))
	}
}

func TestSendRejectedByWebhook(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	n := newTestNotifier(server.URL)
	err := n.PublishProspects(context.Background(), []domain.Prospect{testProspect("Acme")})

	var deliveryErr *domain.NotificationDeliveryError
	if !errors.As(err, &deliveryErr) {
		t.Fatalf("expected delivery error, got %v", err)
	}
	if !strings.Contains(deliveryErr.Status, "429") {
		t.Fatalf("expected status in error, got %q", deliveryErr.Status)
	}
}

func TestSendWithoutWebhookURL(t *testing.T) {
	t.Parallel()

	n := newTestNotifier("")
	err := n.PublishNoResults(context.Background())

	var deliveryErr *domain.NotificationDeliveryError
	if !errors.As(err, &deliveryErr) {
		t.Fatalf("expected delivery error for missing webhook, got %v", err)
	}
}

func TestDecisionMakerBlocks(t *testing.T) {
	t.Parallel()

	blocks := decisionMakerBlocks(nil)
	if len(blocks) != 1 {
		t.Fatalf("expected a single placeholder block, got %d", len(blocks))
	}

	makers := []domain.DecisionMaker{
		{Name: "John Smith", Title: "Executive / Decision Maker", ProfileLink: "https://linkedin.example.com/john"},
		{Name: "Jane Doe", Title: "Executive / Decision Maker", ProfileLink: "https://linkedin.example.com/jane"},
	}
	blocks = decisionMakerBlocks(makers)
	if len(blocks) != 4 {
		t.Fatalf("expected text plus action set per contact, got %d blocks", len(blocks))
	}
}

func TestFitEmoji(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating int
		want   string
	}{
		{10, "🔥🔥🔥"},
		{8, "🔥🔥🔥"},
		{7, "🔥🔥"},
		{5, "🔥"},
		{3, ""},
	}
	for _, tt := range tests {
		if got := fitEmoji(tt.rating); got != tt.want {
			t.Fatalf("fitEmoji(%d) = %q, want %q", tt.rating, got, tt.want)
		}
	}
}
