package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"breachradar/internal/config"
	"breachradar/internal/domain"
	"breachradar/internal/ports"
)

// Notifier posts Adaptive Cards to a Microsoft Teams incoming webhook. A
// fixed delay separates consecutive posts; non-2xx responses surface as
// recoverable delivery errors.
type Notifier struct {
	webhookURL string
	postDelay  time.Duration
	client     *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier wires the webhook endpoint and pacing from configuration.
func NewNotifier(cfg config.TeamsConfig, log *slog.Logger) *Notifier {
	return &Notifier{
		webhookURL: cfg.WebhookURL,
		postDelay:  cfg.PostDelay.Std(),
		client:     &http.Client{Timeout: cfg.Timeout.Std()},
		logger:     log,
		now:        time.Now,
	}
}

// PublishProspects sends a batch announcement followed by one detail card per
// prospect. Reposts skip the announcement. Individual delivery failures are
// logged and do not stop the remaining cards; the first failure is returned
// so the caller can log it.
func (n *Notifier) PublishProspects(ctx context.Context, prospects []domain.Prospect) error {
	if len(prospects) == 0 {
		return n.PublishNoResults(ctx)
	}

	var firstErr error
	if !prospects[0].Repost {
		if err := n.send(ctx, n.summaryCard(len(prospects))); err != nil {
			firstErr = err
			n.warn("failed to send summary card", "error", err)
		}
		n.pause(ctx)
	}

	for i, p := range prospects {
		if i > 0 {
			n.pause(ctx)
		}
		if err := n.send(ctx, n.prospectCard(p)); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			n.warn("failed to send prospect card", "company", p.CompanyName, "error", err)
			continue
		}
		n.debug("sent prospect card", "company", p.CompanyName, "fit", p.FitRating)
	}
	return firstErr
}

// PublishNoResults sends the all-clear card.
func (n *Notifier) PublishNoResults(ctx context.Context) error {
	card := message(adaptiveCard(
		textBlock("✅ Scan Complete: No new breach prospects were identified.", nil),
		map[string]any{
			"type":     "TextBlock",
			"text":     "Checked at: " + n.now().Format("2006-01-02 15:04:05"),
			"isSubtle": true,
			"spacing":  "small",
		},
	))
	return n.send(ctx, card)
}

func (n *Notifier) summaryCard(count int) map[string]any {
	return message(adaptiveCard(
		textBlock(fmt.Sprintf("📊 Daily Prospecting Report: **%d** new potential lead(s) identified.", count),
			map[string]any{"size": "Medium"}),
		textBlock("Detailed briefing cards for each prospect will follow this message.",
			map[string]any{"isSubtle": true}),
	))
}

func (n *Notifier) prospectCard(p domain.Prospect) map[string]any {
	title := "🎯 New Breach Prospect"
	titleColor := "Attention"
	if p.Repost {
		title = "🔄 Last Processed Prospect (No New Alerts)"
		titleColor = "Default"
	}

	published := "N/A"
	if !p.Article.PublishedAt.IsZero() {
		published = p.Article.PublishedAt.Format("Jan 02, 2006 at 03:04 PM MST")
	}

	body := []any{
		textBlock(title, map[string]any{"weight": "Bolder", "size": "Large", "color": titleColor}),
		textBlock(p.CompanyName, map[string]any{"weight": "Bolder", "size": "ExtraLarge"}),
		map[string]any{
			"type": "FactSet",
			"facts": []any{
				fact("Category:", string(p.Category)),
				fact("Published:", published),
				fact("Prospect Fit:", fmt.Sprintf("**%d / 10** %s", p.FitRating, fitEmoji(p.FitRating))),
			},
			"separator": true,
		},
		textBlock("**Summary:**", map[string]any{"weight": "Bolder", "separator": true}),
		textBlock(p.Summary, nil),
		textBlock("**Key Decision Makers:**", map[string]any{"separator": true}),
	}
	body = append(body, decisionMakerBlocks(p.DecisionMakers)...)

	card := adaptiveCard(body...)
	card["actions"] = []any{
		openURLAction("Read Source Article", p.Article.URL),
		openURLAction("Find Phone Number", p.PhoneSearchLink),
	}
	return message(card)
}

func decisionMakerBlocks(makers []domain.DecisionMaker) []any {
	if len(makers) == 0 {
		return []any{textBlock("No specific contacts identified in the article.",
			map[string]any{"isSubtle": true})}
	}

	var blocks []any
	for _, dm := range makers {
		blocks = append(blocks,
			textBlock(fmt.Sprintf("**%s** - _%s_", dm.Name, dm.Title),
				map[string]any{"size": "Medium"}),
			map[string]any{
				"type":    "ActionSet",
				"actions": []any{openURLAction("View on LinkedIn", dm.ProfileLink)},
			})
	}
	return blocks
}

func fitEmoji(rating int) string {
	switch {
	case rating >= 8:
		return "🔥🔥🔥"
	case rating >= 6:
		return "🔥🔥"
	case rating >= 4:
		return "🔥"
	default:
		return ""
	}
}

func message(content map[string]any) map[string]any {
	return map[string]any{
		"type": "message",
		"attachments": []any{
			map[string]any{
				"contentType": "application/vnd.microsoft.card.adaptive",
				"content":     content,
			},
		},
	}
}

func adaptiveCard(body ...any) map[string]any {
	return map[string]any{
		"$schema": "http://adaptivecards.io/schemas/adaptive-card.json",
		"type":    "AdaptiveCard",
		"version": "1.5",
		"body":    body,
	}
}

func textBlock(text string, extra map[string]any) map[string]any {
	block := map[string]any{"type": "TextBlock", "text": text, "wrap": true}
	for k, v := range extra {
		block[k] = v
	}
	return block
}

func fact(title, value string) map[string]any {
	return map[string]any{"title": title, "value": value}
}

func openURLAction(title, url string) map[string]any {
	if url == "" {
		url = "#"
	}
	return map[string]any{"type": "Action.OpenUrl", "title": title, "url": url}
}

func (n *Notifier) send(ctx context.Context, payload map[string]any) error {
	if n.webhookURL == "" {
		return &domain.NotificationDeliveryError{Err: fmt.Errorf("teams notifier misconfigured")}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &domain.NotificationDeliveryError{Err: fmt.Errorf("marshal card: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return &domain.NotificationDeliveryError{Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return &domain.NotificationDeliveryError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.NotificationDeliveryError{Status: resp.Status}
	}
	return nil
}

func (n *Notifier) pause(ctx context.Context) {
	if n.postDelay <= 0 {
		return
	}
	timer := time.NewTimer(n.postDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (n *Notifier) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}

func (n *Notifier) warn(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}
