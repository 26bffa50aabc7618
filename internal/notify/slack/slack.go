// Package slack sends ticket escalation notifications to Slack via incoming
// webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/linnemanlabs/vortex/internal/triage"
)

const (
	maxReplyLen = 3000
	httpTimeout = 10 * time.Second
)

// Notifier sends escalated tickets to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, Notify is a
// no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Notify posts a triaged ticket to the configured Slack webhook. It
// implements triage.Notifier. If no webhook URL is configured, it returns
// nil immediately.
func (n *Notifier) Notify(ctx context.Context, t *triage.Ticket) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := buildMessage(t)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(t *triage.Ticket) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(t),
			{"type": "divider"},
			fieldsBlock(t),
			{"type": "divider"},
			replyBlock(t),
			{"type": "divider"},
			contextBlock(t),
		},
	}
}

func headerBlock(t *triage.Ticket) map[string]any {
	emoji := riskEmoji(t)
	title := "High Risk Ticket"
	if t.Phishing {
		title = "Phishing Detected"
	}
	text := fmt.Sprintf("%s %s: %s", emoji, title, t.Reference)

	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": text,
		},
	}
}

func fieldsBlock(t *triage.Ticket) map[string]any {
	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Category:* %s", t.Category),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Risk:* %.0f/100", t.Risk),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Action:* %s", t.Action),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Customer:* %s", t.Name),
		},
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func replyBlock(t *triage.Ticket) map[string]any {
	text := truncate(t.Reply, maxReplyLen)
	if text == "" {
		text = "_No suggested reply available._"
	}

	return map[string]any{
		"type": "section",
		"text": map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Suggested reply*\n\n%s", text),
		},
	}
}

func contextBlock(t *triage.Ticket) map[string]any {
	ts := t.ResolvedAt
	if ts.IsZero() {
		ts = t.CreatedAt
	}

	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("vortex • ticket %s • %s", t.ID, ts.UTC().Format("2006-01-02 15:04 UTC")),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func riskEmoji(t *triage.Ticket) string {
	switch {
	case t.Phishing || t.Risk >= 85:
		return "\U0001f534" // red circle
	case t.Risk >= triage.CriticalRisk:
		return "\U0001f7e1" // yellow circle
	default:
		return "\U0001f7e2" // green circle
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
