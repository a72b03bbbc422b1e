package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"pageforge/internal/domain/models"
)

// Notifier announces a new submission to an external channel.
type Notifier interface {
	Notify(ctx context.Context, sub *models.Submission, pageTitle string) error
}

// webhookNotifier posts a JSON payload to a configured webhook URL
// (Slack-compatible: a top-level text field plus the structured record).
type webhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier creates a webhook-backed notifier. A nil client
// uses http.DefaultClient.
func NewWebhookNotifier(url string, client *http.Client) Notifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &webhookNotifier{url: url, client: client}
}

func (n *webhookNotifier) Notify(ctx context.Context, sub *models.Submission, pageTitle string) error {
	payload := map[string]interface{}{
		"text": fmt.Sprintf("🎉 New form submission!\nName: %s\nEmail: %s\nPage: %s",
			sub.Name, sub.Email, pageTitle),
		"submission": sub,
		"pageTitle":  pageTitle,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook returned %d", resp.StatusCode)
	}
	return nil
}
