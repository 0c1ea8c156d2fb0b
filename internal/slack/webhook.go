package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"allocation-board/internal/config"
	"allocation-board/internal/digest"
)

// WebhookSender handles sending messages to Slack webhooks
type WebhookSender struct {
	client *http.Client
}

// NewWebhookSender creates a new Slack webhook sender instance
func NewWebhookSender() *WebhookSender {
	return &WebhookSender{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name identifies the messenger in logs and status.
func (w *WebhookSender) Name() string {
	return "slack"
}

// SendDigest posts a digest as one Block Kit message.
func (w *WebhookSender) SendDigest(ctx context.Context, webhookURL string, d digest.Digest, formatConfig *config.FormatConfig) error {
	// Check if context is cancelled before proceeding
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	payload := formatDigestMessage(d, formatConfig)

	if err := w.executeWebhook(ctx, webhookURL, payload); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	log.WithFields(log.Fields{
		"run_id": d.RunID,
		"rows":   len(d.Rows),
	}).Info("Sent allocation digest to Slack")

	return nil
}

// executeWebhook sends a webhook message to Slack
func (w *WebhookSender) executeWebhook(ctx context.Context, webhookURL string, payload interface{}) error {
	// Marshal payload to JSON
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	// Create HTTP request with context
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	// Send request
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Check response status
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("slack webhook returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return nil
}
