package discord

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"allocation-board/internal/config"
	"allocation-board/internal/digest"
)

// WebhookSender handles sending messages to Discord webhooks
type WebhookSender struct {
	session *discordgo.Session
}

// NewWebhookSender creates a new webhook sender instance
func NewWebhookSender() (*WebhookSender, error) {
	// For webhook-only operations, we create a minimal Discord session
	// The empty token is fine since we're only using webhook functionality
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Configure HTTP client with timeout to prevent hanging requests
	session.Client = &http.Client{
		Timeout: 10 * time.Second,
	}

	return &WebhookSender{
		session: session,
	}, nil
}

// Close closes the Discord session and releases resources
func (w *WebhookSender) Close() error {
	if w.session != nil {
		return w.session.Close()
	}
	return nil
}

// Name identifies the messenger in logs and status.
func (w *WebhookSender) Name() string {
	return "discord"
}

// SendDigest posts a digest as a single embed.
func (w *WebhookSender) SendDigest(ctx context.Context, webhookURL string, d digest.Digest, formatConfig *config.FormatConfig) error {
	// Check if context is cancelled before proceeding
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	params := &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{formatDigestEmbed(d, formatConfig)},
	}

	// Extract webhook ID and token from URL
	webhookID, webhookToken, err := parseWebhookURL(webhookURL)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}

	if err := w.executeWebhook(ctx, webhookID, webhookToken, params); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	log.WithFields(log.Fields{
		"run_id": d.RunID,
		"rows":   len(d.Rows),
	}).Info("Sent allocation digest to Discord")

	return nil
}

// executeWebhook sends a webhook message to Discord. Rate limits and
// gateway errors are retried by discordgo itself.
func (w *WebhookSender) executeWebhook(ctx context.Context, webhookID, webhookToken string, params *discordgo.WebhookParams) error {
	if w.session == nil {
		return fmt.Errorf("discord session not available")
	}

	_, err := w.session.WebhookExecute(webhookID, webhookToken, false, params, discordgo.WithContext(ctx))
	return err
}

// parseWebhookURL extracts the webhook ID and token from a Discord webhook URL
func parseWebhookURL(webhookURL string) (string, string, error) {
	// Discord webhook URLs have the format:
	// https://discord.com/api/webhooks/{webhook.id}/{webhook.token}

	const prefix = "https://discord.com/api/webhooks/"
	if !strings.HasPrefix(webhookURL, prefix) {
		return "", "", fmt.Errorf("invalid webhook URL format")
	}

	// Remove the prefix
	remainder := webhookURL[len(prefix):]

	// Split by '/' to get ID and token
	parts := strings.Split(remainder, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("webhook URL missing ID or token")
	}

	webhookID := parts[0]
	webhookToken := parts[1]

	if webhookID == "" || webhookToken == "" {
		return "", "", fmt.Errorf("webhook ID or token is empty")
	}

	return webhookID, webhookToken, nil
}
