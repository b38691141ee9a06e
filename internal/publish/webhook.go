package publish

import (
	"context"
	"fmt"
	"net/http"

	"tweeter/internal/config"
)

// SlackMessage represents a Slack incoming-webhook payload
type SlackMessage struct {
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
}

// DiscordMessage represents a Discord webhook payload
type DiscordMessage struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

// SlackSink posts to a Slack incoming webhook.
type SlackSink struct {
	webhookURL string
	username   string
	client     *http.Client
}

// NewSlackSink creates a Slack sink from configuration.
func NewSlackSink(cfg config.WebhookConfig, client *http.Client) (*SlackSink, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("slack webhook URL not configured. Set SLACK_WEBHOOK_URL")
	}
	return &SlackSink{webhookURL: cfg.WebhookURL, username: cfg.Username, client: defaultClient(client, 0)}, nil
}

func (s *SlackSink) Name() string { return PlatformSlack }

// Publish sends text to the webhook.
func (s *SlackSink) Publish(ctx context.Context, text string) error {
	message := SlackMessage{Text: text, Username: s.username}
	return wrap(PlatformSlack, postJSON(ctx, s.client, s.webhookURL, message, http.StatusOK))
}

// DiscordSink posts to a Discord webhook.
type DiscordSink struct {
	webhookURL string
	username   string
	client     *http.Client
}

// NewDiscordSink creates a Discord sink from configuration.
func NewDiscordSink(cfg config.WebhookConfig, client *http.Client) (*DiscordSink, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("discord webhook URL not configured. Set DISCORD_WEBHOOK_URL")
	}
	return &DiscordSink{webhookURL: cfg.WebhookURL, username: cfg.Username, client: defaultClient(client, 0)}, nil
}

func (s *DiscordSink) Name() string { return PlatformDiscord }

// Publish sends text to the webhook.
func (s *DiscordSink) Publish(ctx context.Context, text string) error {
	message := DiscordMessage{Content: text, Username: s.username}
	return wrap(PlatformDiscord, postJSON(ctx, s.client, s.webhookURL, message, http.StatusNoContent, http.StatusOK))
}
