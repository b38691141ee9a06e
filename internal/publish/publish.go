package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tweeter/internal/config"
	"tweeter/internal/core"
)

// Platform names with a built-in sink.
const (
	PlatformMastodon = "mastodon"
	PlatformTwitter  = "twitter"
	PlatformSlack    = "slack"
	PlatformDiscord  = "discord"
)

// defaultTimeout applies when publish.timeout is unset.
const defaultTimeout = 30 * time.Second

// Sink publishes a finished post to one platform.
type Sink interface {
	Name() string
	Publish(ctx context.Context, text string) error
}

// New builds the sink for a platform from configuration.
func New(platform string, cfg *config.Config, httpClient *http.Client) (Sink, error) {
	if httpClient == nil {
		httpClient = defaultClient(nil, cfg.Publish.TimeoutDuration())
	}

	switch platform {
	case PlatformMastodon:
		return NewMastodonSink(cfg.Mastodon, httpClient)
	case PlatformTwitter:
		return NewTwitterSink(cfg.Twitter, httpClient)
	case PlatformSlack:
		return NewSlackSink(cfg.Slack, httpClient)
	case PlatformDiscord:
		return NewDiscordSink(cfg.Discord, httpClient)
	default:
		return nil, fmt.Errorf("no publisher for platform %s (supported: mastodon, twitter, slack, discord)", platform)
	}
}

// NewAll builds one sink per configured platform, in budget order.
func NewAll(cfg *config.Config, httpClient *http.Client) ([]Sink, error) {
	budgets := cfg.Budgets()
	sinks := make([]Sink, 0, len(budgets))
	for _, b := range budgets {
		sink, err := New(b.Name, cfg, httpClient)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

// defaultClient returns client, or a new client with timeout (defaultTimeout
// when not positive) when client is nil.
func defaultClient(client *http.Client, timeout time.Duration) *http.Client {
	if client != nil {
		return client
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// wrap tags a sink failure with its platform.
func wrap(platform string, err error) error {
	if err == nil {
		return nil
	}
	return &core.PublishError{Platform: platform, Err: err}
}

// postJSON sends payload and expects one of the accepted status codes.
func postJSON(ctx context.Context, client *http.Client, url string, payload any, accepted ...int) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return do(client, req, accepted...)
}

func do(client *http.Client, req *http.Request, accepted ...int) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	for _, code := range accepted {
		if resp.StatusCode == code {
			return nil
		}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
}
