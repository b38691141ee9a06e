package publish

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"tweeter/internal/config"
)

// MastodonSink posts statuses through the Mastodon REST API.
type MastodonSink struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

// NewMastodonSink creates a sink from configuration.
func NewMastodonSink(cfg config.MastodonConfig, client *http.Client) (*MastodonSink, error) {
	if cfg.APIBaseURL == "" || cfg.AccessToken == "" {
		return nil, errors.New("mastodon requires api_base_url and access_token. Set MASTODON_API_BASE_URL and MASTODON_ACCESS_TOKEN")
	}
	return &MastodonSink{
		baseURL:     strings.TrimRight(cfg.APIBaseURL, "/"),
		accessToken: cfg.AccessToken,
		client:      defaultClient(client, 0),
	}, nil
}

func (s *MastodonSink) Name() string { return PlatformMastodon }

// Publish posts text as a new public status.
func (s *MastodonSink) Publish(ctx context.Context, text string) error {
	form := url.Values{"status": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/statuses", strings.NewReader(form.Encode()))
	if err != nil {
		return wrap(PlatformMastodon, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	return wrap(PlatformMastodon, do(s.client, req, http.StatusOK))
}
