package publish

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"

	"tweeter/internal/config"
)

const defaultTwitterBaseURL = "https://api.twitter.com"

// TwitterSink creates tweets through the v2 API with OAuth 1.0a user context.
type TwitterSink struct {
	baseURL string
	config  *oauth1.Config
	token   *oauth1.Token
	client  *http.Client
}

type createTweetRequest struct {
	Text string `json:"text"`
}

// NewTwitterSink creates a sink from configuration. A nil client gets the default timeout.
func NewTwitterSink(cfg config.TwitterConfig, client *http.Client) (*TwitterSink, error) {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" || cfg.AccessToken == "" || cfg.AccessTokenSecret == "" {
		return nil, errors.New("twitter requires consumer_key, consumer_secret, access_token and access_token_secret. Set the TWITTER_* environment variables")
	}
	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTwitterBaseURL
	}
	return &TwitterSink{
		baseURL: baseURL,
		config:  oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret),
		token:   oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret),
		client:  defaultClient(client, 0),
	}, nil
}

func (s *TwitterSink) Name() string { return PlatformTwitter }

// Publish posts text as a new tweet.
func (s *TwitterSink) Publish(ctx context.Context, text string) error {
	// The signing client wraps our transport; the timeout is copied over.
	signingCtx := context.WithValue(ctx, oauth1.HTTPClient, s.client)
	signed := s.config.Client(signingCtx, s.token)
	signed.Timeout = s.client.Timeout

	err := postJSON(ctx, signed, s.baseURL+"/2/tweets", createTweetRequest{Text: text}, http.StatusCreated, http.StatusOK)
	return wrap(PlatformTwitter, err)
}
