package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"tweeter/internal/config"
)

// OpenAIClient implements Generator using the official openai-go SDK (chat completions).
// BaseURL may point at any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient creates a client from configuration.
func NewOpenAIClient(cfg config.OpenAIConfig, extra ...option.RequestOption) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY or ai.openai.api_key")
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.ChatModelGPT3_5Turbo)
	}

	// Failed calls are surfaced, not retried.
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, extra...)

	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: parseTimeout(cfg.Timeout),
	}, nil
}

// Generate implements Generator.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, targetLength int, temperature float64, system string) (string, error) {
	return o.complete(ctx, generateRequest(prompt, targetLength, temperature, system))
}

// Shorten implements Generator.
func (o *OpenAIClient) Shorten(ctx context.Context, text string, targetLength int) (string, error) {
	return o.complete(ctx, shortenRequest(text, targetLength))
}

func (o *OpenAIClient) complete(ctx context.Context, req request) (string, error) {
	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		MaxTokens: openai.Int(int64(req.MaxTokens)),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError(req.Op, err)
	}
	if len(resp.Choices) == 0 {
		return "", wrapError(req.Op, errors.New("openai: empty choices"))
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", wrapError(req.Op, errors.New("openai: empty response"))
	}
	return content, nil
}
