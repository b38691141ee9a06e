package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"tweeter/internal/config"
)

// DefaultGeminiModel is used when ai.gemini.model is empty.
const DefaultGeminiModel = "gemini-flash-lite-latest"

// GeminiClient implements Generator on the google.golang.org/genai SDK.
type GeminiClient struct {
	gClient   *genai.Client
	modelName string
	timeout   time.Duration
}

// NewGeminiClient creates a Gemini client from configuration.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file")
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		gClient:   gClient,
		modelName: modelName,
		timeout:   parseTimeout(cfg.Timeout),
	}, nil
}

// Generate implements Generator.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, targetLength int, temperature float64, system string) (string, error) {
	return c.generateContent(ctx, generateRequest(prompt, targetLength, temperature, system))
}

// Shorten implements Generator.
func (c *GeminiClient) Shorten(ctx context.Context, text string, targetLength int) (string, error) {
	return c.generateContent(ctx, shortenRequest(text, targetLength))
}

// ModelName returns the model requests are sent to.
func (c *GeminiClient) ModelName() string {
	return c.modelName
}

func (c *GeminiClient) generateContent(ctx context.Context, req request) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: req.User}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, geminiConfig(req))
	if err != nil {
		return "", wrapError(req.Op, err)
	}

	text := resp.Text()
	if text == "" {
		return "", wrapError(req.Op, errors.New("empty response from model"))
	}
	return text, nil
}

func geminiConfig(req request) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		},
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.Temperature != nil {
		genConfig.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	return genConfig
}
