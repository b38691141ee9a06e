package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	"tweeter/internal/config"
	"tweeter/internal/core"
)

const (
	// DefaultSystemPrompt is used when no persona is supplied.
	DefaultSystemPrompt = "You are a helpful assistant."
	// ShortenSystemPrompt instructs the model to condense a post.
	ShortenSystemPrompt = "Your task is to shorten the given texts while retaining the most important parts."

	// averageLettersPerWord, wordToTokenRatio and tokenBuffer drive TokensFor.
	averageLettersPerWord = 6
	wordToTokenRatio      = 1.3 // 1 word ~ 1.3 tokens
	tokenBuffer           = 20
)

// Generator produces and shortens post text.
type Generator interface {
	// Generate writes a post for prompt, capped near targetLength characters.
	Generate(ctx context.Context, prompt string, targetLength int, temperature float64, system string) (string, error)
	// Shorten rewrites text more briefly, capped near targetLength characters.
	Shorten(ctx context.Context, text string, targetLength int) (string, error)
}

// TokensFor estimates the output token cap for a text of length characters.
// The cap is soft: responses may still run longer than length.
func TokensFor(length int) int {
	words := float64(length) / averageLettersPerWord
	tokens := words * wordToTokenRatio
	return int(math.RoundToEven(tokens + tokenBuffer))
}

// request is the provider-neutral shape of one completion call.
type request struct {
	Op          string
	System      string
	User        string
	MaxTokens   int
	Temperature *float64 // nil leaves the provider default
}

func generateRequest(prompt string, targetLength int, temperature float64, system string) request {
	if system == "" {
		system = DefaultSystemPrompt
	}
	return request{
		Op:          "generate",
		System:      system,
		User:        prompt,
		MaxTokens:   TokensFor(targetLength),
		Temperature: &temperature,
	}
}

func shortenRequest(text string, targetLength int) request {
	return request{
		Op:        "shorten",
		System:    ShortenSystemPrompt,
		User:      text,
		MaxTokens: TokensFor(targetLength),
	}
}

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.AI) (Generator, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg.OpenAI)
	case "gemini":
		return NewGeminiClient(ctx, cfg.Gemini)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}

func wrapError(op string, err error) error {
	return &core.GenerationError{Op: op, Err: err}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func parseTimeout(value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}
