package mocks

import (
	"context"
	"strings"
	"sync"
	"time"
)

// GenerateCall records one Generate invocation.
type GenerateCall struct {
	Prompt       string
	TargetLength int
	Temperature  float64
	System       string
}

// ShortenCall records one Shorten invocation.
type ShortenCall struct {
	Text         string
	TargetLength int
}

// MockGenerator provides a mock implementation of llm.Generator
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, targetLength int, temperature float64, system string) (string, error)
	ShortenFunc  func(ctx context.Context, text string, targetLength int) (string, error)

	mu            sync.Mutex
	GenerateCalls []GenerateCall
	ShortenCalls  []ShortenCall
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, targetLength int, temperature float64, system string) (string, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, GenerateCall{prompt, targetLength, temperature, system})
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, targetLength, temperature, system)
	}
	return "Mock post about " + prompt, nil
}

func (m *MockGenerator) Shorten(ctx context.Context, text string, targetLength int) (string, error) {
	m.mu.Lock()
	m.ShortenCalls = append(m.ShortenCalls, ShortenCall{text, targetLength})
	m.mu.Unlock()
	if m.ShortenFunc != nil {
		return m.ShortenFunc(ctx, text, targetLength)
	}
	return HalveText(text), nil
}

// HalveText returns the first half of text, a shorten stub that always converges.
func HalveText(text string) string {
	runes := []rune(text)
	return string(runes[:len(runes)/2])
}

// RepeatedText returns a string of exactly n characters made of short words.
func RepeatedText(n int) string {
	const word = "abcd "
	s := strings.Repeat(word, n/len(word)+1)
	return s[:n]
}

// PublishCall records one Publish invocation.
type PublishCall struct {
	Text string
	At   time.Time
}

// MockSink provides a mock implementation of publish.Sink
type MockSink struct {
	NameValue   string
	PublishFunc func(ctx context.Context, text string) error

	mu    sync.Mutex
	Calls []PublishCall
}

func (m *MockSink) Name() string {
	return m.NameValue
}

func (m *MockSink) Publish(ctx context.Context, text string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, PublishCall{Text: text, At: time.Now()})
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, text)
	}
	return nil
}

// RecordingSleeper captures requested delays instead of sleeping.
type RecordingSleeper struct {
	mu      sync.Mutex
	Delays  []time.Duration
	OnSleep func(d time.Duration)
}

func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.Delays = append(s.Delays, d)
	s.mu.Unlock()
	if s.OnSleep != nil {
		s.OnSleep(d)
	}
	return ctx.Err()
}
