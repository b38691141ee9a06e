package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY", "GOOGLE_GEMINI_API_KEY", "GOOGLE_AI_API_KEY", "AI_PROVIDER",
		"MASTODON_API_BASE_URL", "MASTODON_ACCESS_TOKEN",
		"TWITTER_CONSUMER_KEY", "TWITTER_CONSUMER_SECRET", "TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_TOKEN_SECRET",
		"DEBUG", "TWEETER_DEBUG", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tweeter.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "app:\n  log_level: info\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	budgets := cfg.Budgets()
	if len(budgets) != 2 || budgets[0].Name != "mastodon" || budgets[0].Limit != 500 ||
		budgets[1].Name != "twitter" || budgets[1].Limit != 280 {
		t.Errorf("Unexpected default platforms %+v", budgets)
	}
	if budgets.Min() != 280 {
		t.Errorf("Expected min budget 280, got %d", budgets.Min())
	}
	if cfg.Generation.Temperature != 1.3 {
		t.Errorf("Expected temperature 1.3, got %v", cfg.Generation.Temperature)
	}
	if cfg.Schedule.MinDelayDuration() != 60*time.Second || cfg.Schedule.JitterDuration() != 840*time.Second {
		t.Errorf("Unexpected schedule %+v", cfg.Schedule)
	}
	if cfg.Paths.SystemFile != "./system.txt" || cfg.Paths.TopicDirectory != "./topics" {
		t.Errorf("Unexpected paths %+v", cfg.Paths)
	}
	if cfg.AI.Provider != "openai" || cfg.AI.OpenAI.Model != "gpt-3.5-turbo" {
		t.Errorf("Unexpected AI defaults %+v", cfg.AI)
	}
	if cfg.App.StopLevel() != "" {
		t.Errorf("Expected full run by default, got %q", cfg.App.StopLevel())
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MASTODON_API_BASE_URL", "https://mastodon.example/")
	t.Setenv("DEBUG", "1")

	cfg, err := Load(writeConfig(t, `
platforms:
  - name: Twitter
    limit: 280
  - name: bluesky
    limit: 300
generation:
  max_shrink_attempts: 3
schedule:
  min_delay: 5s
  jitter: 10s
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.OpenAI.APIKey != "sk-test" {
		t.Errorf("Expected API key from environment, got %q", cfg.AI.OpenAI.APIKey)
	}
	if cfg.Mastodon.APIBaseURL != "https://mastodon.example" {
		t.Errorf("Expected trailing slash trimmed, got %q", cfg.Mastodon.APIBaseURL)
	}
	names := cfg.Budgets().Names()
	if len(names) != 2 || names[0] != "twitter" || names[1] != "bluesky" {
		t.Errorf("Expected lower-cased platforms in file order, got %v", names)
	}
	if cfg.Generation.MaxShrinkAttempts != 3 {
		t.Errorf("Expected 3 shrink attempts, got %d", cfg.Generation.MaxShrinkAttempts)
	}
	if cfg.App.StopLevel() != "no-publish" {
		t.Errorf("Expected DEBUG=1 to stop before publishing, got %q", cfg.App.StopLevel())
	}
	if err := cfg.RequireAI(); err != nil {
		t.Errorf("RequireAI failed: %v", err)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, `
platforms:
  - name: twitter
    limit: 0
  - name: twitter
    limit: 280
ai:
  provider: llama
schedule:
  jitter: soon
`))
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	for _, fragment := range []string{
		"platform twitter needs a positive limit",
		"platform twitter is configured twice",
		"Unknown AI provider: llama",
		"invalid duration for schedule.jitter",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Expected error to mention %q, got:\n%v", fragment, err)
		}
	}
}

func TestLoad_WithoutCredentials(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "paths:\n  topic_directory: ./topics\n"))
	if err != nil {
		t.Fatalf("Load() without credentials error = %v, want nil", err)
	}
	if err := cfg.RequireAI(); err == nil {
		t.Error("RequireAI() should report the missing OpenAI key")
	}
}

func TestRequireAI(t *testing.T) {
	tests := []struct {
		name    string
		ai      AI
		wantErr bool
	}{
		{"openai with key", AI{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-1"}}, false},
		{"openai placeholder", AI{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "CHANGE_ME"}}, true},
		{"gemini missing", AI{Provider: "gemini"}, true},
		{"gemini with key", AI{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g-1"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AI: tt.ai}
			if err := cfg.RequireAI(); (err != nil) != tt.wantErr {
				t.Errorf("RequireAI() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStopLevel(t *testing.T) {
	if (App{Debug: 2}).StopLevel() != "topics-only" {
		t.Error("Expected DEBUG=2 to stop after topic selection")
	}
	if (App{Debug: 0}).StopLevel() != "" {
		t.Error("Expected DEBUG=0 to run everything")
	}
}
