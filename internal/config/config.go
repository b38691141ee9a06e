package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"tweeter/internal/core"
)

// Config holds all application configuration
type Config struct {
	App        App                   `mapstructure:"app"`
	Paths      Paths                 `mapstructure:"paths"`
	Platforms  []core.PlatformBudget `mapstructure:"platforms"`
	Generation Generation            `mapstructure:"generation"`
	Schedule   Schedule              `mapstructure:"schedule"`
	AI         AI                    `mapstructure:"ai"`
	Publish    Publish               `mapstructure:"publish"`
	Mastodon   MastodonConfig        `mapstructure:"mastodon"`
	Twitter    TwitterConfig         `mapstructure:"twitter"`
	Slack      WebhookConfig         `mapstructure:"slack"`
	Discord    WebhookConfig         `mapstructure:"discord"`
}

// App holds general application configuration
type App struct {
	// Debug is the DEBUG switch: 2 stops after topic
	// selection, 1 stops before publishing, 0 runs everything.
	Debug      int    `mapstructure:"debug"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	ConfigFile string `mapstructure:"config_file"`
}

// Paths holds the persona file and topic directory locations
type Paths struct {
	SystemFile     string `mapstructure:"system_file"`
	TopicDirectory string `mapstructure:"topic_directory"`
}

// Generation holds prompt and shrink loop settings
type Generation struct {
	Temperature        float64 `mapstructure:"temperature"`
	MaxShrinkAttempts  int     `mapstructure:"max_shrink_attempts"`
	TruncateOnOverflow bool    `mapstructure:"truncate_on_overflow"`
}

// Schedule holds the delay between consecutive publishes
type Schedule struct {
	MinDelay string `mapstructure:"min_delay"`
	Jitter   string `mapstructure:"jitter"`
}

// AI holds AI/LLM configuration
type AI struct {
	Provider string       `mapstructure:"provider"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	Timeout string `mapstructure:"timeout"`
}

// Publish holds settings shared by all publish sinks
type Publish struct {
	Timeout string `mapstructure:"timeout"`
}

// MastodonConfig holds Mastodon credentials
type MastodonConfig struct {
	APIBaseURL  string `mapstructure:"api_base_url"`
	AccessToken string `mapstructure:"access_token"`
}

// TwitterConfig holds Twitter OAuth 1.0a user-context credentials
type TwitterConfig struct {
	APIBaseURL        string `mapstructure:"api_base_url"`
	ConsumerKey       string `mapstructure:"consumer_key"`
	ConsumerSecret    string `mapstructure:"consumer_secret"`
	AccessToken       string `mapstructure:"access_token"`
	AccessTokenSecret string `mapstructure:"access_token_secret"`
}

// WebhookConfig holds an incoming-webhook destination
type WebhookConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Username   string `mapstructure:"username"`
}

// Load loads the configuration from .env, the config file and the environment.
func Load(configFile string) (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".tweeter")
		v.SetConfigType("yaml")
	}

	setDefaults(v)
	bindEnvironmentVariables(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.App.ConfigFile = v.ConfigFileUsed()

	postProcessConfig(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", 0)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("paths.system_file", "./system.txt")
	v.SetDefault("paths.topic_directory", "./topics")

	v.SetDefault("platforms", []map[string]any{
		{"name": "mastodon", "limit": 500},
		{"name": "twitter", "limit": 280},
	})

	v.SetDefault("generation.temperature", 1.3)
	v.SetDefault("generation.max_shrink_attempts", 8)
	v.SetDefault("generation.truncate_on_overflow", true)

	v.SetDefault("schedule.min_delay", "60s")
	v.SetDefault("schedule.jitter", "840s")

	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.openai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.openai.timeout", "60s")
	v.SetDefault("ai.gemini.model", "gemini-flash-lite-latest")
	v.SetDefault("ai.gemini.timeout", "60s")

	v.SetDefault("publish.timeout", "30s")
	v.SetDefault("twitter.api_base_url", "https://api.twitter.com")
	v.SetDefault("slack.username", "tweeter")
	v.SetDefault("discord.username", "tweeter")
}

// bindEnvironmentVariables maps the bot's conventional env names onto config keys
func bindEnvironmentVariables(v *viper.Viper) {
	bindEnvKeys(v, "ai.openai.api_key", []string{"OPENAI_API_KEY"})
	bindEnvKeys(v, "ai.openai.base_url", []string{"OPENAI_BASE_URL"})
	bindEnvKeys(v, "ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})
	bindEnvKeys(v, "ai.provider", []string{"AI_PROVIDER"})

	bindEnvKeys(v, "mastodon.api_base_url", []string{"MASTODON_API_BASE_URL"})
	bindEnvKeys(v, "mastodon.access_token", []string{"MASTODON_ACCESS_TOKEN"})

	bindEnvKeys(v, "twitter.consumer_key", []string{"TWITTER_CONSUMER_KEY", "TWITTER_API_KEY"})
	bindEnvKeys(v, "twitter.consumer_secret", []string{"TWITTER_CONSUMER_SECRET", "TWITTER_API_SECRET"})
	bindEnvKeys(v, "twitter.access_token", []string{"TWITTER_ACCESS_TOKEN"})
	bindEnvKeys(v, "twitter.access_token_secret", []string{"TWITTER_ACCESS_TOKEN_SECRET"})

	bindEnvKeys(v, "slack.webhook_url", []string{"SLACK_WEBHOOK_URL", "SLACK_WEBHOOK"})
	bindEnvKeys(v, "discord.webhook_url", []string{"DISCORD_WEBHOOK_URL", "DISCORD_WEBHOOK"})

	bindEnvKeys(v, "app.debug", []string{"DEBUG", "TWEETER_DEBUG"})
	bindEnvKeys(v, "app.log_level", []string{"LOG_LEVEL", "TWEETER_LOG_LEVEL"})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(v *viper.Viper, viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			v.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig expands paths and normalizes names
func postProcessConfig(config *Config) {
	config.Paths.SystemFile = expandPath(config.Paths.SystemFile)
	config.Paths.TopicDirectory = expandPath(config.Paths.TopicDirectory)
	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))
	for i := range config.Platforms {
		config.Platforms[i].Name = strings.ToLower(strings.TrimSpace(config.Platforms[i].Name))
	}
	config.Mastodon.APIBaseURL = strings.TrimRight(config.Mastodon.APIBaseURL, "/")
	config.Twitter.APIBaseURL = strings.TrimRight(config.Twitter.APIBaseURL, "/")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Validate ensures the configuration is structurally sound. Credentials are
// checked by RequireAI and the llm and publish constructors, so topic listing
// and an empty topic directory work without them.
func (c *Config) Validate() error {
	var errors []string

	if len(c.Platforms) == 0 {
		errors = append(errors, "at least one platform must be configured under platforms")
	}
	seen := map[string]bool{}
	for _, p := range c.Platforms {
		if p.Name == "" {
			errors = append(errors, "platform name must not be empty")
			continue
		}
		if seen[p.Name] {
			errors = append(errors, fmt.Sprintf("platform %s is configured twice", p.Name))
		}
		seen[p.Name] = true
		if p.Limit <= 0 {
			errors = append(errors, fmt.Sprintf("platform %s needs a positive limit, got %d", p.Name, p.Limit))
		}
	}

	if c.Generation.MaxShrinkAttempts < 0 {
		errors = append(errors, "generation.max_shrink_attempts must not be negative")
	}

	switch c.AI.Provider {
	case "openai", "gemini":
	default:
		errors = append(errors, fmt.Sprintf("Unknown AI provider: %s. Supported: openai, gemini", c.AI.Provider))
	}

	durations := map[string]string{
		"schedule.min_delay": c.Schedule.MinDelay,
		"schedule.jitter":    c.Schedule.Jitter,
		"ai.openai.timeout":  c.AI.OpenAI.Timeout,
		"ai.gemini.timeout":  c.AI.Gemini.Timeout,
		"publish.timeout":    c.Publish.Timeout,
	}
	for key, duration := range durations {
		if duration == "" {
			continue
		}
		d, err := time.ParseDuration(duration)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid duration for %s: %s", key, duration))
		} else if d < 0 {
			errors = append(errors, fmt.Sprintf("duration for %s must not be negative: %s", key, duration))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Budgets returns the configured platform budgets in publish order.
func (c *Config) Budgets() core.Budgets {
	return core.Budgets(c.Platforms)
}

// MinDelayDuration returns schedule.min_delay as a duration.
func (s Schedule) MinDelayDuration() time.Duration {
	return parseDuration(s.MinDelay)
}

// JitterDuration returns schedule.jitter as a duration.
func (s Schedule) JitterDuration() time.Duration {
	return parseDuration(s.Jitter)
}

// TimeoutDuration returns publish.timeout as a duration.
func (p Publish) TimeoutDuration() time.Duration {
	return parseDuration(p.Timeout)
}

// parseDuration returns 0 for empty or invalid values; Validate reports the latter.
func parseDuration(value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

// isValidAPIKey checks if an API key is valid (not empty and not a placeholder)
func isValidAPIKey(apiKey string) bool {
	if apiKey == "" {
		return false
	}

	placeholders := []string{
		"your-api-key", "your-openai-key", "your-gemini-key",
		"YOUR_API_KEY", "PLACEHOLDER", "TODO", "CHANGE_ME",
	}
	for _, placeholder := range placeholders {
		if apiKey == placeholder {
			return false
		}
	}
	return true
}

// RequireAI checks that the selected AI provider has an API key.
func (c *Config) RequireAI() error {
	switch c.AI.Provider {
	case "gemini":
		if !isValidAPIKey(c.AI.Gemini.APIKey) {
			return fmt.Errorf("Gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file")
		}
	default:
		if !isValidAPIKey(c.AI.OpenAI.APIKey) {
			return fmt.Errorf("OpenAI API key is required. Set OPENAI_API_KEY environment variable or ai.openai.api_key in config file")
		}
	}
	return nil
}

// StopLevel translates App.Debug into the scheduler's stop point name.
func (a App) StopLevel() string {
	switch {
	case a.Debug >= 2:
		return "topics-only"
	case a.Debug == 1:
		return "no-publish"
	default:
		return ""
	}
}
