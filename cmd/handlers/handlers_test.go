package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tweeter/internal/config"
	"tweeter/internal/core"
	"tweeter/internal/scheduler"
)

func TestStopLevel(t *testing.T) {
	tests := []struct {
		name       string
		debug      int
		topicsOnly bool
		dryRun     bool
		want       scheduler.StopAfter
	}{
		{"full run", 0, false, false, scheduler.StopNever},
		{"dry run flag", 0, false, true, scheduler.StopAfterFit},
		{"topics flag wins over dry run", 0, true, true, scheduler.StopAfterTopic},
		{"debug 1", 1, false, false, scheduler.StopAfterFit},
		{"debug 2", 2, false, false, scheduler.StopAfterTopic},
		{"debug 2 beats dry run flag", 2, false, true, scheduler.StopAfterTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{App: config.App{Debug: tt.debug}}
			got, err := stopLevel(cfg, tt.topicsOnly, tt.dryRun)
			if err != nil {
				t.Fatalf("stopLevel() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("stopLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupRows(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"3-informative": "about rainbows\nabout bees\n| https://example.com/bees\n",
		"1-funny":       "about cats\n",
		"2-empty":       "# nothing yet\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := groupRows(dir)
	if err != nil {
		t.Fatalf("groupRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	counts := map[string]int{}
	for _, r := range rows {
		counts[r.Group.TypeName] = r.Topics
		if r.Group.TypeName == "informative" && r.Probability != 0.5 {
			t.Errorf("informative probability = %v, want 0.5", r.Probability)
		}
	}
	if counts["informative"] != 2 || counts["funny"] != 1 || counts["empty"] != 0 {
		t.Errorf("topic counts = %v", counts)
	}
}

func TestGroupRows_NoTopics(t *testing.T) {
	if _, err := groupRows(t.TempDir()); !errors.Is(err, core.ErrNoTopics) {
		t.Errorf("groupRows() error = %v, want ErrNoTopics", err)
	}
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"run", "topics"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"topics-only", "dry-run", "seed", "no-delay", "report-dir"} {
		if root.Flags().Lookup(flag) == nil {
			t.Errorf("root command missing --%s", flag)
		}
	}
}

// clearCredentials unsets every credential the config layer reads.
func clearCredentials(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "AI_OPENAI_API_KEY",
		"GEMINI_API_KEY", "GOOGLE_GEMINI_API_KEY", "GOOGLE_AI_API_KEY", "AI_GEMINI_API_KEY",
		"MASTODON_API_BASE_URL", "MASTODON_ACCESS_TOKEN",
		"TWITTER_CONSUMER_KEY", "TWITTER_API_KEY", "TWITTER_CONSUMER_SECRET", "TWITTER_API_SECRET",
		"TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_TOKEN_SECRET",
		"DEBUG", "TWEETER_DEBUG", "AI_PROVIDER",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, topicDir string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tweeter.yaml")
	content := fmt.Sprintf("paths:\n  topic_directory: %q\n  system_file: %q\n", topicDir, filepath.Join(dir, "system.txt"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCmd_NoTopicsWithoutCredentials(t *testing.T) {
	clearCredentials(t)
	topicDir := filepath.Join(t.TempDir(), "topics")
	if err := os.Mkdir(topicDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := writeConfig(t, topicDir)

	tests := []struct {
		name string
		args []string
	}{
		{"full run", nil},
		{"dry run", []string{"--dry-run"}},
		{"run subcommand", []string{"run"}},
		{"run subcommand dry run", []string{"run", "--dry-run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			root := NewRootCmd()
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs(append([]string{"--config", cfg}, tt.args...))

			if err := root.Execute(); err != nil {
				t.Fatalf("Execute() error = %v, want nil", err)
			}
			if !strings.Contains(out.String(), noTopicsWarning) {
				t.Errorf("output = %q, want %q", out.String(), noTopicsWarning)
			}
		})
	}
}

func TestRootCmd_MissingTopicDirectory(t *testing.T) {
	clearCredentials(t)
	cfg := writeConfig(t, filepath.Join(t.TempDir(), "missing"))

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfg, "--dry-run"})

	err := root.Execute()
	if err == nil {
		t.Fatal("Execute() error = nil, want an error for a missing topic directory")
	}
	if !strings.Contains(err.Error(), "failed to list topics") {
		t.Errorf("error = %v, want it to come from listing topics", err)
	}
}
