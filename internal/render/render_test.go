package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tweeter/internal/core"
)

var budgets = core.Budgets{{Name: "twitter", Limit: 280}, {Name: "mastodon", Limit: 500}}

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, budgets)

	p.OnPrompt("Write an informative tweet about rainbows", core.Selection{Link: "https://example.com"})
	p.OnFitted(core.FittedPost{Platform: "twitter", Body: "Rainbows are refracted light.", Link: "https://example.com", Attempts: 2})

	got := out.String()
	for _, want := range []string{
		"Write an informative tweet about rainbows",
		"https://example.com",
		"twitter",
		"Rainbows are refracted light.",
		"shortened 2x",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPost_Length(t *testing.T) {
	post := core.FittedPost{Platform: "twitter", Body: "hello"}
	if got := Post(post, 280); !strings.Contains(got, "5/280") {
		t.Errorf("Post() = %q, want length 5/280", got)
	}

	post.Truncated = true
	if got := Post(post, 280); !strings.Contains(got, "truncated") {
		t.Errorf("Post() = %q, want truncated marker", got)
	}
}

func TestGroups(t *testing.T) {
	rows := []GroupRow{
		{Group: core.TopicGroup{TypeName: "informative", Weight: 3}, Probability: 0.75, Topics: 4},
		{Group: core.TopicGroup{TypeName: "funny", Weight: 1}, Probability: 0.25, Topics: 2},
	}
	got := Groups(rows)
	for _, want := range []string{"informative", "75.0%", "funny", "25.0%"} {
		if !strings.Contains(got, want) {
			t.Errorf("Groups() missing %q:\n%s", want, got)
		}
	}

	if got := Groups(nil); !strings.Contains(got, "No topic files found") {
		t.Errorf("Groups(nil) = %q", got)
	}
}

func TestRenderMarkdownReport(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	posts := []core.FittedPost{
		{Platform: "twitter", Body: "Short one.", Link: "https://example.com"},
		{Platform: "mastodon", Body: "Longer one.", Truncated: true},
	}

	md := RenderMarkdownReport("run-1", "Write a funny tweet about cats", "raw text", posts, budgets, at)
	for _, want := range []string{
		"# Tweeter run 2024-05-01 12:00:00",
		"`run-1`",
		"Write a funny tweet about cats",
		"## twitter (30/280)",
		"Short one.\nhttps://example.com",
		"## mastodon (11/500)",
		"Truncated",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}

	if md := RenderMarkdownReport("run-2", "p", "g", nil, budgets, at); !strings.Contains(md, "No posts fitted") {
		t.Errorf("empty report = %q", md)
	}
}

func TestWriteReportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	name := ReportFilename("0123456789abcdef", at)
	if name != "run_2024-05-01_120000_01234567.md" {
		t.Errorf("ReportFilename() = %q", name)
	}

	path, err := WriteReportToFile("# report\n", dir, name)
	if err != nil {
		t.Fatalf("WriteReportToFile() error = %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "# report\n" {
		t.Errorf("content = %q", content)
	}
}
