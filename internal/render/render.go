package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tweeter/internal/core"
)

var (
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	promptStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("252"))
	postStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).Padding(0, 1)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	overStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Printer writes run progress to a terminal. It implements scheduler.Observer.
type Printer struct {
	out     io.Writer
	budgets core.Budgets
}

// NewPrinter creates a Printer. budgets supply the limit shown next to each post.
func NewPrinter(out io.Writer, budgets core.Budgets) *Printer {
	return &Printer{out: out, budgets: budgets}
}

// OnPrompt prints the prompt sent to the model.
func (p *Printer) OnPrompt(prompt string, selection core.Selection) {
	fmt.Fprintln(p.out, Prompt(prompt, selection))
}

// OnFitted prints a fitted post with its length.
func (p *Printer) OnFitted(post core.FittedPost) {
	limit, _ := p.budgets.Limit(post.Platform)
	fmt.Fprintln(p.out, Post(post, limit))
}

// Prompt formats the prompt and the link chosen with it.
func Prompt(prompt string, selection core.Selection) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Prompt:") + " " + promptStyle.Render(prompt))
	if selection.Link != "" {
		b.WriteString("\n" + labelStyle.Render("Link:") + " " + selection.Link)
	}
	return b.String()
}

// Post formats a fitted post in a box headed by its platform and length.
func Post(post core.FittedPost, limit int) string {
	length := fmt.Sprintf("%d/%d", post.Length(), limit)
	if limit > 0 && post.Length() > limit {
		length = overStyle.Render(length)
	} else {
		length = okStyle.Render(length)
	}

	header := labelStyle.Render(post.Platform) + " " + length
	if post.Attempts > 0 {
		header += mutedStyle.Render(fmt.Sprintf(" (shortened %dx)", post.Attempts))
	}
	if post.Truncated {
		header += mutedStyle.Render(" truncated")
	}
	return header + "\n" + postStyle.Render(post.Text())
}

// GroupRow is one line of the topic listing.
type GroupRow struct {
	Group       core.TopicGroup
	Probability float64
	Topics      int
}

// Groups formats the topic listing as aligned columns.
func Groups(rows []GroupRow) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No topic files found.")
	}

	width := len("TYPE")
	for _, r := range rows {
		width = max(width, len(r.Group.TypeName))
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s %6s %7s %6s", width, "TYPE", "WEIGHT", "CHANCE", "TOPICS")))
	for _, r := range rows {
		fmt.Fprintf(&b, "\n%-*s %6d %6.1f%% %6d", width, r.Group.TypeName, r.Group.Weight, r.Probability*100, r.Topics)
	}
	return b.String()
}

// RenderMarkdownReport formats a run as markdown: the prompt, the generated
// text and each fitted post.
func RenderMarkdownReport(runID string, prompt, generated string, posts []core.FittedPost, budgets core.Budgets, at time.Time) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# Tweeter run %s\n\n", at.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&md, "- Run ID: `%s`\n", runID)
	fmt.Fprintf(&md, "- Prompt: %s\n\n", prompt)

	md.WriteString("## Generated\n\n")
	md.WriteString(generated + "\n\n")

	if len(posts) == 0 {
		md.WriteString("No posts fitted.\n")
		return md.String()
	}
	for _, post := range posts {
		limit, _ := budgets.Limit(post.Platform)
		fmt.Fprintf(&md, "## %s (%d/%d)\n\n", post.Platform, post.Length(), limit)
		md.WriteString(post.Text() + "\n\n")
		if post.Truncated {
			md.WriteString("*Truncated after shrink attempts ran out.*\n\n")
		}
		md.WriteString("---\n\n")
	}
	return md.String()
}

// WriteReportToFile writes content to outputDir/filename, creating the directory.
func WriteReportToFile(content, outputDir, filename string) (string, error) {
	if outputDir == "" {
		outputDir = "reports"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filePath := filepath.Join(outputDir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report file %s: %w", filePath, err)
	}
	return filePath, nil
}

// ReportFilename names the report for a run.
func ReportFilename(runID string, at time.Time) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("run_%s_%s.md", at.UTC().Format("2006-01-02_150405"), short)
}
