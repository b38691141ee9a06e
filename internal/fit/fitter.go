package fit

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"tweeter/internal/core"
	"tweeter/internal/llm"
	"tweeter/internal/logger"
	"tweeter/internal/normalize"
)

// DefaultMaxAttempts bounds the shrink loop when no limit is configured.
const DefaultMaxAttempts = 8

// Options configures a Fitter.
type Options struct {
	// ShrinkTarget is the length requested from every shorten call. It is the
	// smallest configured budget, even when fitting a larger platform.
	ShrinkTarget int
	// MaxAttempts caps shorten calls per platform; 0 means no cap.
	MaxAttempts int
	// Truncate cuts the text to fit once attempts run out instead of failing
	// with core.ErrShrinkNonConvergence.
	Truncate bool
}

// Fitter shrinks generated text until it fits a platform budget.
type Fitter struct {
	gen  llm.Generator
	opts Options
}

// NewFitter creates a Fitter.
func NewFitter(gen llm.Generator, opts Options) *Fitter {
	return &Fitter{gen: gen, opts: opts}
}

// Fit returns text shortened, normalized and joined with link so that the
// result is at most budget characters.
func (f *Fitter) Fit(ctx context.Context, platform, text, link string, budget int) (core.FittedPost, error) {
	linkLen := core.LinkLength(link)
	if budget <= linkLen {
		return core.FittedPost{}, fmt.Errorf("budget %d for %s leaves no room next to a %d character link", budget, platform, linkLen)
	}

	shrinkTarget := f.opts.ShrinkTarget
	if shrinkTarget <= 0 {
		shrinkTarget = budget
	}

	candidate := text
	attempts := 0
	for utf8.RuneCountInString(candidate)+linkLen > budget {
		if f.opts.MaxAttempts > 0 && attempts >= f.opts.MaxAttempts {
			return f.overflow(platform, candidate, link, budget, attempts)
		}

		logger.Warn("Post too long, shortening",
			"platform", platform,
			"length", utf8.RuneCountInString(candidate)+linkLen,
			"budget", budget,
			"attempt", attempts+1)

		shorter, err := f.gen.Shorten(ctx, candidate, shrinkTarget)
		if err != nil {
			return core.FittedPost{}, err
		}
		candidate = shorter
		attempts++
	}

	return core.FittedPost{
		Platform: platform,
		Body:     normalize.Text(candidate),
		Link:     link,
		Attempts: attempts,
	}, nil
}

func (f *Fitter) overflow(platform, candidate, link string, budget, attempts int) (core.FittedPost, error) {
	if !f.opts.Truncate {
		return core.FittedPost{}, fmt.Errorf("%w: %s still %d characters after %d attempts (budget %d)",
			core.ErrShrinkNonConvergence, platform, utf8.RuneCountInString(candidate)+core.LinkLength(link), attempts, budget)
	}

	body := Truncate(normalize.Text(candidate), budget-core.LinkLength(link))
	logger.Warn("Shrink attempts exhausted, truncating",
		"platform", platform,
		"attempts", attempts,
		"budget", budget)

	return core.FittedPost{
		Platform:  platform,
		Body:      body,
		Link:      link,
		Attempts:  attempts,
		Truncated: true,
	}, nil
}

// Truncate cuts normalized text to at most limit characters, preferring the
// last word boundary, and leaves it normalized.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:limit])
	// A space right after the cut means the cut already ends on a word.
	if runes[limit] != ' ' {
		if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
			cut = cut[:idx]
		}
	}
	return normalize.Text(strings.TrimRight(cut, " "))
}
