package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestBudgetsMin(t *testing.T) {
	budgets := Budgets{{Name: "mastodon", Limit: 500}, {Name: "twitter", Limit: 280}}
	if got := budgets.Min(); got != 280 {
		t.Errorf("Expected min 280, got %d", got)
	}
	if got := (Budgets{}).Min(); got != 0 {
		t.Errorf("Expected min 0 for empty budgets, got %d", got)
	}
}

func TestBudgetsLimit(t *testing.T) {
	budgets := Budgets{{Name: "mastodon", Limit: 500}, {Name: "twitter", Limit: 280}}

	limit, ok := budgets.Limit("twitter")
	if !ok || limit != 280 {
		t.Errorf("Expected twitter limit 280, got %d (ok=%v)", limit, ok)
	}
	if _, ok := budgets.Limit("bluesky"); ok {
		t.Error("Expected unknown platform to be missing")
	}
	names := budgets.Names()
	if len(names) != 2 || names[0] != "mastodon" || names[1] != "twitter" {
		t.Errorf("Expected names in configured order, got %v", names)
	}
}

func TestFittedPostText(t *testing.T) {
	post := FittedPost{Body: "Hello world.", Link: "https://example.com"}
	if got := post.Text(); got != "Hello world.\nhttps://example.com" {
		t.Errorf("Unexpected text %q", got)
	}
	if got := post.Length(); got != 12+1+19 {
		t.Errorf("Expected length 32, got %d", got)
	}

	bare := FittedPost{Body: "Hello"}
	if bare.Text() != "Hello" || bare.Length() != 5 {
		t.Errorf("Unexpected bare post %q (%d)", bare.Text(), bare.Length())
	}
}

func TestLinkLength(t *testing.T) {
	if LinkLength("") != 0 {
		t.Error("Expected empty link to consume nothing")
	}
	if got := LinkLength("abc"); got != 4 {
		t.Errorf("Expected 4, got %d", got)
	}
}

func TestErrorUnwrapping(t *testing.T) {
	cause := fmt.Errorf("quota exceeded")

	genErr := error(&GenerationError{Op: "shorten", Err: cause})
	if !errors.Is(genErr, ErrGeneration) || !errors.Is(genErr, cause) {
		t.Errorf("GenerationError should unwrap to ErrGeneration and its cause: %v", genErr)
	}

	pubErr := fmt.Errorf("run: %w", &PublishError{Platform: "twitter", Err: cause})
	var pe *PublishError
	if !errors.As(pubErr, &pe) || pe.Platform != "twitter" {
		t.Errorf("Expected PublishError for twitter, got %v", pubErr)
	}
	if !errors.Is(pubErr, ErrPublish) {
		t.Error("PublishError should unwrap to ErrPublish")
	}

	malformed := error(&MalformedTopicFileError{Path: "topics/1-funny", Line: 2})
	if !errors.Is(malformed, ErrMalformedTopicFile) {
		t.Error("MalformedTopicFileError should unwrap to ErrMalformedTopicFile")
	}
}
