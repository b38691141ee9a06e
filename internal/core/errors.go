package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTopics means the topic directory holds no matching group files. It is not a failure.
	ErrNoTopics = errors.New("no topic files found")
	// ErrMalformedTopicFile means a link line appeared before any description line.
	ErrMalformedTopicFile = errors.New("malformed topic file")
	// ErrEmptyTopicGroup means the selected group file contains no topics.
	ErrEmptyTopicGroup = errors.New("topic group has no topics")
	// ErrGeneration marks failures of the text generation service.
	ErrGeneration = errors.New("generation failed")
	// ErrPublish marks failures of a publish sink.
	ErrPublish = errors.New("publish failed")
	// ErrShrinkNonConvergence means the shrink loop ran out of attempts.
	ErrShrinkNonConvergence = errors.New("text did not shrink to fit the budget")
)

// MalformedTopicFileError reports where a topic file went wrong.
type MalformedTopicFileError struct {
	Path string
	Line int
}

func (e *MalformedTopicFileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: line %d: link without a preceding topic", ErrMalformedTopicFile, e.Line)
	}
	return fmt.Sprintf("%s %s: line %d: link without a preceding topic", ErrMalformedTopicFile, e.Path, e.Line)
}

func (e *MalformedTopicFileError) Unwrap() error { return ErrMalformedTopicFile }

// GenerationError wraps a failed generate or shorten request.
type GenerationError struct {
	Op  string // "generate" or "shorten"
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrGeneration, e.Op, e.Err)
}

func (e *GenerationError) Unwrap() []error { return []error{ErrGeneration, e.Err} }

// PublishError wraps a failed publish on one platform.
type PublishError struct {
	Platform string
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s on %s: %v", ErrPublish, e.Platform, e.Err)
}

func (e *PublishError) Unwrap() []error { return []error{ErrPublish, e.Err} }
