package topics

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"tweeter/internal/core"
)

const (
	commentPrefix = "#"
	linkPrefix    = "|"
)

// ParseTopics turns topic file content into topics. Blank and "#" lines are skipped,
// "|" lines attach a link to the most recent topic, anything else starts a new topic.
func ParseTopics(content string) ([]core.Topic, error) {
	var topics []core.Topic

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		if strings.HasPrefix(line, linkPrefix) {
			if len(topics) == 0 {
				return nil, &core.MalformedTopicFileError{Line: lineNo}
			}
			last := &topics[len(topics)-1]
			last.Links = append(last.Links, strings.TrimSpace(strings.TrimPrefix(line, linkPrefix)))
			continue
		}

		topics = append(topics, core.Topic{Description: line, Links: []string{}})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}

	return topics, nil
}

// ParseTopicFile reads and parses a topic file from disk.
func ParseTopicFile(path string) ([]core.Topic, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topic file %s: %w", path, err)
	}

	topics, err := ParseTopics(string(content))
	if err != nil {
		if malformed, ok := err.(*core.MalformedTopicFileError); ok {
			malformed.Path = path
		}
		return nil, err
	}
	return topics, nil
}
