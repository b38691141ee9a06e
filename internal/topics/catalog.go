package topics

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"tweeter/internal/core"
	"tweeter/internal/logger"
)

// groupNamePattern matches topic group files such as "3-informative".
var groupNamePattern = regexp.MustCompile(`^(\d+)-(\w+)$`)

// ListGroups returns one group per matching file in dir, sorted by file name.
// Topics are not loaded. core.ErrNoTopics is returned when nothing matches.
func ListGroups(dir string) ([]core.TopicGroup, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic directory %s: %w", dir, err)
	}

	var groups []core.TopicGroup
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := groupNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		weight, err := strconv.Atoi(match[1])
		if err != nil || weight < 1 {
			logger.Debug("Skipping topic file with unusable weight", "file", entry.Name())
			continue
		}
		groups = append(groups, core.TopicGroup{
			TypeName: match[2],
			Weight:   weight,
			Path:     filepath.Join(dir, entry.Name()),
		})
	}

	if len(groups) == 0 {
		return nil, core.ErrNoTopics
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Path < groups[j].Path })
	return groups, nil
}

// LoadTopics fills group.Topics from its file.
func LoadTopics(group *core.TopicGroup) error {
	topics, err := ParseTopicFile(group.Path)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		return fmt.Errorf("%w: %s", core.ErrEmptyTopicGroup, group.Path)
	}
	group.Topics = topics
	return nil
}

// SelectGroup draws a group with probability weight / sum(weights) using
// cumulative-weight inversion.
func SelectGroup(rng *rand.Rand, groups []core.TopicGroup) (core.TopicGroup, error) {
	if len(groups) == 0 {
		return core.TopicGroup{}, core.ErrNoTopics
	}

	total := 0
	for _, g := range groups {
		total += g.Weight
	}
	if total <= 0 {
		return core.TopicGroup{}, core.ErrNoTopics
	}

	target := rng.IntN(total)
	cumulative := 0
	for _, g := range groups {
		cumulative += g.Weight
		if target < cumulative {
			return g, nil
		}
	}
	return groups[len(groups)-1], nil
}

// SelectTopic picks a topic uniformly from a loaded group.
func SelectTopic(rng *rand.Rand, group core.TopicGroup) (core.Topic, error) {
	if len(group.Topics) == 0 {
		return core.Topic{}, fmt.Errorf("%w: %s", core.ErrEmptyTopicGroup, group.Path)
	}
	return group.Topics[rng.IntN(len(group.Topics))], nil
}

// PickLink returns one of the topic's links uniformly, or "" when it has none.
func PickLink(rng *rand.Rand, topic core.Topic) string {
	if len(topic.Links) == 0 {
		return ""
	}
	return topic.Links[rng.IntN(len(topic.Links))]
}

// Catalog selects topics from a directory of group files.
type Catalog struct {
	dir string
	rng *rand.Rand
}

// NewCatalog creates a catalog over dir drawing from rng.
func NewCatalog(dir string, rng *rand.Rand) *Catalog {
	return &Catalog{dir: dir, rng: rng}
}

// Dir returns the topic directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Groups lists the available groups without loading their topics.
func (c *Catalog) Groups() ([]core.TopicGroup, error) {
	return ListGroups(c.dir)
}

// Select picks a group, a topic in it and one of the topic's links.
func (c *Catalog) Select(ctx context.Context) (core.Selection, error) {
	if err := ctx.Err(); err != nil {
		return core.Selection{}, err
	}

	groups, err := ListGroups(c.dir)
	if err != nil {
		return core.Selection{}, err
	}

	group, err := SelectGroup(c.rng, groups)
	if err != nil {
		return core.Selection{}, err
	}
	if err := LoadTopics(&group); err != nil {
		return core.Selection{}, err
	}

	topic, err := SelectTopic(c.rng, group)
	if err != nil {
		return core.Selection{}, err
	}

	logger.Debug("Selected topic",
		"type", group.TypeName,
		"weight", group.Weight,
		"topic", topic.Description,
		"links", len(topic.Links))

	return core.Selection{
		TypeName: group.TypeName,
		Topic:    topic,
		Link:     PickLink(c.rng, topic),
	}, nil
}

// Probability returns a group's selection probability within groups.
func Probability(group core.TopicGroup, groups []core.TopicGroup) float64 {
	total := 0
	for _, g := range groups {
		total += g.Weight
	}
	if total == 0 {
		return 0
	}
	return float64(group.Weight) / float64(total)
}
