package handlers

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tweeter/internal/core"
	"tweeter/internal/render"
	"tweeter/internal/topics"
)

// NewTopicsCmd creates the topics command
func NewTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "topics",
		Short:        "List topic groups with their weight, selection chance and topic count",
		SilenceUsage: true,
		RunE:         topicsRun,
	}
}

func topicsRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rows, err := groupRows(cfg.Paths.TopicDirectory)
	if errors.Is(err, core.ErrNoTopics) {
		fmt.Fprintln(cmd.OutOrStdout(), noTopicsWarning)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), render.Groups(rows))
	return nil
}

func groupRows(dir string) ([]render.GroupRow, error) {
	groups, err := topics.ListGroups(dir)
	if err != nil {
		return nil, err
	}

	rows := make([]render.GroupRow, 0, len(groups))
	for _, g := range groups {
		loaded := g
		if err := topics.LoadTopics(&loaded); err != nil && !errors.Is(err, core.ErrEmptyTopicGroup) {
			return nil, err
		}
		rows = append(rows, render.GroupRow{
			Group:       g,
			Probability: topics.Probability(g, groups),
			Topics:      len(loaded.Topics),
		})
	}
	return rows, nil
}
