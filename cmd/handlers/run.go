package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tweeter/internal/config"
	"tweeter/internal/core"
	"tweeter/internal/llm"
	"tweeter/internal/logger"
	"tweeter/internal/publish"
	"tweeter/internal/render"
	"tweeter/internal/scheduler"
	"tweeter/internal/topics"
)

const noTopicsWarning = "Warning: No topic files found."

// NewRunCmd creates the run command, an explicit alias for the root action
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Select a topic, generate a post and publish it to every platform",
		SilenceUsage: true,
		RunE:         runTweet,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("topics-only", false, "Stop after selecting a topic")
	cmd.Flags().Bool("dry-run", false, "Generate and fit posts without publishing")
	cmd.Flags().Uint64("seed", 0, "Seed for topic selection and delays (0 picks a random seed)")
	cmd.Flags().Bool("no-delay", false, "Publish to every platform without waiting in between")
	cmd.Flags().String("report-dir", "", "Write a markdown report of the run to this directory")
}

func runTweet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	topicsOnly, _ := cmd.Flags().GetBool("topics-only")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	seed, _ := cmd.Flags().GetUint64("seed")
	noDelay, _ := cmd.Flags().GetBool("no-delay")
	reportDir, _ := cmd.Flags().GetString("report-dir")

	stop, err := stopLevel(cfg, topicsOnly, dryRun)
	if err != nil {
		return err
	}

	// Credentials are only needed once there is something to post.
	if _, err := topics.ListGroups(cfg.Paths.TopicDirectory); err != nil {
		if errors.Is(err, core.ErrNoTopics) {
			fmt.Fprintln(cmd.OutOrStdout(), noTopicsWarning)
			return nil
		}
		return fmt.Errorf("failed to list topics: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := buildScheduler(ctx, cfg, stop, seed, noDelay)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := s.Run(ctx)
	if err != nil {
		if result != nil && len(result.Published) > 0 {
			fmt.Fprintf(os.Stderr, "Published to %s before the failure.\n", strings.Join(result.Published, ", "))
		}
		return err
	}

	if result.NoTopics {
		fmt.Fprintln(cmd.OutOrStdout(), noTopicsWarning)
		return nil
	}
	if stop == scheduler.StopAfterTopic {
		fmt.Printf("Selected %s topic: %s\n", result.Selection.TypeName, result.Selection.Topic.Description)
		return nil
	}

	if reportDir != "" {
		md := render.RenderMarkdownReport(result.RunID, result.Prompt, result.Generated, result.Posts, cfg.Budgets(), start)
		path, err := render.WriteReportToFile(md, reportDir, render.ReportFilename(result.RunID, start))
		if err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", path)
	}

	logger.Info("Run complete",
		"run_id", result.RunID,
		"published", result.Published,
		"duration", time.Since(start).Round(time.Second).String())
	return nil
}

// stopLevel combines the command line flags with app.debug; the earliest stop wins.
func stopLevel(cfg *config.Config, topicsOnly, dryRun bool) (scheduler.StopAfter, error) {
	stop, err := scheduler.ParseStopAfter(cfg.App.StopLevel())
	if err != nil {
		return scheduler.StopNever, err
	}
	switch {
	case topicsOnly || stop == scheduler.StopAfterTopic:
		return scheduler.StopAfterTopic, nil
	case dryRun || stop == scheduler.StopAfterFit:
		return scheduler.StopAfterFit, nil
	default:
		return scheduler.StopNever, nil
	}
}

func buildScheduler(ctx context.Context, cfg *config.Config, stop scheduler.StopAfter, seed uint64, noDelay bool) (*scheduler.Scheduler, error) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	logger.Debug("Random source seeded", "seed", seed)

	catalog := topics.NewCatalog(cfg.Paths.TopicDirectory, rng)

	persona, err := os.ReadFile(cfg.Paths.SystemFile)
	if err != nil && stop != scheduler.StopAfterTopic {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	var gen llm.Generator = unavailableGenerator{}
	if stop != scheduler.StopAfterTopic {
		if err := cfg.RequireAI(); err != nil {
			return nil, err
		}
		gen, err = llm.New(ctx, cfg.AI)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AI client: %w", err)
		}
	}

	var sinks []publish.Sink
	if stop == scheduler.StopNever {
		sinks, err = publish.NewAll(cfg, nil)
		if err != nil {
			return nil, err
		}
	}

	var sleeper scheduler.Sleeper = scheduler.TimerSleeper{}
	if noDelay {
		sleeper = scheduler.NoSleep
	}

	return scheduler.New(catalog, gen, sinks, scheduler.Options{
		Budgets:            cfg.Budgets(),
		System:             string(persona),
		Temperature:        cfg.Generation.Temperature,
		MinDelay:           cfg.Schedule.MinDelayDuration(),
		Jitter:             cfg.Schedule.JitterDuration(),
		StopAfter:          stop,
		MaxShrinkAttempts:  cfg.Generation.MaxShrinkAttempts,
		TruncateOnOverflow: cfg.Generation.TruncateOnOverflow,
		Rand:               rng,
		Sleeper:            sleeper,
		Observer:           render.NewPrinter(os.Stdout, cfg.Budgets()),
	})
}

// unavailableGenerator stands in when a run stops before generation.
type unavailableGenerator struct{}

var errNoGenerator = errors.New("generation is disabled for this run")

func (unavailableGenerator) Generate(ctx context.Context, prompt string, targetLength int, temperature float64, system string) (string, error) {
	return "", errNoGenerator
}

func (unavailableGenerator) Shorten(ctx context.Context, text string, targetLength int) (string, error) {
	return "", errNoGenerator
}
