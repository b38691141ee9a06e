package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"tweeter/internal/core"
	"tweeter/internal/fit"
	"tweeter/internal/llm"
	"tweeter/internal/logger"
	"tweeter/internal/prompt"
	"tweeter/internal/publish"
)

// Reference delay between publishes (at least a minute, up to fifteen) and
// generation temperature.
const (
	DefaultMinDelay    = 60 * time.Second
	DefaultJitter      = 840 * time.Second
	DefaultTemperature = 1.3
)

// TopicSource selects the topic for a run.
type TopicSource interface {
	Select(ctx context.Context) (core.Selection, error)
}

// Observer is told about user-visible milestones of a run.
type Observer interface {
	OnPrompt(prompt string, selection core.Selection)
	OnFitted(post core.FittedPost)
}

// Options configures a Scheduler.
type Options struct {
	Budgets            core.Budgets
	System             string // Persona preamble for the initial generation
	Temperature        float64 // Passed through as is; 0 is a valid temperature
	MinDelay           time.Duration
	Jitter             time.Duration
	StopAfter          StopAfter
	MaxShrinkAttempts  int
	TruncateOnOverflow bool
	Rand               *rand.Rand
	Sleeper            Sleeper
	Observer           Observer
}

// Result collects what a run produced.
type Result struct {
	RunID     string
	NoTopics  bool
	Selection core.Selection
	Prompt    string
	Generated string
	Posts     []core.FittedPost
	Published []string
	Delays    []time.Duration
	Trace     []State
}

// Scheduler drives one run: select topic, generate, fit each platform, then
// publish each platform with a randomized delay in between.
type Scheduler struct {
	topics TopicSource
	gen    llm.Generator
	fitter *fit.Fitter
	sinks  []publish.Sink
	opts   Options
	log    *slog.Logger

	state  State
	index  int
	result *Result
}

// New creates a scheduler. sinks must match opts.Budgets by name and order
// unless the run stops before publishing.
func New(topics TopicSource, gen llm.Generator, sinks []publish.Sink, opts Options) (*Scheduler, error) {
	if topics == nil || gen == nil {
		return nil, errors.New("topic source and generator are required")
	}
	if len(opts.Budgets) == 0 {
		return nil, errors.New("at least one platform budget is required")
	}
	if opts.StopAfter == StopNever {
		if len(sinks) != len(opts.Budgets) {
			return nil, fmt.Errorf("expected %d publish sinks, got %d", len(opts.Budgets), len(sinks))
		}
		for i, b := range opts.Budgets {
			if sinks[i].Name() != b.Name {
				return nil, fmt.Errorf("publish sink %d is %s, expected %s", i, sinks[i].Name(), b.Name)
			}
		}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Sleeper == nil {
		opts.Sleeper = TimerSleeper{}
	}

	runID := uuid.NewString()
	fitter := fit.NewFitter(gen, fit.Options{
		ShrinkTarget: opts.Budgets.Min(),
		MaxAttempts:  opts.MaxShrinkAttempts,
		Truncate:     opts.TruncateOnOverflow,
	})

	return &Scheduler{
		topics: topics,
		gen:    gen,
		fitter: fitter,
		sinks:  sinks,
		opts:   opts,
		log:    logger.With("run_id", runID),
		state:  StateSelectTopic,
		result: &Result{RunID: runID},
	}, nil
}

// State returns the state the next Step will execute.
func (s *Scheduler) State() State { return s.state }

// Result returns what the run has produced so far.
func (s *Scheduler) Result() *Result { return s.result }

// Run steps until the run is done or a step fails.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	for s.state != StateDone {
		if _, err := s.Step(ctx); err != nil {
			return s.result, err
		}
	}
	return s.result, nil
}

// Step executes the current state and returns the next one. On error the
// state is left unchanged.
func (s *Scheduler) Step(ctx context.Context) (State, error) {
	if s.state == StateDone {
		return StateDone, nil
	}
	if err := ctx.Err(); err != nil {
		return s.state, err
	}

	current := s.state
	var next State
	var err error
	switch current {
	case StateSelectTopic:
		next, err = s.selectTopic(ctx)
	case StateGenerate:
		next, err = s.generate(ctx)
	case StateFit:
		next, err = s.fitPlatform(ctx)
	case StatePublish:
		next, err = s.publishPlatform(ctx)
	case StateDelay:
		next, err = s.delay(ctx)
	default:
		return s.state, fmt.Errorf("unknown state %s", current)
	}
	if err != nil {
		return s.state, err
	}

	s.result.Trace = append(s.result.Trace, current)
	s.state = next
	return next, nil
}

func (s *Scheduler) selectTopic(ctx context.Context) (State, error) {
	selection, err := s.topics.Select(ctx)
	if errors.Is(err, core.ErrNoTopics) {
		s.log.Warn("No topic files found")
		s.result.NoTopics = true
		return StateDone, nil
	}
	if err != nil {
		return s.state, fmt.Errorf("failed to select topic: %w", err)
	}

	s.result.Selection = selection
	s.log.Info("Selected topic", "type", selection.TypeName, "topic", selection.Topic.Description, "link", selection.Link)

	if s.opts.StopAfter == StopAfterTopic {
		return StateDone, nil
	}
	return StateGenerate, nil
}

func (s *Scheduler) generate(ctx context.Context) (State, error) {
	sel := s.result.Selection
	s.result.Prompt = prompt.BuildPrompt(sel.TypeName, sel.Topic.Description)
	if s.opts.Observer != nil {
		s.opts.Observer.OnPrompt(s.result.Prompt, sel)
	}

	target := s.opts.Budgets.Min()
	s.log.Info("Generating post", "prompt", s.result.Prompt, "target_length", target, "max_tokens", llm.TokensFor(target))

	text, err := s.gen.Generate(ctx, s.result.Prompt, target, s.opts.Temperature, s.opts.System)
	if err != nil {
		return s.state, err
	}
	s.result.Generated = text
	s.index = 0
	return StateFit, nil
}

func (s *Scheduler) fitPlatform(ctx context.Context) (State, error) {
	budget := s.opts.Budgets[s.index]

	post, err := s.fitter.Fit(ctx, budget.Name, s.result.Generated, s.result.Selection.Link, budget.Limit)
	if err != nil {
		return s.state, fmt.Errorf("failed to fit post for %s: %w", budget.Name, err)
	}
	s.result.Posts = append(s.result.Posts, post)
	s.log.Info("Fitted post",
		"platform", post.Platform,
		"length", post.Length(),
		"budget", budget.Limit,
		"attempts", post.Attempts,
		"truncated", post.Truncated)
	if s.opts.Observer != nil {
		s.opts.Observer.OnFitted(post)
	}

	s.index++
	if s.index < len(s.opts.Budgets) {
		return StateFit, nil
	}
	if s.opts.StopAfter == StopAfterFit {
		return StateDone, nil
	}
	s.index = 0
	return StatePublish, nil
}

func (s *Scheduler) publishPlatform(ctx context.Context) (State, error) {
	sink := s.sinks[s.index]
	post := s.result.Posts[s.index]

	if err := sink.Publish(ctx, post.Text()); err != nil {
		if !errors.Is(err, core.ErrPublish) {
			err = &core.PublishError{Platform: sink.Name(), Err: err}
		}
		if len(s.result.Published) > 0 {
			s.log.Warn("Publish failed after earlier platforms went live", "published", s.result.Published)
		}
		return s.state, err
	}
	s.result.Published = append(s.result.Published, sink.Name())
	s.log.Info("Published post", "platform", sink.Name(), "length", post.Length())

	s.index++
	if s.index < len(s.sinks) {
		return StateDelay, nil
	}
	return StateDone, nil
}

func (s *Scheduler) delay(ctx context.Context) (State, error) {
	d := s.NextDelay()
	s.log.Info("Waiting before next publish", "delay", d.Round(time.Second).String(), "next", s.sinks[s.index].Name())

	if err := s.opts.Sleeper.Sleep(ctx, d); err != nil {
		return s.state, err
	}
	s.result.Delays = append(s.result.Delays, d)
	return StatePublish, nil
}

// NextDelay draws a delay uniformly from [MinDelay, MinDelay+Jitter).
func (s *Scheduler) NextDelay() time.Duration {
	return s.opts.MinDelay + time.Duration(s.opts.Rand.Float64()*float64(s.opts.Jitter))
}
