package scheduler

import "fmt"

// State is a step of a publishing run.
type State int

const (
	StateSelectTopic State = iota
	StateGenerate
	StateFit
	StatePublish
	StateDelay
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSelectTopic:
		return "select-topic"
	case StateGenerate:
		return "generate"
	case StateFit:
		return "fit"
	case StatePublish:
		return "publish"
	case StateDelay:
		return "delay"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StopAfter ends a run early for inspection.
type StopAfter int

const (
	// StopNever runs through publishing.
	StopNever StopAfter = iota
	// StopAfterTopic ends the run once a topic is selected.
	StopAfterTopic
	// StopAfterFit ends the run once every platform is fitted, before any publish.
	StopAfterFit
)

// ParseStopAfter maps "", "topics-only" and "no-publish" onto StopAfter values.
func ParseStopAfter(level string) (StopAfter, error) {
	switch level {
	case "", "full":
		return StopNever, nil
	case "topics-only", "topics":
		return StopAfterTopic, nil
	case "no-publish", "dry-run":
		return StopAfterFit, nil
	default:
		return StopNever, fmt.Errorf("unknown stop level %q (expected topics-only or no-publish)", level)
	}
}
