package engine

import "pomodoro/internal/core/timer"

// Outcome labels how the dispatcher handled an action.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeStale    Outcome = "stale"
)

// Recorder observes dispatcher activity, typically for metrics.
type Recorder interface {
	ActionHandled(action string, outcome Outcome)
	PhaseCompleted(phase timer.Phase)
	StateChanged(state timer.State)
}

type nopRecorder struct{}

func (nopRecorder) ActionHandled(string, Outcome) {}
func (nopRecorder) PhaseCompleted(timer.Phase)    {}
func (nopRecorder) StateChanged(timer.State)      {}
