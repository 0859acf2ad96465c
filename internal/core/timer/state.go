package timer

import "pomodoro/internal/core/model"

// MaxLogEntries bounds State.Log; older messages are dropped first.
const MaxLogEntries = 128

// State is an immutable snapshot of the timer. Reduce returns a new value
// for every accepted action; callers never edit a published State.
type State struct {
	Phase        Phase
	WorkMinutes  uint32
	BreakMinutes uint32
	// RemainingSeconds is always <= DurationMinutes(Phase) * 60.
	RemainingSeconds uint32
	// Running is true iff a tick and a completion handle are armed under Generation.
	Running    bool
	Generation uint64
	Log        []string
}

// NewState returns the startup state for config: Work phase, full work duration, stopped.
func NewState(config model.TimerConfig) State {
	state := State{
		Phase:        PhaseWork,
		WorkMinutes:  config.WorkMinutes,
		BreakMinutes: config.BreakMinutes,
	}
	state.RemainingSeconds = state.FullSeconds()
	return state
}

// DurationMinutes returns the configured duration for phase.
func (state State) DurationMinutes(phase Phase) uint32 {
	if phase == PhaseBreak {
		return state.BreakMinutes
	}
	return state.WorkMinutes
}

// FullSeconds is the length of a complete run in the current phase.
func (state State) FullSeconds() uint32 {
	return state.DurationMinutes(state.Phase) * 60
}

// Config returns the configured durations.
func (state State) Config() model.TimerConfig {
	return model.TimerConfig{WorkMinutes: state.WorkMinutes, BreakMinutes: state.BreakMinutes}
}

func (state State) withLog(message string) State {
	start := 0
	if len(state.Log) >= MaxLogEntries {
		start = len(state.Log) - MaxLogEntries + 1
	}
	log := make([]string, 0, len(state.Log)-start+1)
	log = append(log, state.Log[start:]...)
	state.Log = append(log, message)
	return state
}
