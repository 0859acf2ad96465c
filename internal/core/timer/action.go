package timer

// Action is a command or callback reduced against a State.
type Action interface {
	Name() string
}

// SelectPhase switches to Phase and resets the countdown. Rejected while running.
type SelectPhase struct {
	Phase Phase
}

// SetWorkDuration changes the configured work duration.
type SetWorkDuration struct {
	Minutes uint32
}

// SetBreakDuration changes the configured break duration.
type SetBreakDuration struct {
	Minutes uint32
}

// SaveSettings applies both durations in a single transition.
type SaveSettings struct {
	WorkMinutes  uint32
	BreakMinutes uint32
}

// Start arms the countdown from the current RemainingSeconds.
type Start struct{}

// Pause disarms the countdown and keeps RemainingSeconds.
type Pause struct{}

// Cancel disarms the countdown and resets to the full phase duration.
type Cancel struct{}

// Tick is delivered once per second by the tick handle armed under Generation.
type Tick struct {
	Generation uint64
}

// Complete is delivered once by the completion handle armed under Generation.
type Complete struct {
	Generation uint64
}

func (SelectPhase) Name() string      { return "select_phase" }
func (SetWorkDuration) Name() string  { return "set_work_duration" }
func (SetBreakDuration) Name() string { return "set_break_duration" }
func (SaveSettings) Name() string     { return "save_settings" }
func (Start) Name() string            { return "start" }
func (Pause) Name() string            { return "pause" }
func (Cancel) Name() string           { return "cancel" }
func (Tick) Name() string             { return "tick" }
func (Complete) Name() string         { return "complete" }
