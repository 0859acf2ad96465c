package timer

import "fmt"

// Phase selects which configured duration governs the countdown.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseBreak
)

func (phase Phase) String() string {
	switch phase {
	case PhaseWork:
		return "Work"
	case PhaseBreak:
		return "Break"
	default:
		return fmt.Sprintf("Phase(%d)", int(phase))
	}
}

// Next returns the phase that follows a completed run.
func (phase Phase) Next() Phase {
	if phase == PhaseWork {
		return PhaseBreak
	}
	return PhaseWork
}

// Valid reports whether phase is Work or Break.
func (phase Phase) Valid() bool {
	return phase == PhaseWork || phase == PhaseBreak
}
