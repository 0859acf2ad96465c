package engine

import (
	"fmt"
	"time"

	"pomodoro/internal/core/timer"
)

// IdleTitle is the window title while no countdown is running.
const IdleTitle = "Pomodoro Timer"

// EventType defines the type of Bridge event.
type EventType string

const (
	EventDisplay       EventType = "display"
	EventPhaseComplete EventType = "phase_complete"
)

// Display is what collaborators need to redraw the countdown.
type Display struct {
	Phase     timer.Phase
	Countdown string
	Running   bool
}

// Title returns "<Phase> : mm:ss" while running and IdleTitle otherwise.
func (display Display) Title() string {
	if !display.Running {
		return IdleTitle
	}
	return fmt.Sprintf("%s : %s", display.Phase, display.Countdown)
}

// Event represents an engine update for observers.
type Event struct {
	Type    EventType
	Display Display
	// Completed is the phase that just finished; set for EventPhaseComplete.
	Completed timer.Phase
	At        time.Time
}

// DisplayOf renders state for collaborators.
func DisplayOf(state timer.State) Display {
	return Display{
		Phase:     state.Phase,
		Countdown: FormatRemaining(state.RemainingSeconds),
		Running:   state.Running,
	}
}

// FormatRemaining renders seconds as zero-padded mm:ss. Minutes are not wrapped at 60.
func FormatRemaining(seconds uint32) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
