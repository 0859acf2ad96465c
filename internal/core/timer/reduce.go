package timer

import (
	"fmt"

	"pomodoro/internal/core/model"
)

// Effect is a side effect the owner of the state must perform after a reduction.
type Effect int

const (
	// EffectArm arms a 1s tick and a completion timeout of RemainingSeconds under State.Generation.
	EffectArm Effect = iota + 1
	// EffectDisarm cancels every handle armed under an earlier generation.
	EffectDisarm
	// EffectPhaseComplete notifies collaborators that a run finished.
	EffectPhaseComplete
)

func (effect Effect) String() string {
	switch effect {
	case EffectArm:
		return "arm"
	case EffectDisarm:
		return "disarm"
	case EffectPhaseComplete:
		return "phase_complete"
	default:
		return fmt.Sprintf("Effect(%d)", int(effect))
	}
}

// Result is the next state plus the effects it requires, in execution order.
type Result struct {
	State   State
	Effects []Effect
}

// Has reports whether effect is part of the result.
func (result Result) Has(effect Effect) bool {
	for _, candidate := range result.Effects {
		if candidate == effect {
			return true
		}
	}
	return false
}

// Reduce applies action to state. It performs no I/O and never mutates state.
// On error the returned Result carries the unchanged input state.
func Reduce(state State, action Action) (Result, error) {
	switch action := action.(type) {
	case SelectPhase:
		return selectPhase(state, action.Phase)
	case SetWorkDuration:
		return setDuration(state, PhaseWork, action.Minutes)
	case SetBreakDuration:
		return setDuration(state, PhaseBreak, action.Minutes)
	case SaveSettings:
		return saveSettings(state, model.TimerConfig{WorkMinutes: action.WorkMinutes, BreakMinutes: action.BreakMinutes})
	case Start:
		return start(state)
	case Pause:
		return pause(state)
	case Cancel:
		return cancel(state), nil
	case Tick:
		return tick(state, action.Generation)
	case Complete:
		return complete(state, action.Generation)
	default:
		return Result{State: state}, fmt.Errorf("%w: unknown action %T", ErrIllegalTransition, action)
	}
}

func rejectWhileRunning(state State, action string) error {
	if state.Running {
		return fmt.Errorf("%w: %s while running", ErrIllegalTransition, action)
	}
	return nil
}

func selectPhase(state State, phase Phase) (Result, error) {
	if !phase.Valid() {
		return Result{State: state}, fmt.Errorf("%w: unknown phase %d", ErrInvalidInput, int(phase))
	}
	if err := rejectWhileRunning(state, "select phase"); err != nil {
		return Result{State: state}, err
	}
	next := state
	next.Phase = phase
	next.RemainingSeconds = next.FullSeconds()
	return Result{State: next.withLog("Switched to " + phase.String())}, nil
}

func setDuration(state State, phase Phase, minutes uint32) (Result, error) {
	if err := model.CheckMinutes(uint64(minutes)); err != nil {
		return Result{State: state}, fmt.Errorf("%w: %s: %w", ErrInvalidInput, phase, err)
	}
	if err := rejectWhileRunning(state, "set "+phase.String()+" duration"); err != nil {
		return Result{State: state}, err
	}
	next := state
	if phase == PhaseWork {
		next.WorkMinutes = minutes
	} else {
		next.BreakMinutes = minutes
	}
	if next.Phase == phase {
		next.RemainingSeconds = next.FullSeconds()
	}
	return Result{State: next.withLog(fmt.Sprintf("%s set to %d min", phase, minutes))}, nil
}

func saveSettings(state State, config model.TimerConfig) (Result, error) {
	if err := config.Validate(); err != nil {
		return Result{State: state}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := rejectWhileRunning(state, "save settings"); err != nil {
		return Result{State: state}, err
	}
	next := state
	next.WorkMinutes = config.WorkMinutes
	next.BreakMinutes = config.BreakMinutes
	next.RemainingSeconds = next.FullSeconds()
	return Result{State: next.withLog("Settings saved")}, nil
}

func start(state State) (Result, error) {
	if err := rejectWhileRunning(state, "start"); err != nil {
		return Result{State: state}, err
	}
	if state.RemainingSeconds == 0 {
		// Nothing to count down: complete in place without arming.
		return Result{
			State:   flipPhase(state).withLog("Done!"),
			Effects: []Effect{EffectPhaseComplete},
		}, nil
	}
	next := state
	next.Running = true
	next.Generation++
	return Result{State: next.withLog("Timer started"), Effects: []Effect{EffectArm}}, nil
}

func pause(state State) (Result, error) {
	if !state.Running {
		return Result{State: state}, fmt.Errorf("%w: pause while stopped", ErrIllegalTransition)
	}
	next := state
	next.Running = false
	next.Generation++
	return Result{State: next.withLog("Paused"), Effects: []Effect{EffectDisarm}}, nil
}

func cancel(state State) Result {
	if !state.Running && state.RemainingSeconds == state.FullSeconds() {
		return Result{State: state}
	}
	next := state
	var effects []Effect
	if next.Running {
		next.Running = false
		next.Generation++
		effects = append(effects, EffectDisarm)
	}
	next.RemainingSeconds = next.FullSeconds()
	return Result{State: next.withLog("Canceled"), Effects: effects}
}

func checkCallback(state State, generation uint64, action string) error {
	if !state.Running {
		return fmt.Errorf("%w: %s generation %d while stopped", ErrStaleCallback, action, generation)
	}
	if generation != state.Generation {
		return fmt.Errorf("%w: %s generation %d, current %d", ErrStaleCallback, action, generation, state.Generation)
	}
	return nil
}

func tick(state State, generation uint64) (Result, error) {
	if err := checkCallback(state, generation, "tick"); err != nil {
		return Result{State: state}, err
	}
	next := state
	if next.RemainingSeconds > 0 {
		next.RemainingSeconds--
	}
	return Result{State: next}, nil
}

func complete(state State, generation uint64) (Result, error) {
	if err := checkCallback(state, generation, "complete"); err != nil {
		return Result{State: state}, err
	}
	next := state
	next.Running = false
	next.Generation++
	return Result{
		State:   flipPhase(next).withLog("Done!"),
		Effects: []Effect{EffectDisarm, EffectPhaseComplete},
	}, nil
}

func flipPhase(state State) State {
	state.Phase = state.Phase.Next()
	state.RemainingSeconds = state.FullSeconds()
	return state
}
