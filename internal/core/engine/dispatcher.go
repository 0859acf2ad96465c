package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/scheduler"
	"pomodoro/internal/core/timer"
)

// Dispatcher owns the current timer.State and the scheduler handles armed for
// it. It is the only place actions enter the state machine. A Dispatcher is not
// safe for concurrent use; Engine serializes access to it.
type Dispatcher struct {
	logger       *slog.Logger
	scheduler    *scheduler.Scheduler
	bridge       *Bridge
	recorder     Recorder
	tickInterval time.Duration

	state   timer.State
	tick    scheduler.Handle
	timeout scheduler.Handle
}

// DispatcherConfig contains the collaborators of a Dispatcher.
type DispatcherConfig struct {
	Scheduler *scheduler.Scheduler
	Bridge    *Bridge
	Logger    *slog.Logger
	Recorder  Recorder
	// TickInterval is the length of one countdown second. Defaults to time.Second.
	TickInterval time.Duration
}

// NewDispatcher creates a Dispatcher in the startup state for config.
func NewDispatcher(config model.TimerConfig, deps DispatcherConfig) (*Dispatcher, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", timer.ErrInvalidInput, err)
	}
	if deps.Scheduler == nil {
		return nil, errors.New("dispatcher: scheduler is required")
	}
	if deps.Bridge == nil {
		deps.Bridge = NewBridge(nil)
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.TickInterval <= 0 {
		deps.TickInterval = time.Second
	}

	dispatcher := &Dispatcher{
		logger:       deps.Logger,
		scheduler:    deps.Scheduler,
		bridge:       deps.Bridge,
		recorder:     deps.Recorder,
		tickInterval: deps.TickInterval,
		state:        timer.NewState(config),
	}
	dispatcher.recorder.StateChanged(dispatcher.state)
	dispatcher.bridge.SetCurrent(dispatcher.state)
	return dispatcher, nil
}

// State returns the current snapshot.
func (dispatcher *Dispatcher) State() timer.State {
	return dispatcher.state
}

// Armed reports whether both the tick and the completion handle are pending.
func (dispatcher *Dispatcher) Armed() bool {
	return dispatcher.scheduler.Armed(dispatcher.tick) && dispatcher.scheduler.Armed(dispatcher.timeout)
}

// Dispatch validates action against the current state and applies it.
// Rejected commands leave the state unchanged and return ErrInvalidInput or
// ErrIllegalTransition. Stale callbacks are dropped and return a nil error.
func (dispatcher *Dispatcher) Dispatch(action timer.Action) (timer.State, error) {
	previous := dispatcher.state
	result, err := timer.Reduce(previous, action)
	if err != nil {
		if errors.Is(err, timer.ErrStaleCallback) {
			dispatcher.logger.Debug("dropped stale callback", "action", action.Name(), "reason", err)
			dispatcher.recorder.ActionHandled(action.Name(), OutcomeStale)
			return previous, nil
		}
		dispatcher.logger.Info("rejected command", "action", action.Name(), "error", err)
		dispatcher.recorder.ActionHandled(action.Name(), OutcomeRejected)
		return previous, err
	}

	dispatcher.state = result.State
	for _, effect := range result.Effects {
		dispatcher.apply(effect)
	}

	dispatcher.recorder.ActionHandled(action.Name(), OutcomeAccepted)
	dispatcher.recorder.StateChanged(dispatcher.state)
	completed := result.Has(timer.EffectPhaseComplete)
	if completed {
		dispatcher.logger.Info("phase complete",
			"completed", previous.Phase.String(),
			"next", dispatcher.state.Phase.String(),
		)
		dispatcher.recorder.PhaseCompleted(previous.Phase)
	}
	dispatcher.bridge.Publish(previous, dispatcher.state, completed)
	return dispatcher.state, nil
}

// Deliver converts a scheduler firing into its action and dispatches it.
func (dispatcher *Dispatcher) Deliver(firing scheduler.Firing) {
	var action timer.Action
	switch firing.Kind {
	case scheduler.KindTick:
		action = timer.Tick{Generation: firing.Generation}
	case scheduler.KindTimeout:
		action = timer.Complete{Generation: firing.Generation}
	default:
		dispatcher.logger.Warn("unknown firing kind", "kind", firing.Kind.String())
		return
	}
	// Callbacks are never rejected, only dropped as stale.
	_, _ = dispatcher.Dispatch(action)
}

// Shutdown disarms any pending handles.
func (dispatcher *Dispatcher) Shutdown() {
	dispatcher.disarm()
}

func (dispatcher *Dispatcher) apply(effect timer.Effect) {
	switch effect {
	case timer.EffectArm:
		dispatcher.disarm()
		generation := dispatcher.state.Generation
		delay := time.Duration(dispatcher.state.RemainingSeconds) * dispatcher.tickInterval
		dispatcher.tick = dispatcher.scheduler.ArmTick(dispatcher.tickInterval, generation)
		dispatcher.timeout = dispatcher.scheduler.ArmTimeout(delay, generation)
		dispatcher.logger.Debug("armed countdown",
			"generation", generation,
			"remaining", dispatcher.state.RemainingSeconds,
		)
	case timer.EffectDisarm:
		dispatcher.disarm()
	case timer.EffectPhaseComplete:
		// Published through the bridge once the state is committed.
	}
}

func (dispatcher *Dispatcher) disarm() {
	dispatcher.scheduler.Cancel(dispatcher.tick)
	dispatcher.scheduler.Cancel(dispatcher.timeout)
	dispatcher.tick = scheduler.Handle{}
	dispatcher.timeout = scheduler.Handle{}
}
