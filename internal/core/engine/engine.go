package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"pomodoro/internal/core/clock"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/scheduler"
	"pomodoro/internal/core/timer"
)

// ErrStopped is returned by commands issued after Run has returned.
var ErrStopped = errors.New("engine stopped")

// Config contains runtime options for Engine.
type Config struct {
	Clock        clock.Clock
	Logger       *slog.Logger
	Recorder     Recorder
	TickInterval time.Duration
}

// Engine runs a Dispatcher on a single event-loop goroutine. Inbound commands
// and scheduler callbacks are serialized through the loop, so the reducer never
// runs concurrently with itself.
type Engine struct {
	logger     *slog.Logger
	bridge     *Bridge
	dispatcher *Dispatcher
	commands   chan command
	inbox      *mailbox
	snapshot   atomic.Pointer[timer.State]
	running    atomic.Bool
	done       chan struct{}
}

type command struct {
	action timer.Action
	reply  chan reply
}

type reply struct {
	state timer.State
	err   error
}

// New creates an Engine in the startup state for config. Call Run to start the loop.
func New(config model.TimerConfig, options Config) (*Engine, error) {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	engine := &Engine{
		logger:   options.Logger,
		bridge:   NewBridge(options.Clock),
		commands: make(chan command),
		inbox:    newMailbox(),
		done:     make(chan struct{}),
	}
	dispatcher, err := NewDispatcher(config, DispatcherConfig{
		Scheduler:    scheduler.New(options.Clock, engine.inbox.push),
		Bridge:       engine.bridge,
		Logger:       options.Logger,
		Recorder:     options.Recorder,
		TickInterval: options.TickInterval,
	})
	if err != nil {
		return nil, err
	}
	engine.dispatcher = dispatcher
	engine.publish()
	return engine, nil
}

// Subscribe registers an observer and immediately queues the current display.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	return engine.bridge.SubscribeCurrent(buffer)
}

// Snapshot returns the latest published state.
func (engine *Engine) Snapshot() timer.State {
	return *engine.snapshot.Load()
}

// Run processes commands and callbacks until ctx is canceled. It disarms all
// handles and closes observer channels before returning.
func (engine *Engine) Run(ctx context.Context) error {
	if !engine.running.CompareAndSwap(false, true) {
		return errors.New("engine already running")
	}
	defer func() {
		engine.dispatcher.Shutdown()
		engine.publish()
		close(engine.done)
		engine.bridge.Close()
	}()

	engine.logger.Info("engine started", "phase", engine.Snapshot().Phase.String())
	for {
		select {
		case <-ctx.Done():
			engine.logger.Info("engine stopped")
			return ctx.Err()
		case cmd := <-engine.commands:
			state, err := engine.dispatcher.Dispatch(cmd.action)
			engine.publish()
			cmd.reply <- reply{state: state, err: err}
		case <-engine.inbox.notify:
			for _, firing := range engine.inbox.drain() {
				engine.dispatcher.Deliver(firing)
			}
			engine.publish()
		}
	}
}

// Start begins or resumes the countdown.
func (engine *Engine) Start(ctx context.Context) error {
	return engine.do(ctx, timer.Start{})
}

// Pause stops the countdown and keeps the remaining time.
func (engine *Engine) Pause(ctx context.Context) error {
	return engine.do(ctx, timer.Pause{})
}

// Cancel stops the countdown and resets it to the full phase duration.
func (engine *Engine) Cancel(ctx context.Context) error {
	return engine.do(ctx, timer.Cancel{})
}

// SelectPhase switches phase while stopped.
func (engine *Engine) SelectPhase(ctx context.Context, phase timer.Phase) error {
	return engine.do(ctx, timer.SelectPhase{Phase: phase})
}

// SetWorkDuration changes the work duration while stopped.
func (engine *Engine) SetWorkDuration(ctx context.Context, minutes uint32) error {
	return engine.do(ctx, timer.SetWorkDuration{Minutes: minutes})
}

// SetBreakDuration changes the break duration while stopped.
func (engine *Engine) SetBreakDuration(ctx context.Context, minutes uint32) error {
	return engine.do(ctx, timer.SetBreakDuration{Minutes: minutes})
}

// SaveSettings applies both durations atomically while stopped.
func (engine *Engine) SaveSettings(ctx context.Context, config model.TimerConfig) error {
	return engine.do(ctx, timer.SaveSettings{WorkMinutes: config.WorkMinutes, BreakMinutes: config.BreakMinutes})
}

// Dispatch sends action through the loop and returns the resulting state.
func (engine *Engine) Dispatch(ctx context.Context, action timer.Action) (timer.State, error) {
	cmd := command{action: action, reply: make(chan reply, 1)}
	select {
	case engine.commands <- cmd:
	case <-engine.done:
		return engine.Snapshot(), ErrStopped
	case <-ctx.Done():
		return engine.Snapshot(), ctx.Err()
	}

	select {
	case result := <-cmd.reply:
		return result.state, result.err
	case <-ctx.Done():
		return engine.Snapshot(), ctx.Err()
	}
}

func (engine *Engine) do(ctx context.Context, action timer.Action) error {
	_, err := engine.Dispatch(ctx, action)
	return err
}

func (engine *Engine) publish() {
	state := engine.dispatcher.State()
	engine.snapshot.Store(&state)
}

// mailbox queues scheduler firings without blocking the scheduler.
type mailbox struct {
	mu     sync.Mutex
	items  []scheduler.Firing
	notify chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{notify: make(chan struct{}, 1)}
}

func (box *mailbox) push(firing scheduler.Firing) {
	box.mu.Lock()
	box.items = append(box.items, firing)
	box.mu.Unlock()

	select {
	case box.notify <- struct{}{}:
	default:
	}
}

func (box *mailbox) drain() []scheduler.Firing {
	box.mu.Lock()
	defer box.mu.Unlock()
	items := box.items
	box.items = nil
	return items
}
