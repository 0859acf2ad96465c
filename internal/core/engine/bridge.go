package engine

import (
	"sync"

	"pomodoro/internal/core/clock"
	"pomodoro/internal/core/timer"
)

// Bridge fans state transitions out to observers. Publish is handed the
// previous and next snapshots; the bridge only remembers the latest one so new
// observers can start from it.
type Bridge struct {
	mu      sync.Mutex
	clock   clock.Clock
	events  []chan Event
	current *timer.State
	closed  bool
}

// NewBridge creates a Bridge stamping events with clk.
func NewBridge(clk clock.Clock) *Bridge {
	if clk == nil {
		clk = clock.Real()
	}
	return &Bridge{clock: clk}
}

// Subscribe registers a new observer channel. Sends never block: an observer
// that falls more than buffer events behind misses updates.
func (bridge *Bridge) Subscribe(buffer int) <-chan Event {
	return bridge.subscribe(buffer, false)
}

// SubscribeCurrent is Subscribe with the display of the latest published state
// already queued. Registration and the initial event happen under one lock, so
// no transition falls between them.
func (bridge *Bridge) SubscribeCurrent(buffer int) <-chan Event {
	return bridge.subscribe(buffer, true)
}

// SetCurrent records state as the latest one without notifying observers.
func (bridge *Bridge) SetCurrent(state timer.State) {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	bridge.current = &state
}

func (bridge *Bridge) subscribe(buffer int, withCurrent bool) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	if bridge.closed {
		close(ch)
		return ch
	}
	if withCurrent && bridge.current != nil {
		ch <- Event{
			Type:    EventDisplay,
			Display: DisplayOf(*bridge.current),
			At:      bridge.clock.Now(),
		}
	}
	bridge.events = append(bridge.events, ch)
	return ch
}

// Publish emits a display event when next differs from previous and a phase
// complete event when completed is set.
func (bridge *Bridge) Publish(previous, next timer.State, completed bool) {
	now := bridge.clock.Now()
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	bridge.current = &next
	if changed(previous, next) {
		bridge.emitLocked(Event{
			Type:    EventDisplay,
			Display: DisplayOf(next),
			At:      now,
		})
	}
	if completed {
		bridge.emitLocked(Event{
			Type:      EventPhaseComplete,
			Display:   DisplayOf(next),
			Completed: previous.Phase,
			At:        now,
		})
	}
}

// Close closes every observer channel. Later Subscribe calls get a closed channel.
func (bridge *Bridge) Close() {
	bridge.mu.Lock()
	if bridge.closed {
		bridge.mu.Unlock()
		return
	}
	bridge.closed = true
	events := bridge.events
	bridge.events = nil
	bridge.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (bridge *Bridge) emitLocked(event Event) {
	for _, ch := range bridge.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func changed(previous, next timer.State) bool {
	return previous.Phase != next.Phase ||
		previous.RemainingSeconds != next.RemainingSeconds ||
		previous.Running != next.Running ||
		previous.Generation != next.Generation ||
		previous.WorkMinutes != next.WorkMinutes ||
		previous.BreakMinutes != next.BreakMinutes
}
