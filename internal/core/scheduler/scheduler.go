package scheduler

import (
	"fmt"
	"sync"
	"time"

	"pomodoro/internal/core/clock"
)

// Kind distinguishes repeating ticks from one-shot timeouts.
type Kind int

const (
	KindTick Kind = iota + 1
	KindTimeout
)

func (kind Kind) String() string {
	switch kind {
	case KindTick:
		return "tick"
	case KindTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("Kind(%d)", int(kind))
	}
}

// Handle identifies an armed tick or timeout. A slot index is reused after
// release, so each handle also carries the slot sequence it was issued under;
// the zero Handle never refers to an armed entry.
type Handle struct {
	index int
	seq   uint64
}

// IsZero reports whether handle was never issued.
func (handle Handle) IsZero() bool {
	return handle.seq == 0
}

// Firing is delivered every time an armed handle fires.
type Firing struct {
	Handle     Handle
	Kind       Kind
	Generation uint64
}

// DeliverFunc receives firings. It is called with the scheduler lock held, so
// it must not block and must not call back into the Scheduler.
type DeliverFunc func(Firing)

type slot struct {
	seq        uint64
	active     bool
	kind       Kind
	generation uint64
	period     time.Duration
	// deadline is when the pending callback is due; ticks advance it by period.
	deadline time.Time
	timer    clock.Timer
}

// Scheduler is a generation-tagged source of repeating and one-shot timers.
// A handle canceled before it fires never delivers.
type Scheduler struct {
	mu      sync.Mutex
	clock   clock.Clock
	deliver DeliverFunc
	slots   []slot
	free    []int
}

// New creates a Scheduler that reads time from clk and hands firings to deliver.
func New(clk clock.Clock, deliver DeliverFunc) *Scheduler {
	if clk == nil {
		clk = clock.Real()
	}
	return &Scheduler{
		clock:   clk,
		deliver: deliver,
	}
}

// ArmTick fires every period until canceled. Non-positive periods default to one second.
func (scheduler *Scheduler) ArmTick(period time.Duration, generation uint64) Handle {
	if period <= 0 {
		period = time.Second
	}
	return scheduler.arm(KindTick, period, generation)
}

// ArmTimeout fires once after delay.
func (scheduler *Scheduler) ArmTimeout(delay time.Duration, generation uint64) Handle {
	if delay < 0 {
		delay = 0
	}
	return scheduler.arm(KindTimeout, delay, generation)
}

// Cancel disarms handle. It returns false if the handle already fired (timeout),
// was canceled, or was never issued.
func (scheduler *Scheduler) Cancel(handle Handle) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if !scheduler.validLocked(handle) {
		return false
	}
	scheduler.slots[handle.index].timer.Stop()
	scheduler.releaseLocked(handle.index)
	return true
}

// Armed reports whether handle is still pending.
func (scheduler *Scheduler) Armed(handle Handle) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.validLocked(handle)
}

// Generation returns the generation handle was armed under.
func (scheduler *Scheduler) Generation(handle Handle) (uint64, bool) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if !scheduler.validLocked(handle) {
		return 0, false
	}
	return scheduler.slots[handle.index].generation, true
}

// ArmedCount returns the number of pending handles.
func (scheduler *Scheduler) ArmedCount() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return len(scheduler.slots) - len(scheduler.free)
}

func (scheduler *Scheduler) arm(kind Kind, after time.Duration, generation uint64) Handle {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	var index int
	if n := len(scheduler.free); n > 0 {
		index = scheduler.free[n-1]
		scheduler.free = scheduler.free[:n-1]
	} else {
		index = len(scheduler.slots)
		scheduler.slots = append(scheduler.slots, slot{seq: 1})
	}

	entry := &scheduler.slots[index]
	entry.active = true
	entry.kind = kind
	entry.generation = generation
	entry.period = after
	entry.deadline = scheduler.clock.Now().Add(after)
	seq := entry.seq
	entry.timer = scheduler.clock.AfterFunc(after, func() {
		scheduler.fire(index, seq)
	})
	return Handle{index: index, seq: seq}
}

func (scheduler *Scheduler) fire(index int, seq uint64) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	handle := Handle{index: index, seq: seq}
	if !scheduler.validLocked(handle) {
		return
	}
	entry := &scheduler.slots[index]
	firing := Firing{Handle: handle, Kind: entry.kind, Generation: entry.generation}
	if entry.kind == KindTick {
		// Re-arm against the schedule, not the callback time, so late callbacks
		// do not push later ticks back.
		entry.deadline = entry.deadline.Add(entry.period)
		delay := entry.deadline.Sub(scheduler.clock.Now())
		if delay < 0 {
			delay = 0
		}
		entry.timer = scheduler.clock.AfterFunc(delay, func() {
			scheduler.fire(index, seq)
		})
	} else {
		scheduler.releaseLocked(index)
	}
	if scheduler.deliver != nil {
		scheduler.deliver(firing)
	}
}

func (scheduler *Scheduler) validLocked(handle Handle) bool {
	if handle.IsZero() || handle.index < 0 || handle.index >= len(scheduler.slots) {
		return false
	}
	entry := scheduler.slots[handle.index]
	return entry.active && entry.seq == handle.seq
}

func (scheduler *Scheduler) releaseLocked(index int) {
	entry := &scheduler.slots[index]
	entry.active = false
	entry.timer = nil
	entry.seq++
	scheduler.free = append(scheduler.free, index)
}
