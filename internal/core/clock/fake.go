package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Callbacks run synchronously inside Advance,
// in deadline order, and may schedule further callbacks.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	nextID  uint64
	pending []*fakeTimer
}

type fakeTimer struct {
	fake     *Fake
	id       uint64
	deadline time.Time
	fn       func()
}

// NewFake returns a Fake positioned at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake's current time.
func (fake *Fake) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.now
}

// AfterFunc schedules f to run once Advance passes now+d.
func (fake *Fake) AfterFunc(d time.Duration, f func()) Timer {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	if d < 0 {
		d = 0
	}
	fake.nextID++
	timer := &fakeTimer{
		fake:     fake,
		id:       fake.nextID,
		deadline: fake.now.Add(d),
		fn:       f,
	}
	fake.pending = append(fake.pending, timer)
	return timer
}

// Advance moves the clock forward by d, running every callback that falls due.
func (fake *Fake) Advance(d time.Duration) {
	fake.mu.Lock()
	target := fake.now.Add(d)
	for {
		timer := fake.popDueLocked(target)
		if timer == nil {
			break
		}
		fake.now = timer.deadline
		fake.mu.Unlock()
		timer.fn()
		fake.mu.Lock()
	}
	fake.now = target
	fake.mu.Unlock()
}

// Pending returns the number of scheduled callbacks that have not run or been stopped.
func (fake *Fake) Pending() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.pending)
}

func (fake *Fake) popDueLocked(target time.Time) *fakeTimer {
	if len(fake.pending) == 0 {
		return nil
	}
	sort.SliceStable(fake.pending, func(i, j int) bool {
		if fake.pending[i].deadline.Equal(fake.pending[j].deadline) {
			return fake.pending[i].id < fake.pending[j].id
		}
		return fake.pending[i].deadline.Before(fake.pending[j].deadline)
	})
	timer := fake.pending[0]
	if timer.deadline.After(target) {
		return nil
	}
	fake.pending = fake.pending[1:]
	return timer
}

func (timer *fakeTimer) Stop() bool {
	fake := timer.fake
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for index, candidate := range fake.pending {
		if candidate.id == timer.id {
			fake.pending = append(fake.pending[:index], fake.pending[index+1:]...)
			return true
		}
	}
	return false
}
