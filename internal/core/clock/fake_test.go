package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeRunsCallbacksInDeadlineOrder(t *testing.T) {
	fake := NewFake(time.Unix(0, 0))
	var fired []string

	fake.AfterFunc(3*time.Second, func() { fired = append(fired, "c") })
	fake.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	fake.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })

	fake.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 1, fake.Pending())

	fake.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, time.Unix(3, 0), fake.Now())
}

func TestFakeStop(t *testing.T) {
	fake := NewFake(time.Unix(0, 0))
	called := false
	timer := fake.AfterFunc(time.Second, func() { called = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	fake.Advance(time.Minute)
	assert.False(t, called)
}

func TestFakeCallbackCanReschedule(t *testing.T) {
	fake := NewFake(time.Unix(0, 0))
	count := 0
	var reschedule func()
	reschedule = func() {
		count++
		fake.AfterFunc(time.Second, reschedule)
	}
	fake.AfterFunc(time.Second, reschedule)

	fake.Advance(5 * time.Second)
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, fake.Pending())
}
