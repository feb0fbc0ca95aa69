package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// manualScheduler queues frames until the test flushes them.
type manualScheduler struct {
	mu     sync.Mutex
	frames []*manualFrame
}

type manualFrame struct {
	cb       func()
	canceled bool
}

func (m *manualScheduler) RequestFrame(cb func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fr := &manualFrame{cb: cb}
	m.frames = append(m.frames, fr)
	return func() {
		m.mu.Lock()
		fr.canceled = true
		m.mu.Unlock()
	}
}

// Flush runs every queued frame that was not canceled and reports how many ran.
func (m *manualScheduler) Flush() int {
	m.mu.Lock()
	frames := m.frames
	m.frames = nil
	m.mu.Unlock()

	ran := 0
	for _, fr := range frames {
		m.mu.Lock()
		canceled := fr.canceled
		m.mu.Unlock()
		if canceled {
			continue
		}
		fr.cb()
		ran++
	}
	return ran
}

func TestFrameThrottle_CoalescesToLastCall(t *testing.T) {
	sched := &manualScheduler{}
	var got []int
	th := NewFrameThrottle(sched, func(v int) { got = append(got, v) })

	th.Call(1)
	th.Call(2)
	th.Call(3)
	assert.True(t, th.Pending())
	assert.Empty(t, got, "nothing runs before the frame")

	assert.Equal(t, 1, sched.Flush(), "exactly one frame is requested")
	assert.Equal(t, []int{3}, got)
	assert.False(t, th.Pending())

	th.Call(4)
	sched.Flush()
	assert.Equal(t, []int{3, 4}, got)
	assert.Equal(t, 0, sched.Flush(), "no frame without a call")
}

func TestFrameThrottle_CancelIsTerminal(t *testing.T) {
	sched := &manualScheduler{}
	calls := 0
	th := NewFrameThrottle(sched, func(string) { calls++ })

	th.Call("stale")
	th.Cancel()
	assert.False(t, th.Pending())
	assert.Equal(t, 0, sched.Flush())

	th.Call("after teardown")
	sched.Flush()
	assert.Equal(t, 0, calls)

	assert.NotPanics(t, th.Cancel, "cancel twice is harmless")
}

func TestFrameThrottle_TimerScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)

	done := make(chan int, 4)
	th := NewFrameThrottle(TimerScheduler{Interval: 50 * time.Millisecond}, func(v int) { done <- v })
	for i := 1; i <= 10; i++ {
		th.Call(i)
	}

	select {
	case v := <-done:
		assert.Equal(t, 10, v)
	case <-time.After(time.Second):
		t.Fatal("frame never fired")
	}

	// A cancelled throttle leaves no timer behind.
	th.Call(11)
	th.Cancel()
	assert.Never(t, func() bool { return len(done) > 0 }, 30*time.Millisecond, 5*time.Millisecond)
}

func TestFrameThrottle_Flush(t *testing.T) {
	sched := &manualScheduler{}
	var got []int
	th := NewFrameThrottle(sched, func(v int) { got = append(got, v) })

	th.Flush()
	assert.Empty(t, got, "nothing pending")

	th.Call(7)
	th.Call(8)
	th.Flush()
	assert.Equal(t, []int{8}, got)
	assert.Equal(t, 0, sched.Flush(), "the scheduled frame was cancelled")
}

func TestNewFrameThrottle_DefaultScheduler(t *testing.T) {
	th := NewFrameThrottle[int](nil, func(int) {})
	require.NotNil(t, th.sched)
	assert.Equal(t, TimerScheduler{Interval: DefaultFrameInterval}, th.sched)
}
