// internal/schedule/throttle.go
package schedule

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates one display refresh at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameScheduler runs a callback on the next frame. The returned function
// cancels the callback if it has not fired yet. Implementations must not
// invoke cb synchronously from RequestFrame.
type FrameScheduler interface {
	RequestFrame(cb func()) (cancel func())
}

// TimerScheduler emulates animation frames with a fixed interval timer.
type TimerScheduler struct {
	Interval time.Duration
}

// RequestFrame schedules cb after one interval on its own goroutine.
func (s TimerScheduler) RequestFrame(cb func()) func() {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	t := time.AfterFunc(interval, cb)
	return func() { t.Stop() }
}

// FrameThrottle coalesces calls so that fn runs at most once per frame, with
// the arguments of the last call made before the frame fired.
type FrameThrottle[T any] struct {
	sched FrameScheduler
	fn    func(T)

	mu          sync.Mutex
	latest      T
	pending     bool
	cancelFrame func()
	closed      bool
}

// NewFrameThrottle wraps fn. A nil scheduler uses TimerScheduler with the default interval.
func NewFrameThrottle[T any](sched FrameScheduler, fn func(T)) *FrameThrottle[T] {
	if sched == nil {
		sched = TimerScheduler{Interval: DefaultFrameInterval}
	}
	return &FrameThrottle[T]{sched: sched, fn: fn}
}

// Call records v and requests a frame if none is pending.
func (f *FrameThrottle[T]) Call(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.latest = v
	if f.pending {
		return
	}
	f.pending = true
	f.cancelFrame = f.sched.RequestFrame(f.fire)
}

func (f *FrameThrottle[T]) fire() {
	f.mu.Lock()
	if f.closed || !f.pending {
		f.mu.Unlock()
		return
	}
	v := f.latest
	var zero T
	f.latest = zero
	f.pending = false
	f.cancelFrame = nil
	f.mu.Unlock()

	f.fn(v)
}

// Flush runs a pending call immediately instead of waiting for its frame.
func (f *FrameThrottle[T]) Flush() {
	f.mu.Lock()
	if f.closed || !f.pending {
		f.mu.Unlock()
		return
	}
	if f.cancelFrame != nil {
		f.cancelFrame()
		f.cancelFrame = nil
	}
	v := f.latest
	var zero T
	f.latest = zero
	f.pending = false
	f.mu.Unlock()

	f.fn(v)
}

// Pending reports whether a frame is scheduled.
func (f *FrameThrottle[T]) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Cancel drops any pending frame and disables the throttle for good. It does
// not wait for a callback that is already running.
func (f *FrameThrottle[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.pending = false
	if f.cancelFrame != nil {
		f.cancelFrame()
		f.cancelFrame = nil
	}
	var zero T
	f.latest = zero
}
