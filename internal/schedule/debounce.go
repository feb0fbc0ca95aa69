// internal/schedule/debounce.go
package schedule

import (
	"sync"
	"time"
)

// Debounce delays fn until delay has passed without another call. Each call
// restarts the timer and replaces the pending argument. cancel drops the
// pending invocation; later calls schedule normally again.
func Debounce[T any](fn func(T), delay time.Duration) (call func(T), cancel func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
		gen   uint64
	)

	call = func(v T) {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		gen++
		mine := gen
		timer = time.AfterFunc(delay, func() {
			mu.Lock()
			// A timer that already fired can lose the Stop race; the generation check drops it.
			stale := mine != gen
			if !stale {
				timer = nil
			}
			mu.Unlock()
			if !stale {
				fn(v)
			}
		})
	}

	cancel = func() {
		mu.Lock()
		defer mu.Unlock()

		gen++
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	return call, cancel
}
