package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type recorder struct {
	mu   sync.Mutex
	vals []string
}

func (r *recorder) add(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vals = append(r.vals, v)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.vals...)
}

func TestDebounce_TrailingCallWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	call, cancel := Debounce(rec.add, 20*time.Millisecond)
	defer cancel()

	call("a")
	call("b")
	call("c")

	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return len(rec.get()) > 1 }, 60*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, []string{"c"}, rec.get())
}

func TestDebounce_Cancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &recorder{}
	call, cancel := Debounce(rec.add, 20*time.Millisecond)

	call("dropped")
	cancel()
	assert.Never(t, func() bool { return len(rec.get()) > 0 }, 60*time.Millisecond, 10*time.Millisecond)

	call("kept")
	assert.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"kept"}, rec.get())

	assert.NotPanics(t, cancel, "cancel with nothing pending")
}
