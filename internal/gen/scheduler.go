package gen

import (
	"math/rand"
	"sync"
	"time"
)

// Task is a cancellable periodic schedule with randomized inter-arrival
// delays. Each firing re-arms the timer with a fresh delay drawn uniformly
// from [min, max), so the two dashboard streams stay uncorrelated.
type Task struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	fn       func()
	min, max time.Duration
	rng      *rand.Rand
}

// Schedule starts running fn repeatedly, waiting a random delay in [min, max)
// before each run. Stop cancels the pending run; fn is never called after
// Stop returns unless a firing was already in flight.
func Schedule(fn func(), min, max time.Duration) *Task {
	t := &Task{
		fn:  fn,
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	t.arm()
	return t
}

// Stop cancels the schedule. Idempotent.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *Task) arm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.timer = time.AfterFunc(t.delay(), func() {
		t.fn()
		t.arm()
	})
}

// delay draws the next inter-arrival delay. Caller holds t.mu.
func (t *Task) delay() time.Duration {
	span := t.max - t.min
	if span <= 0 {
		return t.min
	}
	return t.min + time.Duration(t.rng.Int63n(int64(span)))
}
