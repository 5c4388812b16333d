package session

import (
	"sync"
	"time"
)

// Task is a single-slot scheduled task: scheduling replaces any pending
// run, it never stacks. Flush cancels the pending timer and runs the
// function immediately on the caller's goroutine.
//
// The generation counter guards against a replaced timer that already
// popped and is waiting on the mutex: its fire carries the old generation
// and no-ops instead of running the rescheduled function early.
type Task struct {
	mu    sync.Mutex
	timer *time.Timer
	fn    func()
	gen   uint64
}

// Schedule arms the task to run fn after delay, replacing any pending run.
func (t *Task) Schedule(fn func(), delay time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.fn = fn
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(delay, func() { t.fire(gen) })
}

// Flush runs the pending function now, if any, and disarms the timer.
func (t *Task) Flush() {
	t.mu.Lock()
	fn := t.takeLocked()
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Cancel disarms the task without running it.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.takeLocked()
}

// Pending reports whether a run is armed.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fn != nil
}

func (t *Task) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	fn := t.takeLocked()
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// takeLocked empties the slot and invalidates any armed timer. Callers
// hold t.mu.
func (t *Task) takeLocked() func() {
	fn := t.fn
	t.fn = nil
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	return fn
}
