package search

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid events into a single trailing-edge callback.
// Each Schedule replaces any pending callback, so only the last call inside
// a quiet period fires.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a new debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Schedule arms the timer to run fn after delay, replacing any pending
// callback. fn runs on its own goroutine.
func (d *Debouncer) Schedule(fn func(), delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, fn)
}

// Cancel stops any pending callback without firing it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
