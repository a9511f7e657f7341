package filter

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiescence window before a rebuild fires.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces bursts of Trigger calls into one call of fire, made
// window after the last Trigger. fire runs on its own goroutine.
type Debouncer struct {
	window time.Duration
	fire   func()

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer. A window <= 0 uses DefaultDebounce.
func NewDebouncer(window time.Duration, fire func()) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window, fire: fire}
}

// Trigger cancels any pending call and schedules a new one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// A newer Trigger or Cancel bumped gen after this timer fired.
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fire()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
