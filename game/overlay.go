package game

import (
	"sync"
	"time"
)

const DefaultBannerDelay = 3 * time.Second

// Overlay schedules the dismissal of a result banner. A newer Schedule or a
// Cancel supersedes any pending dismissal, including one whose timer already
// fired but has not yet run its callback.
type Overlay struct {
	mu         sync.Mutex
	delay      time.Duration
	timer      *time.Timer
	generation int
}

func NewOverlay(delay time.Duration) *Overlay {
	if delay <= 0 {
		delay = DefaultBannerDelay
	}
	return &Overlay{delay: delay}
}

func (o *Overlay) Delay() time.Duration {
	return o.delay
}

// Schedule calls dismiss once the delay elapses, on the timer's goroutine.
func (o *Overlay) Schedule(dismiss func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
	gen := o.generation
	o.timer = time.AfterFunc(o.delay, func() {
		o.mu.Lock()
		if gen != o.generation {
			o.mu.Unlock()
			return
		}
		o.timer = nil
		o.generation++
		o.mu.Unlock()
		dismiss()
	})
}

// Cancel drops the pending dismissal and reports whether there was one.
func (o *Overlay) Cancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending := o.timer != nil
	o.stopLocked()
	return pending
}

func (o *Overlay) Pending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.timer != nil
}

func (o *Overlay) stopLocked() {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.generation++
}
