// Package progress smooths coarse, server-paced stage boundaries into a
// continuously advancing display value. It owns no business state; the
// pipeline is correct without it.
package progress

import (
	"context"
	"sync"
	"time"
)

const (
	// baseRate is points advanced per tick while more than
	// slowdownWindow points below the target.
	baseRate = 1.0
	// slowdownWindow is the distance from the target inside which the
	// rate halves, giving the ease-out deceleration.
	slowdownWindow = 10.0

	baseInterval = 100 * time.Millisecond
	fastInterval = 50 * time.Millisecond
)

// Animator interpolates a displayed percentage toward a target using a
// deceleration law: full rate while far from the target, half rate within
// the last slowdownWindow points, and a final clamp at the target. The
// displayed value never moves backward within one job.
type Animator struct {
	mu        sync.Mutex
	displayed float64
	target    float64
	fast      bool
	onChange  func(float64)
}

// New creates an Animator. onChange, if non-nil, receives every changed
// displayed value; it is invoked without the internal lock held.
func New(onChange func(float64)) *Animator {
	return &Animator{onChange: onChange}
}

// SetTarget moves the target. Ticking resumes from the current displayed
// value; a target below it is lifted to the displayed value so progress
// never runs backward. The fast flag doubles both the advance rate and
// the tick frequency, used for the final jump to 100.
func (a *Animator) SetTarget(target float64, fast bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if target > 100 {
		target = 100
	}
	if target < a.displayed {
		target = a.displayed
	}
	a.target = target
	a.fast = fast
}

// Value returns the current displayed percentage.
func (a *Animator) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.displayed
}

// Reset returns the animator to zero for a new job.
func (a *Animator) Reset() {
	a.mu.Lock()
	a.displayed = 0
	a.target = 0
	a.fast = false
	onChange := a.onChange
	a.mu.Unlock()
	if onChange != nil {
		onChange(0)
	}
}

// Tick advances the displayed value one step toward the target and
// returns the new value. No-op when already at the target.
func (a *Animator) Tick() float64 {
	a.mu.Lock()
	remaining := a.target - a.displayed
	if remaining <= 0 {
		v := a.displayed
		a.mu.Unlock()
		return v
	}

	rate := baseRate
	if a.fast {
		rate *= 2
	}
	if remaining <= slowdownWindow {
		rate /= 2
	}
	if rate >= remaining {
		// Final clamp.
		a.displayed = a.target
	} else {
		a.displayed += rate
	}

	v := a.displayed
	onChange := a.onChange
	a.mu.Unlock()

	if onChange != nil {
		onChange(v)
	}
	return v
}

// interval returns the current tick period.
func (a *Animator) interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fast {
		return fastInterval
	}
	return baseInterval
}

// Run ticks the animator until the context is cancelled. The timer is
// re-armed each tick so a fast-flag change takes effect immediately.
func (a *Animator) Run(ctx context.Context) {
	t := time.NewTimer(a.interval())
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.Tick()
			t.Reset(a.interval())
		}
	}
}
