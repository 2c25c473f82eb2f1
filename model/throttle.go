package model

import "time"

// Throttle enforces a minimum interval between executions of one user's
// task, on top of the scheduler's own think-time wait. Owned by exactly
// one goroutine, so no locking.
type Throttle struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		now:      time.Now,
	}
}

// Allow reports whether the interval has elapsed since the last allowed
// execution. The timestamp only moves when Allow returns true, so a
// denied invocation does not push the window out.
func (t *Throttle) Allow() bool {
	if t.interval <= 0 {
		return true
	}
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}
