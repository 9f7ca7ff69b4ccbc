package deferred

import (
	"sort"
	"sync"
	"time"
)

// Clock schedules deferred callbacks. Real code uses SystemClock; tests and
// offline recordings use ManualClock so debounce windows are deterministic.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer (false if it already fired or was stopped).
	Stop() bool
}

// SystemClock is the wall clock backed by time.AfterFunc.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock only moves when Advance is called. Due callbacks run
// synchronously on the goroutine calling Advance, in deadline order.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

// NewManualClock starts the clock at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Time
	seq      uint64
	f        func()
	done     bool
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{clock: c, deadline: c.now.Add(d), seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			break
		}
	}
	return true
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Advance moves the clock forward by d, firing every timer that falls due on
// the way. Callbacks may schedule new timers; those fire too if they are due
// before the new time.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	c.AdvanceTo(target)
}

// AdvanceTo moves the clock to t. Moving backwards is ignored.
func (c *ManualClock) AdvanceTo(t time.Time) {
	for {
		c.mu.Lock()
		next := c.nextDue(t)
		if next == nil {
			if t.After(c.now) {
				c.now = t
			}
			c.mu.Unlock()
			return
		}
		if next.deadline.After(c.now) {
			c.now = next.deadline
		}
		next.done = true
		c.remove(next)
		c.mu.Unlock()

		next.f()
	}
}

func (c *ManualClock) nextDue(t time.Time) *manualTimer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].deadline.Equal(c.pending[j].deadline) {
			return c.pending[i].seq < c.pending[j].seq
		}
		return c.pending[i].deadline.Before(c.pending[j].deadline)
	})
	if c.pending[0].deadline.After(t) {
		return nil
	}
	return c.pending[0]
}

func (c *ManualClock) remove(t *manualTimer) {
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}
