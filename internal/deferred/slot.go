package deferred

import (
	"sync"
	"time"
)

// Ticket identifies one scheduling of a Slot. A callback holding an old
// ticket must not act: Release reports false for it.
type Ticket uint64

// Slot holds at most one pending task. Scheduling a new task atomically
// replaces the previous one.
type Slot struct {
	mu    sync.Mutex
	clock Clock
	gen   Ticket
	timer Timer
}

// NewSlot creates an empty slot on clock.
func NewSlot(clock Clock) *Slot {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Slot{clock: clock}
}

// Replace cancels any pending task and schedules f after d. f receives the
// ticket of this scheduling.
func (s *Slot) Replace(d time.Duration, f func(Ticket)) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	t := s.gen
	s.timer = s.clock.AfterFunc(d, func() { f(t) })
	return t
}

// Cancel drops the pending task. It also invalidates a task whose timer has
// already fired but has not been released yet.
func (s *Slot) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	s.gen++
	return true
}

// Release consumes the pending task if t is still its ticket. Callbacks call
// it under the owner's lock before doing any work.
func (s *Slot) Release(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil || s.gen != t {
		return false
	}
	s.timer = nil
	return true
}

// Pending reports whether a task is scheduled and not yet released.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Group keeps one Slot per key, e.g. per input modality. Scheduling on one
// key cancels every other key.
type Group[K comparable] struct {
	mu    sync.Mutex
	clock Clock
	slots map[K]*Slot
}

// NewGroup creates an empty group on clock.
func NewGroup[K comparable](clock Clock) *Group[K] {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Group[K]{clock: clock, slots: make(map[K]*Slot)}
}

// Slot returns the slot for key, creating it on first use.
func (g *Group[K]) Slot(key K) *Slot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.slots[key]
	if !ok {
		s = NewSlot(g.clock)
		g.slots[key] = s
	}
	return s
}

// Replace schedules f on key after cancelling every other key's task.
func (g *Group[K]) Replace(key K, d time.Duration, f func(Ticket)) Ticket {
	g.CancelExcept(key)
	return g.Slot(key).Replace(d, f)
}

// Cancel drops the pending task of key.
func (g *Group[K]) Cancel(key K) bool {
	return g.Slot(key).Cancel()
}

// CancelExcept drops pending tasks of every key but keep.
func (g *Group[K]) CancelExcept(keep K) int {
	g.mu.Lock()
	others := make([]*Slot, 0, len(g.slots))
	for k, s := range g.slots {
		if k != keep {
			others = append(others, s)
		}
	}
	g.mu.Unlock()

	n := 0
	for _, s := range others {
		if s.Cancel() {
			n++
		}
	}
	return n
}

// CancelAll drops every pending task.
func (g *Group[K]) CancelAll() int {
	g.mu.Lock()
	all := make([]*Slot, 0, len(g.slots))
	for _, s := range g.slots {
		all = append(all, s)
	}
	g.mu.Unlock()

	n := 0
	for _, s := range all {
		if s.Cancel() {
			n++
		}
	}
	return n
}

// Pending counts keys with a scheduled task.
func (g *Group[K]) Pending() int {
	g.mu.Lock()
	all := make([]*Slot, 0, len(g.slots))
	for _, s := range g.slots {
		all = append(all, s)
	}
	g.mu.Unlock()

	n := 0
	for _, s := range all {
		if s.Pending() {
			n++
		}
	}
	return n
}
