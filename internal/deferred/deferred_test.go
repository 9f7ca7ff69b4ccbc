package deferred

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualClockOrder(t *testing.T) {
	c := NewManualClock(epoch)
	var fired []string
	c.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "c") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "b") })

	c.Advance(99 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("fired early: %v", fired)
	}

	c.Advance(time.Millisecond)
	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Fatalf("fired %v, want [a b]", fired)
	}

	c.Advance(time.Second)
	if len(fired) != 3 || fired[2] != "c" {
		t.Fatalf("fired %v", fired)
	}
	if got := c.Now().Sub(epoch); got != 1100*time.Millisecond {
		t.Errorf("now = +%v", got)
	}
}

func TestManualClockCallbackSchedules(t *testing.T) {
	c := NewManualClock(epoch)
	var at []time.Duration
	c.AfterFunc(50*time.Millisecond, func() {
		at = append(at, c.Now().Sub(epoch))
		c.AfterFunc(50*time.Millisecond, func() {
			at = append(at, c.Now().Sub(epoch))
		})
	})

	c.Advance(200 * time.Millisecond)
	if len(at) != 2 || at[0] != 50*time.Millisecond || at[1] != 100*time.Millisecond {
		t.Errorf("fired at %v", at)
	}
}

func TestManualTimerStop(t *testing.T) {
	c := NewManualClock(epoch)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })
	if !tm.Stop() {
		t.Fatal("first Stop should report true")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	c.Advance(2 * time.Second)
	if fired || c.Pending() != 0 {
		t.Errorf("stopped timer fired=%v pending=%d", fired, c.Pending())
	}
}

func TestSlotReplace(t *testing.T) {
	c := NewManualClock(epoch)
	s := NewSlot(c)

	var got []Ticket
	run := func(tk Ticket) {
		if s.Release(tk) {
			got = append(got, tk)
		}
	}

	s.Replace(150*time.Millisecond, run)
	c.Advance(100 * time.Millisecond)
	second := s.Replace(150*time.Millisecond, run)
	c.Advance(100 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("replaced task ran: %v", got)
	}

	c.Advance(50 * time.Millisecond)
	if len(got) != 1 || got[0] != second {
		t.Fatalf("got %v, want [%d]", got, second)
	}
	if s.Pending() {
		t.Error("slot still pending after release")
	}
}

func TestSlotStaleTicket(t *testing.T) {
	c := NewManualClock(epoch)
	s := NewSlot(c)

	// Capture the callback without letting it act, simulating a timer that
	// fired while its owner was busy.
	var fire func()
	first := s.Replace(time.Second, func(tk Ticket) {})
	fire = func() {
		if s.Release(first) {
			t.Error("stale ticket released after Cancel")
		}
	}
	s.Cancel()
	fire()

	tk := s.Replace(time.Second, func(Ticket) {})
	if s.Release(first) {
		t.Error("old ticket released after Replace")
	}
	if !s.Release(tk) {
		t.Error("current ticket not released")
	}
	if s.Release(tk) {
		t.Error("ticket released twice")
	}
}

func TestGroupCancelsOtherKeys(t *testing.T) {
	c := NewManualClock(epoch)
	g := NewGroup[string](c)

	fired := map[string]int{}
	mk := func(key string) func(Ticket) {
		return func(tk Ticket) {
			if g.Slot(key).Release(tk) {
				fired[key]++
			}
		}
	}

	g.Replace("wheel", 150*time.Millisecond, mk("wheel"))
	if g.Pending() != 1 {
		t.Fatalf("pending %d", g.Pending())
	}

	g.Replace("touch", 100*time.Millisecond, mk("touch"))
	if g.Pending() != 1 {
		t.Fatalf("pending %d after switching modality", g.Pending())
	}

	c.Advance(time.Second)
	if fired["wheel"] != 0 || fired["touch"] != 1 {
		t.Errorf("fired %v", fired)
	}

	g.Replace("wheel", time.Millisecond, mk("wheel"))
	if n := g.CancelAll(); n != 1 {
		t.Errorf("CancelAll = %d", n)
	}
	c.Advance(time.Second)
	if fired["wheel"] != 0 {
		t.Errorf("cancelled wheel fired")
	}
}

func TestSlotSystemClock(t *testing.T) {
	s := NewSlot(nil)
	var wg sync.WaitGroup
	wg.Add(1)
	s.Replace(5*time.Millisecond, func(tk Ticket) {
		defer wg.Done()
		if !s.Release(tk) {
			t.Error("release failed on system clock")
		}
	})
	wg.Wait()
}
