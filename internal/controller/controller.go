package controller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ivlev/scenereel/internal/deferred"
	"github.com/ivlev/scenereel/internal/sequencer"
)

// EntranceWindow is how long a scene stays marked as "entering" after the
// camera reaches it.
const EntranceWindow = 1000 * time.Millisecond

// ErrRunning is returned by Run when a loop is already active.
var ErrRunning = errors.New("controller loop already running")

// Snapshot is the published view of the sequencer after a tick. Observers
// only ever see complete snapshots.
type Snapshot struct {
	Tick           uint64
	Time           time.Time
	Progress       float64
	TargetProgress float64
	CurrentScene   int
	SceneCount     int
	Snapped        bool
	Diff           float64
	Entered        int // Scene entered on this tick, -1 if none
	Entering       int // Scene inside its entrance window, -1 if none
	EnteredAt      time.Time
}

// Frame converts the snapshot back into the sequencer frame it came from.
func (s Snapshot) Frame() sequencer.Frame {
	return sequencer.Frame{
		Progress:     s.Progress,
		CurrentScene: s.CurrentScene,
		Snapped:      s.Snapped,
		Diff:         s.Diff,
		Entered:      s.Entered,
	}
}

// EntranceElapsed returns how far into its entrance window the entering
// scene is, or false if no scene is entering.
func (s Snapshot) EntranceElapsed() (time.Duration, bool) {
	if s.Entering < 0 {
		return 0, false
	}
	return s.Time.Sub(s.EnteredAt), true
}

// Observer receives every published snapshot.
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Observe(s Snapshot) { f(s) }

// Controller owns one sequencer state. Inputs, ticks and timer callbacks are
// serialized on mu, so there is exactly one writer at a time.
type Controller struct {
	mu        sync.Mutex
	state     sequencer.State
	clock     deferred.Clock
	snaps     *deferred.Group[sequencer.Modality]
	entrance  *deferred.Slot
	entering  int
	enteredAt time.Time
	ticks     uint64
	last      Snapshot

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int

	runMu   sync.Mutex
	running bool
	stop    chan struct{}
}

// New creates a controller for sceneCount scenes. A nil clock means the
// system clock. Scene 0 starts inside its entrance window.
func New(sceneCount int, clock deferred.Clock) *Controller {
	if clock == nil {
		clock = deferred.SystemClock{}
	}
	c := &Controller{
		state:     sequencer.New(sceneCount),
		clock:     clock,
		snaps:     deferred.NewGroup[sequencer.Modality](clock),
		entrance:  deferred.NewSlot(clock),
		observers: make(map[int]Observer),
	}

	c.mu.Lock()
	c.markEnteredLocked(0)
	c.last = c.snapshotLocked(-1)
	c.mu.Unlock()
	return c
}

// SceneCount is fixed for the controller's lifetime.
func (c *Controller) SceneCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.SceneCount
}

// State returns a copy of the raw sequencer state.
func (c *Controller) State() sequencer.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the most recent published snapshot with the entrance
// marker brought up to date.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.last
	s.Entering = c.entering
	s.EnteredAt = c.enteredAt
	return s
}

// Apply feeds one input into the sequencer and schedules or cancels the snap
// debounce it asks for. Input from one modality cancels pending snaps of all
// others.
func (c *Controller) Apply(in sequencer.Input) sequencer.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cmd sequencer.Command
	c.state, cmd = sequencer.Apply(c.state, in)

	c.snaps.CancelExcept(cmd.Modality)
	switch cmd.Snap {
	case sequencer.SnapArm:
		mod := cmd.Modality
		c.snaps.Replace(mod, cmd.Delay, func(t deferred.Ticket) { c.snapFired(mod, t) })
	case sequencer.SnapCancel:
		c.snaps.Cancel(cmd.Modality)
	}
	return c.state
}

func (c *Controller) Scroll(delta float64) sequencer.State {
	return c.Apply(sequencer.ScrollBy(delta))
}

func (c *Controller) BeginDrag() sequencer.State {
	return c.Apply(sequencer.BeginDrag())
}

func (c *Controller) Drag(delta float64) sequencer.State {
	return c.Apply(sequencer.DragBy(delta))
}

func (c *Controller) EndDrag() sequencer.State {
	return c.Apply(sequencer.EndDrag())
}

func (c *Controller) JumpTo(scene int) sequencer.State {
	return c.Apply(sequencer.Jump(scene))
}

func (c *Controller) Step(dir sequencer.Direction) sequencer.State {
	return c.Apply(sequencer.StepBy(dir))
}

// PendingSnaps reports how many modalities have a snap scheduled.
func (c *Controller) PendingSnaps() int {
	return c.snaps.Pending()
}

func (c *Controller) snapFired(mod sequencer.Modality, t deferred.Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer input may have replaced or cancelled this task after its
	// timer fired.
	if !c.snaps.Slot(mod).Release(t) {
		return
	}
	c.state = sequencer.Snap(c.state)
}

// Tick advances the sequencer by one frame and publishes the result.
func (c *Controller) Tick() Snapshot {
	c.mu.Lock()
	var f sequencer.Frame
	c.state, f = sequencer.Advance(c.state)
	c.ticks++
	if idx, ok := f.SceneEntered(); ok {
		c.markEnteredLocked(idx)
	}
	s := c.snapshotLocked(f.Entered)
	s.Diff = f.Diff
	c.last = s
	c.mu.Unlock()

	c.publish(s)
	return s
}

func (c *Controller) markEnteredLocked(idx int) {
	c.entering = idx
	c.enteredAt = c.clock.Now()
	c.entrance.Replace(EntranceWindow, c.entranceDone)
}

func (c *Controller) entranceDone(t deferred.Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entrance.Release(t) {
		c.entering = -1
	}
}

func (c *Controller) snapshotLocked(entered int) Snapshot {
	st := c.state
	return Snapshot{
		Tick:           c.ticks,
		Time:           c.clock.Now(),
		Progress:       st.Progress,
		TargetProgress: st.TargetProgress,
		CurrentScene:   st.CurrentScene,
		SceneCount:     st.SceneCount,
		Snapped:        st.Snapped,
		Diff:           st.TargetProgress - st.Progress,
		Entered:        entered,
		Entering:       c.entering,
		EnteredAt:      c.enteredAt,
	}
}

// Subscribe registers o for every future snapshot. The returned function
// removes it.
func (c *Controller) Subscribe(o Observer) func() {
	c.obsMu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = o
	c.obsMu.Unlock()

	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

// Watch delivers snapshots on a channel. Snapshots are dropped while the
// channel buffer is full; the scene-entered ones included, so readers that
// care about every signal should use Subscribe.
func (c *Controller) Watch(buffer int) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, buffer)
	var once sync.Once
	var mu sync.Mutex
	closed := false

	unsubscribe := c.Subscribe(ObserverFunc(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- s:
		default:
		}
	}))

	return ch, func() {
		once.Do(func() {
			unsubscribe()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}
}

func (c *Controller) publish(s Snapshot) {
	c.obsMu.Lock()
	obs := make([]Observer, 0, len(c.observers))
	for _, o := range c.observers {
		obs = append(obs, o)
	}
	c.obsMu.Unlock()

	for _, o := range obs {
		c.notify(o, s)
	}
}

// notify isolates a failing observer from the tick loop.
func (c *Controller) notify(o Observer, s Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[!] observer panic on tick %d: %v", s.Tick, r)
		}
	}()
	o.Observe(s)
}

// Run ticks every interval until ctx is done or Stop is called. It returns
// ctx.Err() when the context ended the loop and nil after Stop.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	c.runMu.Lock()
	if c.running {
		c.runMu.Unlock()
		return ErrRunning
	}
	c.running = true
	stop := make(chan struct{})
	c.stop = stop
	c.runMu.Unlock()

	defer func() {
		c.runMu.Lock()
		c.running = false
		c.stop = nil
		c.runMu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.snaps.CancelAll()
			return ctx.Err()
		case <-stop:
			c.snaps.CancelAll()
			return nil
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Stop ends a running loop. It is safe to call when no loop is running.
func (c *Controller) Stop() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// Running reports whether Run is active.
func (c *Controller) Running() bool {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	return c.running
}
