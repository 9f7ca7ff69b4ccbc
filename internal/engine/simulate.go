package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/ivlev/scenereel/internal/config"
	"github.com/ivlev/scenereel/internal/controller"
	"github.com/ivlev/scenereel/internal/deferred"
	"github.com/ivlev/scenereel/internal/director"
)

// Epoch is the simulated wall clock at frame 0 of every recording
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Simulation is a script replayed through a controller at a fixed frame rate
type Simulation struct {
	Params    config.FrameParams
	Snapshots []controller.Snapshot
	Ignored   int // Events with no sequencer meaning
}

// Simulate replays script through a fresh controller on a manual clock. Events
// are delivered at their own time, so debounce timers armed by one event fire
// before a later event or frame when they are due.
func Simulate(script *director.Script, params config.FrameParams) (*Simulation, error) {
	if params.SceneCount < 1 {
		return nil, fmt.Errorf("scene count must be positive, got %d", params.SceneCount)
	}
	if params.FPS <= 0 {
		return nil, fmt.Errorf("invalid fps %d", params.FPS)
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	script.Sort()

	if params.Duration <= 0 {
		params.Duration = script.End()
	}

	clock := deferred.NewManualClock(Epoch)
	ctrl := controller.New(params.SceneCount, clock)

	sim := &Simulation{Params: params}
	count := params.FrameCount()
	sim.Snapshots = make([]controller.Snapshot, 0, count)

	var tr director.Translator
	next := 0
	for k := 0; k < count; k++ {
		at := frameTime(k, params.FPS)
		for next < len(script.Events) && offset(script.Events[next].At) <= at {
			ev := script.Events[next]
			next++
			clock.AdvanceTo(Epoch.Add(offset(ev.At)))
			in, ok := tr.Translate(ev)
			if !ok {
				sim.Ignored++
				continue
			}
			ctrl.Apply(in)
		}
		clock.AdvanceTo(Epoch.Add(at))
		sim.Snapshots = append(sim.Snapshots, ctrl.Tick())
	}
	return sim, nil
}

// Timeline converts the snapshots to their file form
func (s *Simulation) Timeline() *director.Timeline {
	tl := &director.Timeline{
		Version:    "1.0",
		FPS:        s.Params.FPS,
		SceneCount: s.Params.SceneCount,
		Frames:     make([]director.TimelineFrame, len(s.Snapshots)),
	}
	for i, snap := range s.Snapshots {
		tl.Frames[i] = director.TimelineFrame{
			Frame:    i,
			Time:     round6(snap.Time.Sub(Epoch).Seconds()),
			Progress: round6(snap.Progress),
			Target:   round6(snap.TargetProgress),
			Scene:    snap.CurrentScene,
			Snapped:  snap.Snapped,
			Entered:  snap.Entered,
			Entering: snap.Entering,
		}
	}
	return tl
}

// Last returns the final snapshot
func (s *Simulation) Last() controller.Snapshot {
	return s.Snapshots[len(s.Snapshots)-1]
}

func frameTime(k, fps int) time.Duration {
	return time.Duration(int64(k) * int64(time.Second) / int64(fps))
}

func offset(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
