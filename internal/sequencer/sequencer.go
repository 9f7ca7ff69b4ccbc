package sequencer

import (
	"math"
	"time"
)

// Easing speeds per tick and the rest threshold for snapped motion.
const (
	SnappedSpeed = 0.12
	FreeSpeed    = 0.08
	RestEpsilon  = 0.002
)

// SnapAction tells the owner of the state what to do with the pending snap
// timer of the input's modality.
type SnapAction int

const (
	SnapNone   SnapAction = iota // leave the pending timer alone
	SnapArm                      // (re)arm the timer with Command.Delay
	SnapCancel                   // drop the pending timer
)

// Command is the side effect Apply asks for. State itself never holds timers.
type Command struct {
	Modality Modality
	Snap     SnapAction
	Delay    time.Duration
}

// Frame is what one tick publishes.
type Frame struct {
	Progress     float64
	CurrentScene int
	Snapped      bool
	Diff         float64 // target - progress measured before the step
	Entered      int     // scene index entered on this tick, -1 if none
}

// SceneEntered reports the scene entered on this tick, if any.
func (f Frame) SceneEntered() (int, bool) {
	return f.Entered, f.Entered >= 0
}

// Apply folds one input into the state. It never fails: bad indices and
// non-finite deltas are ignored, positions are clamped.
func Apply(s State, in Input) (State, Command) {
	cmd := Command{Modality: in.Modality()}

	switch in.Kind {
	case Scroll:
		if !finite(in.Delta) {
			return s, cmd
		}
		s.Snapped = false
		s = s.moveTarget(in.Delta)
		cmd.Snap = SnapArm
		cmd.Delay = WheelSnapDelay

	case DragStart:
		s.Snapped = false
		cmd.Snap = SnapCancel

	case DragDelta:
		if !finite(in.Delta) {
			return s, cmd
		}
		s.Snapped = false
		s = s.moveTarget(in.Delta)

	case DragEnd:
		cmd.Snap = SnapArm
		cmd.Delay = TouchSnapDelay

	case JumpTo:
		s = s.jump(in.Scene)

	case Step:
		dir := 1
		if in.Direction == Backward {
			dir = -1
		}
		s = s.jump(s.CurrentScene + dir)
	}

	return s, cmd
}

// Snap quantizes the target to the nearest scene and marks the state snapped.
func Snap(s State) State {
	nearest := math.Round(s.TargetProgress * s.span())
	s.TargetProgress = s.ProgressOf(int(nearest))
	s.Snapped = true
	return s
}

// Advance performs one frame of exponential smoothing toward the target.
func Advance(s State) (State, Frame) {
	diff := s.TargetProgress - s.Progress

	speed := FreeSpeed
	if s.Snapped {
		speed = SnappedSpeed
	}
	s.Progress = clamp01(s.Progress + diff*speed)

	if s.Snapped && math.Abs(diff) < RestEpsilon {
		s.Progress = s.TargetProgress
	}
	if s.SceneCount <= 1 {
		s.Progress = 0
	}

	prev := s.CurrentScene
	s.CurrentScene = s.SceneAt(s.Progress)

	f := Frame{
		Progress:     s.Progress,
		CurrentScene: s.CurrentScene,
		Snapped:      s.Snapped,
		Diff:         diff,
		Entered:      -1,
	}
	if s.CurrentScene != prev {
		f.Entered = s.CurrentScene
	}
	return s, f
}

func (s State) moveTarget(delta float64) State {
	if s.SceneCount <= 1 {
		s.TargetProgress = 0
		return s
	}
	s.TargetProgress = clamp01(s.TargetProgress + delta)
	return s
}

func (s State) jump(index int) State {
	if index < 0 || index >= s.SceneCount {
		return s
	}
	s.TargetProgress = s.ProgressOf(index)
	s.Snapped = true
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
