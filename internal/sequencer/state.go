package sequencer

import "math"

// State is the whole sequencer: where the camera is, where it is heading and
// which scene is closest.
type State struct {
	Progress       float64 // Current smoothed position, 0..1
	TargetProgress float64 // Desired position set by inputs, 0..1
	Snapped        bool    // Settling to a scene rather than scrubbing freely
	CurrentScene   int     // round(Progress * (SceneCount-1))
	SceneCount     int
}

// New creates the initial state: parked on scene 0 and snapped.
func New(sceneCount int) State {
	if sceneCount < 1 {
		sceneCount = 1
	}
	return State{
		Snapped:    true,
		SceneCount: sceneCount,
	}
}

// span is the divisor between scene index and progress. A single scene
// still needs a non-zero divisor.
func (s State) span() float64 {
	if s.SceneCount <= 1 {
		return 1
	}
	return float64(s.SceneCount - 1)
}

// ProgressOf returns the exact progress value of scene index.
func (s State) ProgressOf(index int) float64 {
	if s.SceneCount <= 1 {
		return 0
	}
	return float64(index) / s.span()
}

// SceneAt returns the nearest scene index for progress p.
func (s State) SceneAt(p float64) int {
	if s.SceneCount <= 1 {
		return 0
	}
	idx := int(math.Round(clamp01(p) * s.span()))
	if idx >= s.SceneCount {
		idx = s.SceneCount - 1
	}
	return idx
}

// Settled reports whether the state has reached exact rest.
func (s State) Settled() bool {
	return s.Snapped && s.Progress == s.TargetProgress
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
