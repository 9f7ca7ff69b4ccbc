package sequencer

import "math"

// DefaultSpacing is the distance between consecutive scenes along the path.
const DefaultSpacing = 800.0

const (
	lockEpsilon = 0.01
	maxNormDist = 1.5
	minScale    = 0.5
)

// Layout places scenes along a straight path, scene i at -i*Spacing.
type Layout struct {
	Spacing float64
}

// SceneTransform is how one scene should be drawn for a given frame.
type SceneTransform struct {
	Index   int
	Offset  float64 // Distance from the camera along the path, 0 when locked
	Scale   float64 // 0.5..1
	Opacity float64 // 0..1
	Locked  bool    // Fully centered on the current scene
	Active  bool    // Current scene and mostly visible
}

func (l Layout) spacing() float64 {
	if l.Spacing <= 0 {
		return DefaultSpacing
	}
	return l.Spacing
}

// PathLength is the camera travel from the first to the last scene.
func (l Layout) PathLength(sceneCount int) float64 {
	if sceneCount <= 1 {
		return 0
	}
	return l.spacing() * float64(sceneCount-1)
}

// Transforms maps a published frame onto every scene. Scale and opacity fall
// off with distance from the camera, normalized by the scene spacing.
func (l Layout) Transforms(f Frame, sceneCount int) []SceneTransform {
	spacing := l.spacing()
	camera := f.Progress * l.PathLength(sceneCount)

	out := make([]SceneTransform, sceneCount)
	for i := range out {
		rel := -float64(i)*spacing + camera
		current := i == f.CurrentScene

		t := SceneTransform{Index: i}
		if current && f.Snapped && math.Abs(f.Diff) < lockEpsilon {
			t.Scale = 1
			t.Opacity = 1
			t.Locked = true
		} else {
			norm := math.Min(math.Abs(rel)/spacing, maxNormDist)
			t.Offset = rel
			t.Scale = math.Max(minScale, 1-norm*0.4)
			t.Opacity = math.Max(0, 1-norm*0.8)
		}
		t.Active = current && t.Opacity > 0.5
		out[i] = t
	}
	return out
}
