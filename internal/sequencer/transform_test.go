package sequencer

import (
	"math"
	"testing"
)

func TestTransformsLockedScene(t *testing.T) {
	l := Layout{Spacing: 800}
	f := Frame{Progress: 0.5, CurrentScene: 2, Snapped: true, Diff: 0.005, Entered: -1}

	ts := l.Transforms(f, 5)
	if len(ts) != 5 {
		t.Fatalf("got %d transforms", len(ts))
	}

	cur := ts[2]
	if !cur.Locked || cur.Offset != 0 || cur.Scale != 1 || cur.Opacity != 1 || !cur.Active {
		t.Errorf("current scene not locked: %+v", cur)
	}

	// Neighbours are one spacing away: norm 1.
	for _, i := range []int{1, 3} {
		n := ts[i]
		if n.Locked || n.Active {
			t.Errorf("scene %d should not be locked/active: %+v", i, n)
		}
		if math.Abs(n.Scale-0.6) > 1e-9 || math.Abs(n.Opacity-0.2) > 1e-9 {
			t.Errorf("scene %d: scale %v opacity %v", i, n.Scale, n.Opacity)
		}
	}
	if ts[1].Offset != 800 || ts[3].Offset != -800 {
		t.Errorf("offsets %v %v", ts[1].Offset, ts[3].Offset)
	}

	// Two spacings away clamps at 1.5.
	far := ts[0]
	if far.Scale != 0.5 || far.Opacity != 0 {
		t.Errorf("far scene: %+v", far)
	}
}

func TestTransformsNotLockedWhileMoving(t *testing.T) {
	l := Layout{}
	tests := []struct {
		name string
		f    Frame
	}{
		{"free scroll", Frame{Progress: 0.5, CurrentScene: 2, Snapped: false, Diff: 0}},
		{"large diff", Frame{Progress: 0.5, CurrentScene: 2, Snapped: true, Diff: 0.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := l.Transforms(tt.f, 5)[2]
			if cur.Locked {
				t.Errorf("locked while moving: %+v", cur)
			}
			// Exactly at the scene position the falloff is still full.
			if cur.Scale != 1 || cur.Opacity != 1 || !cur.Active {
				t.Errorf("centered scene: %+v", cur)
			}
		})
	}
}

func TestTransformsMonotonicFalloff(t *testing.T) {
	l := Layout{Spacing: 500}
	f := Frame{Progress: 0, CurrentScene: 0, Snapped: false}
	ts := l.Transforms(f, 6)
	for i := 1; i < len(ts); i++ {
		if ts[i].Scale > ts[i-1].Scale || ts[i].Opacity > ts[i-1].Opacity {
			t.Errorf("falloff increased at %d: %+v vs %+v", i, ts[i], ts[i-1])
		}
		if ts[i].Scale < 0.5 || ts[i].Scale > 1 || ts[i].Opacity < 0 || ts[i].Opacity > 1 {
			t.Errorf("out of bounds: %+v", ts[i])
		}
	}
}

func TestTransformsSingleScene(t *testing.T) {
	ts := Layout{}.Transforms(Frame{Snapped: true}, 1)
	if len(ts) != 1 || !ts[0].Locked {
		t.Errorf("single scene: %+v", ts)
	}
	if (Layout{}).PathLength(1) != 0 {
		t.Error("single scene path length should be 0")
	}
}
