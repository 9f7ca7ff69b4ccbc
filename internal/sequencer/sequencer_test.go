package sequencer

import (
	"math"
	"testing"
)

// settle ticks until the state is at rest and collects entered scenes.
func settle(t *testing.T, s State) (State, []int) {
	t.Helper()
	var entered []int
	for i := 0; i < 1000; i++ {
		var f Frame
		s, f = Advance(s)
		if idx, ok := f.SceneEntered(); ok {
			entered = append(entered, idx)
		}
		if s.Settled() {
			return s, entered
		}
	}
	t.Fatalf("state did not settle: %+v", s)
	return s, entered
}

func TestJumpConverges(t *testing.T) {
	for _, count := range []int{2, 3, 5, 9} {
		for idx := 0; idx < count; idx++ {
			s := New(count)
			s, cmd := Apply(s, Jump(idx))
			if cmd.Snap != SnapNone {
				t.Errorf("jump should not touch the snap timer, got %v", cmd.Snap)
			}
			s, _ = settle(t, s)

			want := float64(idx) / float64(count-1)
			if s.Progress != want {
				t.Errorf("count=%d jump(%d): progress %v, want exactly %v", count, idx, s.Progress, want)
			}
			if s.CurrentScene != idx {
				t.Errorf("count=%d jump(%d): scene %d", count, idx, s.CurrentScene)
			}
		}
	}
}

func TestJumpToThreeOfFive(t *testing.T) {
	s := New(5)
	s, _ = Apply(s, Jump(3))
	if s.TargetProgress != 0.75 {
		t.Fatalf("target %v, want 0.75", s.TargetProgress)
	}

	s, entered := settle(t, s)
	if s.Progress != 0.75 || s.CurrentScene != 3 {
		t.Fatalf("got progress=%v scene=%d", s.Progress, s.CurrentScene)
	}

	count := 0
	for _, idx := range entered {
		if idx == 3 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("scene 3 entered %d times (%v), want once", count, entered)
	}
	t.Logf("entered sequence: %v", entered)
}

func TestJumpOutOfRangeIsNoop(t *testing.T) {
	s := New(5)
	s, _ = Apply(s, ScrollBy(0.3))
	for _, idx := range []int{-1, 5, 100} {
		got, _ := Apply(s, Jump(idx))
		if got != s {
			t.Errorf("jump(%d) changed state: %+v", idx, got)
		}
	}
}

func TestStepAtEnds(t *testing.T) {
	s := New(4)
	got, _ := Apply(s, StepBy(Backward))
	if got.TargetProgress != s.TargetProgress {
		t.Errorf("step backward at 0 moved target to %v", got.TargetProgress)
	}

	s, _ = Apply(s, Jump(3))
	s, _ = settle(t, s)
	got, _ = Apply(s, StepBy(Forward))
	if got.TargetProgress != s.TargetProgress {
		t.Errorf("step forward at last scene moved target to %v", got.TargetProgress)
	}
}

func TestStepMovesOneScene(t *testing.T) {
	s := New(5)
	s, _ = Apply(s, StepBy(Forward))
	if s.TargetProgress != 0.25 || !s.Snapped {
		t.Fatalf("after step forward: %+v", s)
	}
	s, _ = settle(t, s)
	s, _ = Apply(s, StepBy(Forward))
	s, _ = settle(t, s)
	if s.CurrentScene != 2 {
		t.Errorf("scene %d, want 2", s.CurrentScene)
	}
	s, _ = Apply(s, StepBy(Backward))
	if s.TargetProgress != 0.25 {
		t.Errorf("target %v after step back, want 0.25", s.TargetProgress)
	}
}

func TestScrollClamps(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		n     int
	}{
		{"forward small", 0.07, 200},
		{"forward huge", 25, 10},
		{"backward huge", -3, 10},
		{"mixed", 0.9, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(6)
			delta := tt.delta
			for i := 0; i < tt.n; i++ {
				var cmd Command
				s, cmd = Apply(s, ScrollBy(delta))
				if s.TargetProgress < 0 || s.TargetProgress > 1 {
					t.Fatalf("target out of range: %v", s.TargetProgress)
				}
				if cmd.Snap != SnapArm || cmd.Delay != WheelSnapDelay || cmd.Modality != Wheel {
					t.Fatalf("unexpected command %+v", cmd)
				}
				if tt.name == "mixed" {
					delta = -delta * 1.3
				}
			}
		})
	}
}

func TestScrollThenSnap(t *testing.T) {
	s := New(5)
	s, _ = Apply(s, ScrollBy(0.05))
	if s.TargetProgress != 0.05 || s.Snapped {
		t.Fatalf("after scroll: %+v", s)
	}
	s = Snap(s)
	if s.TargetProgress != 0 || !s.Snapped {
		t.Errorf("after snap: %+v", s)
	}
}

func TestSnapQuantizes(t *testing.T) {
	for _, target := range []float64{0, 0.1, 0.124, 0.126, 0.3, 0.5, 0.62, 0.88, 1} {
		s := New(5)
		s.TargetProgress = target
		s.Snapped = false
		got := Snap(s)
		want := math.Round(target*4) / 4
		if got.TargetProgress != want || !got.Snapped {
			t.Errorf("snap(%v) = %v, want %v", target, got.TargetProgress, want)
		}
	}
}

func TestDragCommands(t *testing.T) {
	s := New(3)
	s, cmd := Apply(s, BeginDrag())
	if cmd.Snap != SnapCancel || cmd.Modality != Touch || s.Snapped {
		t.Fatalf("drag start: state %+v cmd %+v", s, cmd)
	}
	s, cmd = Apply(s, DragBy(TouchDelta(300, 250)))
	if cmd.Snap != SnapNone {
		t.Errorf("drag delta should not re-arm, got %+v", cmd)
	}
	if math.Abs(s.TargetProgress-0.2) > 1e-9 {
		t.Errorf("target %v, want 0.2", s.TargetProgress)
	}
	_, cmd = Apply(s, EndDrag())
	if cmd.Snap != SnapArm || cmd.Delay != TouchSnapDelay {
		t.Errorf("drag end: %+v", cmd)
	}
}

func TestSingleScene(t *testing.T) {
	s := New(1)
	inputs := []Input{ScrollBy(0.4), DragBy(2), Jump(0), Jump(1), StepBy(Forward), StepBy(Backward), ScrollBy(-5)}
	for _, in := range inputs {
		s, _ = Apply(s, in)
		s = Snap(s)
		for i := 0; i < 10; i++ {
			var f Frame
			s, f = Advance(s)
			if f.Entered >= 0 {
				t.Fatalf("single scene entered %d", f.Entered)
			}
		}
		if s.Progress != 0 || s.CurrentScene != 0 || s.TargetProgress != 0 {
			t.Fatalf("after %v: %+v", in, s)
		}
	}
}

func TestZeroSceneCountIsPromoted(t *testing.T) {
	s := New(0)
	if s.SceneCount != 1 {
		t.Errorf("scene count %d, want 1", s.SceneCount)
	}
}

func TestNonFiniteDeltaIgnored(t *testing.T) {
	s := New(4)
	for _, d := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		got, cmd := Apply(s, ScrollBy(d))
		if got != s || cmd.Snap != SnapNone {
			t.Errorf("delta %v changed state: %+v %+v", d, got, cmd)
		}
	}
}

func TestJumpToCurrentWhenSettled(t *testing.T) {
	s := New(5)
	s, _ = Apply(s, Jump(2))
	s, _ = settle(t, s)

	before := s
	s, _ = Apply(s, Jump(s.CurrentScene))
	if s != before {
		t.Fatalf("state changed: %+v -> %+v", before, s)
	}
	for i := 0; i < 5; i++ {
		var f Frame
		s, f = Advance(s)
		if f.Entered >= 0 {
			t.Fatalf("unexpected entered signal %d", f.Entered)
		}
	}
	if s != before {
		t.Errorf("ticks changed settled state: %+v", s)
	}
}

func TestFreeScrollIsSlower(t *testing.T) {
	free := New(5)
	free, _ = Apply(free, ScrollBy(0.5))
	snapped := New(5)
	snapped, _ = Apply(snapped, Jump(2))

	free, _ = Advance(free)
	snapped, _ = Advance(snapped)
	if math.Abs(free.Progress-0.04) > 1e-12 {
		t.Errorf("free progress %v, want 0.04", free.Progress)
	}
	if math.Abs(snapped.Progress-0.06) > 1e-12 {
		t.Errorf("snapped progress %v, want 0.06", snapped.Progress)
	}
}

func TestDeviceDeltas(t *testing.T) {
	if got := WheelDelta(100); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("WheelDelta(100) = %v", got)
	}
	if got := TouchDelta(100, 150); math.Abs(got+0.2) > 1e-12 {
		t.Errorf("TouchDelta(100,150) = %v", got)
	}
}
