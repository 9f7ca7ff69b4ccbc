package effects

import (
	"errors"
	"image"
	"testing"
)

func TestGradientBackdropDrifts(t *testing.T) {
	b := NewGradientBackdrop()
	b.Grid = 0

	start := image.NewRGBA(image.Rect(0, 0, 64, 36))
	end := image.NewRGBA(image.Rect(0, 0, 64, 36))
	if err := b.Draw(start, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := b.Draw(end, 1, 0); err != nil {
		t.Fatal(err)
	}

	if start.RGBAAt(0, 0) == end.RGBAAt(0, 0) {
		t.Error("top color did not change with progress")
	}
	if got := start.RGBAAt(0, 0); got != b.From[0] {
		t.Errorf("top at progress 0 = %v, want %v", got, b.From[0])
	}
	if a := start.RGBAAt(10, 10).A; a != 0xff {
		t.Errorf("backdrop not opaque: alpha %d", a)
	}
}

func TestGradientBackdropEmptyFrame(t *testing.T) {
	if err := NewGradientBackdrop().Draw(&image.RGBA{}, 0.5, 1); err == nil {
		t.Error("expected error for empty frame")
	}
}

type failingBackdrop struct {
	err   error
	calls int
}

func (f *failingBackdrop) Draw(*image.RGBA, float64, float64) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	panic("gl context lost")
}

func TestGuardDisablesOnError(t *testing.T) {
	inner := &failingBackdrop{err: errors.New("no context")}
	g := Guard(inner)
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))

	if g.Draw(dst, 0, 0) {
		t.Error("failing backdrop reported drawn")
	}
	g.Draw(dst, 0.5, 1)
	if inner.calls != 1 {
		t.Errorf("inner called %d times after failure", inner.calls)
	}
	if !g.Disabled() || g.Err() == nil {
		t.Error("guard not disabled")
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	g := Guard(&failingBackdrop{})
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if g.Draw(dst, 0, 0) {
		t.Error("panicking backdrop reported drawn")
	}
	if !g.Disabled() {
		t.Error("guard not disabled after panic")
	}

	var nilGuard *Guarded
	if nilGuard.Draw(dst, 0, 0) {
		t.Error("nil guard drew")
	}
}

func TestGuardPassesThrough(t *testing.T) {
	g := Guard(NewGradientBackdrop())
	if !g.Draw(image.NewRGBA(image.Rect(0, 0, 8, 8)), 0.3, 2) {
		t.Error("healthy backdrop not drawn")
	}
}

func TestCallToAction(t *testing.T) {
	none, err := NewCallToAction("", 64)
	if err != nil || none != nil {
		t.Fatalf("empty link: %v %v", none, err)
	}
	none.Draw(image.NewRGBA(image.Rect(0, 0, 1, 1)), image.Point{}, 1)

	cta, err := NewCallToAction("https://example.com/start", 96)
	if err != nil {
		t.Fatal(err)
	}
	if cta.Bounds().Dx() != 96 {
		t.Errorf("qr size %v", cta.Bounds())
	}

	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	cta.Draw(dst, image.Pt(50, 50), 1)

	dark := 0
	for y := 50; y < 146; y++ {
		for x := 50; x < 146; x++ {
			if c := dst.RGBAAt(x, y); c.A == 0xff && c.R < 0x40 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no QR modules drawn")
	}
	if dst.RGBAAt(10, 10).A != 0 {
		t.Error("drew outside the target rectangle")
	}
}

// flakyBackdrop fails only on its first call
type flakyBackdrop struct {
	calls int
}

func (f *flakyBackdrop) Draw(*image.RGBA, float64, float64) error {
	f.calls++
	if f.calls == 1 {
		return errors.New("first frame lost")
	}
	return nil
}

func TestGuardAttemptIgnoresDisabled(t *testing.T) {
	inner := &flakyBackdrop{}
	g := Guard(inner)
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))

	if g.Attempt(dst, 0, 0) {
		t.Fatal("failed attempt reported drawn")
	}
	if !g.Disabled() {
		t.Fatal("guard not disabled after failure")
	}
	if g.Draw(dst, 0, 0) {
		t.Error("Draw ran a disabled backdrop")
	}
	if !g.Attempt(dst, 0, 0) {
		t.Error("Attempt skipped a disabled backdrop")
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2", inner.calls)
	}

	var empty *Guarded
	if !empty.Disabled() || empty.Attempt(dst, 0, 0) {
		t.Error("nil guard should be disabled and never draw")
	}
}
