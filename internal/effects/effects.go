package effects

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Backdrop draws a decorative background for one frame. It reads the
// published progress and never writes back to the sequencer.
type Backdrop interface {
	Draw(dst *image.RGBA, progress float64, seconds float64) error
}

// GradientBackdrop is a vertical gradient that drifts from one palette to
// another along the journey, with a faint grid and a wave line whose
// intensity peaks mid-journey.
type GradientBackdrop struct {
	From [2]color.RGBA // top, bottom at progress 0
	To   [2]color.RGBA // top, bottom at progress 1
	Grid int           // Grid cell size in pixels, 0 disables the grid
}

func NewGradientBackdrop() *GradientBackdrop {
	return &GradientBackdrop{
		From: [2]color.RGBA{{0x0b, 0x0d, 0x1a, 0xff}, {0x1a, 0x10, 0x2e, 0xff}},
		To:   [2]color.RGBA{{0x05, 0x1a, 0x22, 0xff}, {0x2a, 0x0b, 0x24, 0xff}},
		Grid: 64,
	}
}

func (b *GradientBackdrop) Draw(dst *image.RGBA, progress float64, seconds float64) error {
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return fmt.Errorf("empty frame")
	}

	top := lerpColor(b.From[0], b.To[0], progress)
	bottom := lerpColor(b.From[1], b.To[1], progress)

	// Grid fades in toward the middle of the journey
	swell := math.Sin(progress * math.Pi)
	gridAlpha := 0.1 + swell*0.08

	for y := 0; y < h; y++ {
		row := lerpColor(top, bottom, float64(y)/float64(h))
		off := dst.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < w; x++ {
			c := row
			if b.Grid > 0 && (x%b.Grid == 0 || y%b.Grid == 0) {
				c = blend(c, color.RGBA{0xff, 0xff, 0xff, 0xff}, gridAlpha*0.5)
			}
			dst.Pix[off+0] = c.R
			dst.Pix[off+1] = c.G
			dst.Pix[off+2] = c.B
			dst.Pix[off+3] = 0xff
			off += 4
		}
	}

	// Wave
	waveIntensity := 1 + swell*0.5
	amp := float64(h) * 0.04 * waveIntensity
	mid := float64(h) * 0.78
	accent := color.RGBA{0x8a, 0x5c, 0xff, 0xff}
	for x := 0; x < w; x++ {
		fx := float64(x) / float64(w)
		y := int(mid + amp*math.Sin(fx*math.Pi*4+seconds*1.5+progress*math.Pi))
		for dy := -1; dy <= 1; dy++ {
			py := y + dy
			if py < 0 || py >= h {
				continue
			}
			off := dst.PixOffset(bounds.Min.X+x, bounds.Min.Y+py)
			c := color.RGBA{dst.Pix[off], dst.Pix[off+1], dst.Pix[off+2], 0xff}
			c = blend(c, accent, 0.6/float64(1+abs(dy)))
			dst.Pix[off+0], dst.Pix[off+1], dst.Pix[off+2] = c.R, c.G, c.B
		}
	}
	return nil
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(lerp(float64(a.R), float64(b.R), t) + 0.5),
		G: uint8(lerp(float64(a.G), float64(b.G), t) + 0.5),
		B: uint8(lerp(float64(a.B), float64(b.B), t) + 0.5),
		A: uint8(lerp(float64(a.A), float64(b.A), t) + 0.5),
	}
}

func blend(dst, src color.RGBA, alpha float64) color.RGBA {
	return lerpColor(dst, src, alpha)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
