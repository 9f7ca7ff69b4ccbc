package renderer

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/scenereel/internal/controller"
	"github.com/ivlev/scenereel/internal/effects"
)

// The header turns solid once the journey has started and the scroll hint
// disappears a little later.
const (
	headerScrolledAt = 0.05
	hintHiddenAt     = 0.08
)

// UIState is everything the UI reflector derives from a snapshot
type UIState struct {
	BarFill        float64 // 0..1
	ActiveDot      int
	HeaderScrolled bool
	HintVisible    bool
	FinalActive    bool
}

// ReflectUI derives UI state from a snapshot. It only reads.
func ReflectUI(s controller.Snapshot) UIState {
	return UIState{
		BarFill:        s.Progress,
		ActiveDot:      s.CurrentScene,
		HeaderScrolled: s.Progress > headerScrolledAt,
		HintVisible:    s.Progress <= hintHiddenAt,
		FinalActive:    s.SceneCount > 1 && s.CurrentScene == s.SceneCount-1,
	}
}

var (
	uiMuted  = color.RGBA{0x50, 0x50, 0x50, 0x50} // premultiplied white
	uiBright = color.RGBA{0xff, 0xff, 0xff, 0xff}
	uiAccent = color.RGBA{0x8a, 0x5c, 0xff, 0xff}
	uiHeader = color.RGBA{0x08, 0x08, 0x10, 0xc0}
)

// Reflector draws progress bar, scene dots, navigation labels, header band,
// scroll hint and the final call to action
type Reflector struct {
	Titles []string
	CTA    *effects.CallToAction
}

func (r *Reflector) Draw(dst *image.RGBA, s controller.Snapshot, finalOpacity float64) {
	ui := ReflectUI(s)
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()

	if ui.HeaderScrolled {
		fill(dst, image.Rect(0, 0, w, 28).Add(b.Min), uiHeader)
	}
	r.drawNav(dst, ui)

	// Progress track on the right edge
	trackTop, trackBottom := h/5, h*4/5
	x := b.Min.X + w - 24
	fill(dst, image.Rect(x, b.Min.Y+trackTop, x+2, b.Min.Y+trackBottom), uiMuted)
	filled := int(float64(trackBottom-trackTop) * ui.BarFill)
	fill(dst, image.Rect(x, b.Min.Y+trackTop, x+2, b.Min.Y+trackTop+filled), uiAccent)

	// Dots
	if s.SceneCount > 0 {
		step := float64(trackBottom-trackTop) / float64(max(1, s.SceneCount-1))
		for i := 0; i < s.SceneCount; i++ {
			cy := b.Min.Y + trackTop + int(step*float64(i))
			c, rad := uiMuted, 3
			if i == ui.ActiveDot {
				c, rad = uiBright, 5
			}
			fill(dst, image.Rect(x-12-rad, cy-rad, x-12+rad, cy+rad), c)
		}
	}

	if ui.HintVisible {
		drawChevron(dst, image.Pt(b.Min.X+w/2, b.Min.Y+h-36), uiBright)
	}

	if ui.FinalActive && r.CTA != nil {
		size := r.CTA.Bounds().Size()
		at := image.Pt(b.Max.X-size.X-48, b.Max.Y-size.Y-24)
		r.CTA.Draw(dst, at, finalOpacity)
	}
}

func (r *Reflector) drawNav(dst *image.RGBA, ui UIState) {
	if len(r.Titles) == 0 {
		return
	}
	b := dst.Bounds()
	d := &font.Drawer{Dst: dst, Face: basicfont.Face7x13}
	x := b.Min.X + 16
	for i, title := range r.Titles {
		c := uiMuted
		if i == ui.ActiveDot {
			c = uiBright
		}
		d.Src = image.NewUniform(c)
		d.Dot = fixed.P(x, b.Min.Y+18)
		d.DrawString(title)
		x += d.MeasureString(title).Ceil() + 18
		if x >= b.Max.X-40 {
			break
		}
	}
}

func fill(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func drawChevron(dst *image.RGBA, tip image.Point, c color.RGBA) {
	for i := 0; i < 8; i++ {
		fill(dst, image.Rect(tip.X-i-1, tip.Y-i-1, tip.X-i+1, tip.Y-i+1), c)
		fill(dst, image.Rect(tip.X+i-1, tip.Y-i-1, tip.X+i+1, tip.Y-i+1), c)
	}
}
