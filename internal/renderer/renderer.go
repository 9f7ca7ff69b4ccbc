package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/ivlev/scenereel/internal/controller"
	"github.com/ivlev/scenereel/internal/effects"
)

// Frame renders complete frames: backdrop, scene panels, UI
type Frame struct {
	Compositor *Compositor
	Backdrop   *effects.Guarded // nil for a plain background
	Reflector  *Reflector       // nil for no UI
	Start      time.Time        // Recording start, drives backdrop animation
}

var plainBackground = color.RGBA{0x0a, 0x0a, 0x12, 0xff}

// Render draws snapshot s into dst, which must match the compositor size
func (f *Frame) Render(dst *image.RGBA, s controller.Snapshot) {
	f.RenderWithBackdrop(dst, s, !f.Backdrop.Disabled())
}

// RenderWithBackdrop is Render with the backdrop decision made by the
// caller. With backdrop set the backdrop is tried even if another frame has
// switched it off since; a frame whose own draw fails gets the plain
// background.
func (f *Frame) RenderWithBackdrop(dst *image.RGBA, s controller.Snapshot, backdrop bool) {
	seconds := s.Time.Sub(f.Start).Seconds()
	if !backdrop || !f.Backdrop.Attempt(dst, s.Progress, seconds) {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(plainBackground), image.Point{}, draw.Src)
	}

	f.Compositor.Draw(dst, s)

	if f.Reflector != nil {
		finalOpacity := 0.0
		if s.SceneCount > 0 {
			ts := f.Compositor.Layout.Transforms(s.Frame(), s.SceneCount)
			finalOpacity = ts[len(ts)-1].Opacity
		}
		f.Reflector.Draw(dst, s, finalOpacity)
	}
}
