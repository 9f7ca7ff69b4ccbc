package renderer

import (
	"image"
	"image/color"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/scenereel/internal/controller"
	"github.com/ivlev/scenereel/internal/sequencer"
)

// DefaultPerspective is the viewer distance used for depth scaling
const DefaultPerspective = 1200.0

// panelShare is the part of the frame a locked panel may cover
const panelShare = 0.72

// Compositor maps sequencer output onto scene panels: it is the transform
// mapper that turns offset/scale/opacity into pixels
type Compositor struct {
	Width, Height int
	Layout        sequencer.Layout
	Perspective   float64

	panels []*image.RGBA
}

func NewCompositor(width, height int, layout sequencer.Layout, perspective float64) *Compositor {
	if perspective <= 0 {
		perspective = DefaultPerspective
	}
	return &Compositor{Width: width, Height: height, Layout: layout, Perspective: perspective}
}

// PanelBox is the largest panel size that fits the frame
func (c *Compositor) PanelBox() image.Point {
	return image.Pt(int(float64(c.Width)*panelShare), int(float64(c.Height)*panelShare))
}

// FitPanel scales a scene image to fit the panel box, keeping its aspect
// ratio. Done once per scene, so it uses the slow high quality kernel.
func (c *Compositor) FitPanel(src image.Image) *image.RGBA {
	box := c.PanelBox()
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 || box.X == 0 || box.Y == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	scale := float64(box.X) / float64(sb.Dx())
	if s := float64(box.Y) / float64(sb.Dy()); s < scale {
		scale = s
	}
	w := max(1, int(float64(sb.Dx())*scale+0.5))
	h := max(1, int(float64(sb.Dy())*scale+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}

// SetPanels installs the pre-rendered panels, one per scene
func (c *Compositor) SetPanels(panels []*image.RGBA) {
	c.panels = panels
}

// Placement is where a panel lands on the frame
type Placement struct {
	Index   int
	Rect    image.Rectangle
	Opacity float64
	Depth   float64
}

// Place computes panel placements for a snapshot, farthest first. Panels
// that are invisible or behind the viewer are left out.
func (c *Compositor) Place(s controller.Snapshot) []Placement {
	transforms := c.Layout.Transforms(s.Frame(), s.SceneCount)

	var entrance Entrance
	if elapsed, ok := s.EntranceElapsed(); ok {
		entrance = EntranceAt(elapsed, controller.EntranceWindow)
	}

	out := make([]Placement, 0, len(transforms))
	for _, t := range transforms {
		if t.Opacity <= 0.01 {
			continue
		}
		// Positive offsets have passed the camera; stop before the eye
		if t.Offset >= c.Perspective*0.9 {
			continue
		}
		depth := c.Perspective / (c.Perspective - t.Offset)
		scale := t.Scale * depth

		size := c.panelSize(t.Index)
		w := int(float64(size.X)*scale + 0.5)
		h := int(float64(size.Y)*scale + 0.5)
		if w < 1 || h < 1 {
			continue
		}

		opacity := t.Opacity
		cx, cy := c.Width/2, c.Height/2
		if t.Index == s.Entering {
			cy += int(entrance.Lift * scale)
			opacity *= entrance.Opacity
		}

		out = append(out, Placement{
			Index:   t.Index,
			Rect:    image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h),
			Opacity: opacity,
			Depth:   t.Offset,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Depth < out[j].Depth
	})
	return out
}

func (c *Compositor) panelSize(index int) image.Point {
	if index < len(c.panels) && c.panels[index] != nil {
		return c.panels[index].Bounds().Size()
	}
	return c.PanelBox()
}

// Draw composites every visible panel over dst
func (c *Compositor) Draw(dst *image.RGBA, s controller.Snapshot) {
	for _, p := range c.Place(s) {
		if p.Index >= len(c.panels) || c.panels[p.Index] == nil {
			continue
		}
		panel := c.panels[p.Index]
		opts := &xdraw.Options{
			SrcMask: image.NewUniform(color.Alpha{A: uint8(p.Opacity*255 + 0.5)}),
		}
		xdraw.ApproxBiLinear.Scale(dst, p.Rect, panel, panel.Bounds(), xdraw.Over, opts)
	}
}
