package effects

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/skip2/go-qrcode"
)

// CallToAction is the QR code shown on the final scene
type CallToAction struct {
	Link string
	code image.Image
}

// NewCallToAction renders link as a size x size QR code. An empty link means
// no call to action: it returns nil without error.
func NewCallToAction(link string, size int) (*CallToAction, error) {
	if link == "" {
		return nil, nil
	}
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr code for %q: %w", link, err)
	}
	q.ForegroundColor = color.RGBA{0x10, 0x10, 0x1a, 0xff}
	q.BackgroundColor = color.White
	return &CallToAction{Link: link, code: q.Image(size)}, nil
}

// Bounds is the size of the rendered code
func (c *CallToAction) Bounds() image.Rectangle {
	if c == nil {
		return image.Rectangle{}
	}
	return c.code.Bounds()
}

// Draw places the code with its top-left corner at at, faded by opacity
func (c *CallToAction) Draw(dst *image.RGBA, at image.Point, opacity float64) {
	if c == nil || opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	b := c.code.Bounds()
	r := image.Rectangle{Min: at, Max: at.Add(b.Size())}
	mask := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, r, c.code, b.Min, mask, image.Point{}, draw.Over)
}
