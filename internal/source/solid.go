package source

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SolidSource generates plain titled panels. It stands in when no document
// is given, so a journey can be previewed from a storyboard alone.
type SolidSource struct {
	Titles []string
	Width  int
	Height int
}

// panelPalette cycles through muted brand-ish colors
var panelPalette = []color.RGBA{
	{0x1f, 0x2a, 0x44, 0xff},
	{0x2d, 0x1e, 0x3f, 0xff},
	{0x12, 0x3b, 0x3a, 0xff},
	{0x3d, 0x2b, 0x1f, 0xff},
	{0x1e, 0x32, 0x4d, 0xff},
}

func NewSolidSource(titles []string, width, height int) *SolidSource {
	return &SolidSource{Titles: titles, Width: width, Height: height}
}

func (s *SolidSource) SceneCount() int {
	return len(s.Titles)
}

func (s *SolidSource) Dimensions(index int) (float64, float64, error) {
	if index < 0 || index >= len(s.Titles) {
		return 0, 0, fmt.Errorf("scene %d out of range [0,%d)", index, len(s.Titles))
	}
	return float64(s.Width), float64(s.Height), nil
}

func (s *SolidSource) Render(index int, dpi int) (image.Image, error) {
	if _, _, err := s.Dimensions(index); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	bg := panelPalette[index%len(panelPalette)]
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	// Thin frame
	frame := color.RGBA{0x60, 0x60, 0x70, 0xff}
	for x := 0; x < s.Width; x++ {
		img.Set(x, 0, frame)
		img.Set(x, s.Height-1, frame)
	}
	for y := 0; y < s.Height; y++ {
		img.Set(0, y, frame)
		img.Set(s.Width-1, y, frame)
	}

	face := basicfont.Face7x13
	title := s.Titles[index]
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	w := d.MeasureString(title).Ceil()
	d.Dot = fixed.P((s.Width-w)/2, s.Height/2)
	d.DrawString(title)
	return img, nil
}

func (s *SolidSource) Close() error {
	return nil
}
