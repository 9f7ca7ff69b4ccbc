package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestImageSourceFolder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 20, 10)
	writePNG(t, filepath.Join(dir, "a.PNG"), 8, 6)
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644)

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if src.SceneCount() != 2 {
		t.Fatalf("SceneCount = %d, want 2", src.SceneCount())
	}

	w, h, err := src.Dimensions(0)
	if err != nil || w != 8 || h != 6 {
		t.Errorf("Dimensions(0) = %v,%v,%v", w, h, err)
	}

	img, err := src.Render(1, 72)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 20 {
		t.Errorf("rendered width %d", img.Bounds().Dx())
	}

	if _, err := src.Render(2, 72); err == nil {
		t.Error("expected out of range error")
	}
}

func TestImageSourceEmptyFolder(t *testing.T) {
	if _, err := NewImageSource(t.TempDir()); err == nil {
		t.Error("expected error for folder without images")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSolidSource(t *testing.T) {
	src := NewSolidSource([]string{"Intro", "Batch", "Regions"}, 160, 90)
	if src.SceneCount() != 3 {
		t.Fatalf("SceneCount = %d", src.SceneCount())
	}

	img, err := src.Render(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 160, 90) {
		t.Errorf("bounds %v", img.Bounds())
	}

	// Title pixels are white somewhere on the middle row band
	found := false
	for y := 80 / 2; y < 90/2+2 && !found; y++ {
		for x := 0; x < 160; x++ {
			r, g, b, _ := img.At(x, y-4).RGBA()
			if r == 0xffff && g == 0xffff && b == 0xffff {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("title not drawn")
	}

	if _, err := src.Render(5, 0); err == nil {
		t.Error("expected out of range error")
	}
}
