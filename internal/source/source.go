package source

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source provides the content panel of every scene
type Source interface {
	SceneCount() int
	Dimensions(index int) (width, height float64, err error)
	Render(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a source for path: PDF documents page by page, anything else as
// an image file or a folder of images
func Open(path string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) SceneCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Dimensions(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// Render opens a private document per call so scenes can be rendered from
// several goroutines at once
func (f *FitzPDFSource) Render(index int, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
