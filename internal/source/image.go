package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type ImageSource struct {
	paths []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".jpg", ".jpeg", ".png":
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in %s", path)
	}
	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) SceneCount() int {
	return len(s.paths)
}

func (s *ImageSource) check(index int) error {
	if index < 0 || index >= len(s.paths) {
		return fmt.Errorf("scene %d out of range [0,%d)", index, len(s.paths))
	}
	return nil
}

func (s *ImageSource) Dimensions(index int) (float64, float64, error) {
	if err := s.check(index); err != nil {
		return 0, 0, err
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// Render decodes the image; dpi has no meaning for raster input
func (s *ImageSource) Render(index int, dpi int) (image.Image, error) {
	if err := s.check(index); err != nil {
		return nil, err
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(s.paths[index]), err)
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
