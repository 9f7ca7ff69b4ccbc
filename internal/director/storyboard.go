package director

import "fmt"

// Storyboard describes the scenes of a journey and how they are laid out
type Storyboard struct {
	Version string      `yaml:"version"`
	Layout  LayoutSpec  `yaml:"layout"`
	Scenes  []SceneSpec `yaml:"scenes"`
}

// LayoutSpec controls the path geometry; zero values fall back to defaults
type LayoutSpec struct {
	Spacing     float64 `yaml:"spacing,omitempty"`     // Distance between scenes along the path
	Perspective float64 `yaml:"perspective,omitempty"` // Viewer distance used for depth scaling
}

// SceneSpec is one panel of the journey
type SceneSpec struct {
	ID    int    `yaml:"id"`
	Title string `yaml:"title"`
	Page  int    `yaml:"page"`           // Source page (0-based)
	Link  string `yaml:"link,omitempty"` // Call-to-action URL rendered as a QR code
}

// DefaultStoryboard maps every source page to a scene, in order
func DefaultStoryboard(pageCount int) *Storyboard {
	sb := &Storyboard{Version: "1.0"}
	for i := 0; i < pageCount; i++ {
		sb.Scenes = append(sb.Scenes, SceneSpec{
			ID:    i + 1,
			Title: fmt.Sprintf("Scene %d", i+1),
			Page:  i,
		})
	}
	return sb
}

// Validate checks the storyboard against the number of available pages
func (sb *Storyboard) Validate(pageCount int) error {
	if len(sb.Scenes) == 0 {
		return fmt.Errorf("storyboard has no scenes")
	}
	for i, s := range sb.Scenes {
		if s.Page < 0 || s.Page >= pageCount {
			return fmt.Errorf("scene %d (%q): page %d out of range [0,%d)", i+1, s.Title, s.Page, pageCount)
		}
	}
	if sb.Layout.Spacing < 0 || sb.Layout.Perspective < 0 {
		return fmt.Errorf("layout values must not be negative")
	}
	return nil
}

// Titles returns scene titles in order, for navigation labels
func (sb *Storyboard) Titles() []string {
	titles := make([]string, len(sb.Scenes))
	for i, s := range sb.Scenes {
		titles[i] = s.Title
	}
	return titles
}

// FinalLink returns the call-to-action link of the last scene, if any
func (sb *Storyboard) FinalLink() string {
	if len(sb.Scenes) == 0 {
		return ""
	}
	return sb.Scenes[len(sb.Scenes)-1].Link
}
