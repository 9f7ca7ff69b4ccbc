package config

import (
	"fmt"
	"time"
)

type Config struct {
	InputPath      string
	OutputVideo    string
	StoryboardPath string
	ScriptPath     string
	TimelinePath   string // When set, only the timeline is written
	TourOutput     string // When set, only the generated tour script is written
	TotalDuration  float64
	Width          int
	Height         int
	FPS            int
	Workers        int
	DPI            int
	Spacing        float64
	Perspective    float64
	AudioPath      string
	Preset         string
	VideoEncoder   string
	Quality        int
	ShowStats      bool
	NoBackdrop     bool
	BuildVersion   string
}

// FrameParams describes the output raster every consumer draws into
type FrameParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	SceneCount    int
}

// FrameInterval is the simulated time between two ticks
func (p FrameParams) FrameInterval() time.Duration {
	if p.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(p.FPS)
}

// FrameCount is the number of frames covering Duration
func (p FrameParams) FrameCount() int {
	n := int(p.Duration*float64(p.FPS) + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// MaxFPS bounds both recording and the live tick loop
const MaxFPS = 240

// ValidateFPS accepts 1..MaxFPS
func ValidateFPS(fps int) error {
	if fps <= 0 || fps > MaxFPS {
		return fmt.Errorf("invalid fps %d, want 1..%d", fps, MaxFPS)
	}
	return nil
}

// Validate rejects values no renderer can work with
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("size %dx%d must be even for yuv420p", c.Width, c.Height)
	}
	if err := ValidateFPS(c.FPS); err != nil {
		return err
	}
	if c.Spacing < 0 || c.Perspective < 0 {
		return fmt.Errorf("spacing and perspective must not be negative")
	}
	return nil
}

// Params derives frame parameters for a recording
func (c *Config) Params(sceneCount int, duration float64) FrameParams {
	return FrameParams{
		Width:      c.Width,
		Height:     c.Height,
		FPS:        c.FPS,
		Duration:   duration,
		SceneCount: sceneCount,
	}
}
