package director

import (
	"fmt"
	"math"
)

const (
	burstEvents   = 6     // Wheel events per scene-to-scene scroll
	burstInterval = 0.04  // Seconds between wheel events in a burst
	dragEvents    = 5     // Touch moves per drag
	dragStartY    = 600.0 // Finger position where drags begin
)

// Director generates tour scripts that walk through every scene using each
// input modality
type Director struct {
	SceneCount int
	MinDwell   float64 // Minimum time resting on a scene (seconds)
	MaxDwell   float64 // Maximum time resting on a scene (seconds)
}

// NewDirector creates a new Director with default settings
func NewDirector(sceneCount int) *Director {
	return &Director{
		SceneCount: sceneCount,
		MinDwell:   1.0,
		MaxDwell:   3.0,
	}
}

// Tour creates a script: wheel scrolling forward through every scene, a touch
// drag back, a keyboard step forward and navigation jumps to the middle and
// the end.
func (d *Director) Tour(totalDuration float64) (*Script, error) {
	if d.SceneCount < 1 {
		return nil, fmt.Errorf("no scenes to tour")
	}

	script := &Script{Version: "1.0"}
	currentTime := 1.0 // 1s intro

	if d.SceneCount == 1 {
		script.Events = append(script.Events, Event{At: currentTime, Kind: EventKey, Key: "ArrowDown"})
		script.Duration = currentTime + d.calculateDwellTime(totalDuration, 1)
		return script, nil
	}

	stops := (d.SceneCount - 1) + 4
	dwell := d.calculateDwellTime(totalDuration, stops)
	gap := 1.0 / float64(d.SceneCount-1)

	// Wheel: one burst per scene boundary
	deltaY := gap / 0.001 / burstEvents
	for i := 0; i < d.SceneCount-1; i++ {
		for j := 0; j < burstEvents; j++ {
			script.Events = append(script.Events, Event{
				At:     round3(currentTime + float64(j)*burstInterval),
				Kind:   EventWheel,
				DeltaY: deltaY,
			})
		}
		currentTime += dwell
	}

	// Touch: drag one scene back (finger moves down)
	script.Events = append(script.Events, Event{At: round3(currentTime), Kind: EventTouchStart, Y: dragStartY})
	step := gap / 0.004 / dragEvents
	for j := 1; j <= dragEvents; j++ {
		script.Events = append(script.Events, Event{
			At:   round3(currentTime + float64(j)*burstInterval),
			Kind: EventTouchMove,
			Y:    dragStartY + float64(j)*step,
		})
	}
	script.Events = append(script.Events, Event{
		At:   round3(currentTime + float64(dragEvents+1)*burstInterval),
		Kind: EventTouchEnd,
	})
	currentTime += dwell

	// Keyboard: step forward again
	script.Events = append(script.Events, Event{At: round3(currentTime), Kind: EventKey, Key: "ArrowDown"})
	currentTime += dwell

	// Navigation: middle, then the last scene
	script.Events = append(script.Events, Event{At: round3(currentTime), Kind: EventNav, Scene: d.SceneCount / 2})
	currentTime += dwell
	script.Events = append(script.Events, Event{At: round3(currentTime), Kind: EventNav, Scene: d.SceneCount - 1})
	currentTime += dwell

	script.Duration = round3(currentTime + 1.0) // 1s outro
	return script, nil
}

// calculateDwellTime determines how long to rest on each stop
func (d *Director) calculateDwellTime(totalDuration float64, stops int) float64 {
	// Reserve time for intro/outro
	introOutroDuration := 2.0
	availableDuration := totalDuration - introOutroDuration

	if availableDuration <= 0 {
		availableDuration = totalDuration
	}

	dwellTime := availableDuration / float64(stops)

	// Clamp to min/max
	if dwellTime < d.MinDwell {
		dwellTime = d.MinDwell
	}
	if dwellTime > d.MaxDwell {
		dwellTime = d.MaxDwell
	}

	return dwellTime
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
