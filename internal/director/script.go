package director

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ivlev/scenereel/internal/sequencer"
)

// Event kinds as they appear in script files
const (
	EventWheel      = "wheel"
	EventTouchStart = "touch_start"
	EventTouchMove  = "touch_move"
	EventTouchEnd   = "touch_end"
	EventKey        = "key"
	EventNav        = "nav"
)

// Script is a recorded or generated input session
type Script struct {
	Version  string  `yaml:"version"`
	Duration float64 `yaml:"duration"` // Total length in seconds
	Events   []Event `yaml:"events"`
}

// Event is one raw device event at a time offset
type Event struct {
	At     float64 `yaml:"at"`               // Seconds from start
	Kind   string  `yaml:"kind"`             // wheel, touch_start, touch_move, touch_end, key, nav
	DeltaY float64 `yaml:"delta_y,omitempty"` // wheel
	Y      float64 `yaml:"y,omitempty"`       // touch_start, touch_move
	Key    string  `yaml:"key,omitempty"`     // key
	Scene  int     `yaml:"scene,omitempty"`   // nav
}

// Sort orders events by time, keeping the file order for ties
func (s *Script) Sort() {
	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].At < s.Events[j].At
	})
}

// End returns the script length: Duration, or the last event time if longer
func (s *Script) End() float64 {
	end := s.Duration
	for _, ev := range s.Events {
		if ev.At > end {
			end = ev.At
		}
	}
	return end
}

// Validate rejects unknown kinds and negative times
func (s *Script) Validate() error {
	for i, ev := range s.Events {
		if ev.At < 0 {
			return fmt.Errorf("event %d: negative time %.3f", i, ev.At)
		}
		switch ev.Kind {
		case EventWheel, EventTouchStart, EventTouchMove, EventTouchEnd, EventKey, EventNav:
		default:
			return fmt.Errorf("event %d: unknown kind %q", i, ev.Kind)
		}
	}
	return nil
}

// Translator turns raw device events into sequencer inputs. Touch moves are
// relative to the previous finger position, so it keeps that between calls.
type Translator struct {
	lastY float64
}

// Translate converts ev. ok is false for events with no sequencer meaning,
// e.g. keys that do not navigate.
func (t *Translator) Translate(ev Event) (in sequencer.Input, ok bool) {
	switch ev.Kind {
	case EventWheel:
		return sequencer.ScrollBy(sequencer.WheelDelta(ev.DeltaY)), true
	case EventTouchStart:
		t.lastY = ev.Y
		return sequencer.BeginDrag(), true
	case EventTouchMove:
		delta := sequencer.TouchDelta(t.lastY, ev.Y)
		t.lastY = ev.Y
		return sequencer.DragBy(delta), true
	case EventTouchEnd:
		return sequencer.EndDrag(), true
	case EventNav:
		return sequencer.Jump(ev.Scene), true
	case EventKey:
		switch strings.ToLower(ev.Key) {
		case "arrowdown", "arrowright", " ", "space", "pagedown":
			return sequencer.StepBy(sequencer.Forward), true
		case "arrowup", "arrowleft", "pageup":
			return sequencer.StepBy(sequencer.Backward), true
		}
	}
	return sequencer.Input{}, false
}
