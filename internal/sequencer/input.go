package sequencer

import (
	"fmt"
	"time"
)

// Modality identifies the device an input came from. Pending snap timers are
// tracked per modality.
type Modality int

const (
	Wheel Modality = iota
	Touch
	Keyboard
	Nav
)

func (m Modality) String() string {
	switch m {
	case Wheel:
		return "wheel"
	case Touch:
		return "touch"
	case Keyboard:
		return "keyboard"
	case Nav:
		return "nav"
	}
	return fmt.Sprintf("modality(%d)", int(m))
}

// Kind is the sequencer-level meaning of an input.
type Kind int

const (
	Scroll Kind = iota
	DragStart
	DragDelta
	DragEnd
	JumpTo
	Step
)

func (k Kind) String() string {
	switch k {
	case Scroll:
		return "scroll"
	case DragStart:
		return "drag_start"
	case DragDelta:
		return "drag"
	case DragEnd:
		return "drag_end"
	case JumpTo:
		return "jump"
	case Step:
		return "step"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Direction for Step inputs.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Debounce windows after which continuous input snaps to a scene.
const (
	WheelSnapDelay = 150 * time.Millisecond
	TouchSnapDelay = 100 * time.Millisecond
)

// Device unit scales for converting raw wheel/touch deltas into progress.
const (
	wheelScale = 0.001
	touchScale = 0.004
)

// Input is one event fed into Apply.
type Input struct {
	Kind      Kind
	Delta     float64   // Scroll, DragDelta
	Scene     int       // JumpTo
	Direction Direction // Step
}

// Modality reports which device class the input belongs to.
func (in Input) Modality() Modality {
	switch in.Kind {
	case Scroll:
		return Wheel
	case DragStart, DragDelta, DragEnd:
		return Touch
	case Step:
		return Keyboard
	default:
		return Nav
	}
}

func (in Input) String() string {
	switch in.Kind {
	case Scroll, DragDelta:
		return fmt.Sprintf("%s(%+.4f)", in.Kind, in.Delta)
	case JumpTo:
		return fmt.Sprintf("%s(%d)", in.Kind, in.Scene)
	case Step:
		if in.Direction == Backward {
			return "step(backward)"
		}
		return "step(forward)"
	}
	return in.Kind.String()
}

func ScrollBy(delta float64) Input { return Input{Kind: Scroll, Delta: delta} }
func DragBy(delta float64) Input   { return Input{Kind: DragDelta, Delta: delta} }
func BeginDrag() Input             { return Input{Kind: DragStart} }
func EndDrag() Input               { return Input{Kind: DragEnd} }
func Jump(scene int) Input         { return Input{Kind: JumpTo, Scene: scene} }
func StepBy(dir Direction) Input   { return Input{Kind: Step, Direction: dir} }

// WheelDelta converts a wheel deltaY (pixels) into a progress delta.
func WheelDelta(deltaY float64) float64 {
	return deltaY * wheelScale
}

// TouchDelta converts a finger move from lastY to y into a progress delta.
// Moving the finger up advances.
func TouchDelta(lastY, y float64) float64 {
	return (lastY - y) * touchScale
}
