package renderer

import "time"

// entranceLift is how far (in pixels at scale 1) an entering panel rises
const entranceLift = 40.0

// Entrance describes the entrance effect of a scene at one moment
type Entrance struct {
	Lift    float64 // Vertical offset still to cover, in pixels
	Opacity float64 // Multiplier applied to the panel opacity
}

// EntranceAt computes the entrance effect elapsed into a window of length
// window. Outside the window the effect is neutral.
func EntranceAt(elapsed, window time.Duration) Entrance {
	if window <= 0 || elapsed >= window || elapsed < 0 {
		return Entrance{Opacity: 1}
	}
	t := easeInOutCubic(float64(elapsed) / float64(window))
	return Entrance{
		Lift:    lerp(entranceLift, 0, t),
		Opacity: lerp(0.4, 1, t),
	}
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
