package effects

import (
	"fmt"
	"image"
	"log"
	"sync"
)

// Guarded isolates a backdrop: an error or panic switches it off for the
// rest of the recording instead of aborting the frame.
type Guarded struct {
	Inner Backdrop

	mu       sync.Mutex
	disabled bool
	cause    error
}

func Guard(b Backdrop) *Guarded {
	return &Guarded{Inner: b}
}

// Draw reports whether the backdrop drew anything
func (g *Guarded) Draw(dst *image.RGBA, progress, seconds float64) bool {
	if g.Disabled() {
		return false
	}
	return g.Attempt(dst, progress, seconds)
}

// Attempt draws even if an earlier frame switched the backdrop off. Frames
// rendered in parallel use it after one shared Disabled check, so a failure
// in one of them does not change what its siblings draw.
func (g *Guarded) Attempt(dst *image.RGBA, progress, seconds float64) (drawn bool) {
	if g == nil || g.Inner == nil {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			g.disable(fmt.Errorf("panic: %v", r))
			drawn = false
		}
	}()

	if err := g.Inner.Draw(dst, progress, seconds); err != nil {
		g.disable(err)
		return false
	}
	return true
}

// Disabled is true for a nil or empty guard too
func (g *Guarded) Disabled() bool {
	if g == nil || g.Inner == nil {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disabled
}

// Err returns why the backdrop was switched off
func (g *Guarded) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cause
}

func (g *Guarded) disable(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disabled {
		return
	}
	g.disabled = true
	g.cause = err
	log.Printf("[!] Фон отключен: %v", err)
}
