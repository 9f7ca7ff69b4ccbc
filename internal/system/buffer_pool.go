package system

import (
	"image"
	"sync"
)

// ImagePool reuses *image.RGBA frames of the same size to keep the garbage
// collector out of the per-frame render loop.
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// Get returns a frame of size rect. Its content is undefined.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put hands img back. Frames of a size never requested are dropped.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
