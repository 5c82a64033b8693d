package game

import (
	"sync"

	"github.com/iburimskiy/canvas-eyes/internal/eyes"
)

// frameTap receives frames from the render loop and keeps the most recent one
// so Draw can pick it up on the ebiten goroutine.
type frameTap struct {
	mu      sync.RWMutex
	frame   eyes.Frame
	present bool
	count   uint64
}

func newFrameTap() *frameTap {
	return &frameTap{}
}

func (t *frameTap) Present(frame eyes.Frame) {
	t.mu.Lock()
	t.frame = frame
	t.present = true
	t.count++
	t.mu.Unlock()
}

// snapshot returns the latest frame and whether any frame has arrived yet.
func (t *frameTap) snapshot() (eyes.Frame, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frame, t.present
}

func (t *frameTap) frames() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}
