package pointer

import "sync"

// Point2 is a pointer position relative to the center of the surface, Y up.
type Point2 struct {
	X, Y float64
}

// Region is the on-screen placement of the rendering surface.
type Region struct {
	Left, Top     float64
	Width, Height float64
}

// Tracker holds the last observed pointer position. Input handlers write to it
// and the render loop reads from it, possibly from different goroutines.
type Tracker struct {
	mu  sync.RWMutex
	pos Point2
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// OnPointerMove recenters device coordinates onto the surface and stores the
// result. Screen Y grows downward, surface Y grows upward.
func (t *Tracker) OnPointerMove(eventX, eventY, originX, originY, width, height float64) {
	p := Point2{
		X: eventX - width/2 - originX,
		Y: height/2 - eventY + originY,
	}
	t.mu.Lock()
	t.pos = p
	t.mu.Unlock()
}

// MoveIn is OnPointerMove for a known surface region.
func (t *Tracker) MoveIn(r Region, eventX, eventY float64) {
	t.OnPointerMove(eventX, eventY, r.Left, r.Top, r.Width, r.Height)
}

func (t *Tracker) Current() Point2 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pos
}
