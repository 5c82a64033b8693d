package eyes

import (
	"sync"

	"github.com/iburimskiy/canvas-eyes/internal/gaze"
)

// Eye is one eyeball: a fixed center and its current gaze.
type Eye struct {
	Center gaze.Point3
	Yaw    float64
	Pitch  float64
}

// Frame is a consistent snapshot of both eyes.
type Frame struct {
	Left  Eye
	Right Eye
}

// Pair owns the two eyes, placed symmetrically about x=0.
type Pair struct {
	mu     sync.RWMutex
	radius float64
	layer  float64
	left   Eye
	right  Eye
}

// New places the eyes at (-radius,0,0) and (radius,0,0). Both start looking
// straight ahead. layer is the depth of the plane the pointer moves on.
func New(radius, layer float64) *Pair {
	rest := gaze.Angles{Yaw: gaze.RestingYaw}
	return &Pair{
		radius: radius,
		layer:  layer,
		left:   Eye{Center: gaze.Point3{-radius, 0, 0}, Yaw: rest.Yaw, Pitch: rest.Pitch},
		right:  Eye{Center: gaze.Point3{radius, 0, 0}, Yaw: rest.Yaw, Pitch: rest.Pitch},
	}
}

// Update turns both eyes towards target.
func (p *Pair) Update(target gaze.Point3) {
	l := gaze.Compute(p.left.Center, target)
	r := gaze.Compute(p.right.Center, target)

	p.mu.Lock()
	p.left.Yaw, p.left.Pitch = l.Yaw, l.Pitch
	p.right.Yaw, p.right.Pitch = r.Yaw, r.Pitch
	p.mu.Unlock()
}

func (p *Pair) Frame() Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Frame{Left: p.left, Right: p.right}
}

func (p *Pair) Radius() float64 { return p.radius }

func (p *Pair) Layer() float64 { return p.layer }
