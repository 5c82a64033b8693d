package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera looks down -Z at the z=0 plane from Distance. Points on that plane are
// projected with a single scale factor; the eyes are shallow enough that depth
// within a sphere is ignored.
type Camera struct {
	Width, Height int
	Distance      float64
	// vertical, degrees
	FieldOfView float64
}

// Scale is the number of surface pixels per scene unit on the z=0 plane.
func (c Camera) Scale() float64 {
	visible := 2 * c.Distance * math.Tan(mgl64.DegToRad(c.FieldOfView)/2)
	return float64(c.Height) / visible
}

// Project returns the surface pixel for a scene point, origin top-left.
func (c Camera) Project(p mgl64.Vec3) (x, y float64) {
	s := c.Scale()
	return float64(c.Width)/2 + p.X()*s, float64(c.Height)/2 - p.Y()*s
}

// Unproject is the inverse of Project for points on the z=0 plane.
func (c Camera) Unproject(x, y float64) mgl64.Vec3 {
	s := c.Scale()
	return mgl64.Vec3{(x - float64(c.Width)/2) / s, (float64(c.Height)/2 - y) / s, 0}
}
