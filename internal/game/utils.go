package game

import (
	"fmt"
	"math"
)

// maxWindowSide keeps the default 1610px surface from overflowing the desktop.
const maxWindowSide = 900

// windowSize scales a surface size down to fit within maxWindowSide, keeping the
// aspect ratio. The logical surface keeps its configured size.
func windowSize(w, h int) (int, int) {
	side := max(w, h)
	if side <= maxWindowSide {
		return w, h
	}
	scale := float64(maxWindowSide) / float64(side)
	return max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
}

// formatAngle formats radians as degrees with one decimal
func formatAngle(rad float64) string {
	return fmt.Sprintf("%6.1f°", rad*180/math.Pi)
}
