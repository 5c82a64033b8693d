package texture

import (
	"image"
	"math"
	"sync"
)

const (
	placeholderWidth  = 256
	placeholderHeight = 128

	pupilAngle = 0.16
	irisAngle  = 0.42
	limbAngle  = 0.47
)

var (
	placeholder     *Texture
	placeholderOnce sync.Once
)

// Placeholder is the built-in eye: a blue-green iris around a black pupil on a
// white sclera. It is shared and must not be modified.
func Placeholder() *Texture {
	placeholderOnce.Do(func() {
		placeholder = &Texture{img: drawPlaceholder(placeholderWidth, placeholderHeight)}
	})
	return placeholder
}

func drawPlaceholder(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		lat := (0.5 - (float64(y)+0.5)/float64(h)) * math.Pi
		for x := 0; x < w; x++ {
			lon := ((float64(x)+0.5)/float64(w) - 0.5) * 2 * math.Pi
			// angular distance from the iris center
			angle := math.Acos(clamp(math.Cos(lat)*math.Cos(lon), -1, 1))
			// direction around the iris, for the radial streaks
			spoke := math.Atan2(lat, lon)

			var r, g, b uint8
			switch {
			case angle < pupilAngle:
				r, g, b = 8, 8, 12
			case angle < irisAngle:
				t := (angle - pupilAngle) / (irisAngle - pupilAngle)
				streak := 0.08 * math.Sin(spoke*24)
				r, g, b = hsvToRgb(185+40*t, 0.65, clamp(0.45+0.35*t+streak, 0, 1))
			case angle < limbAngle:
				r, g, b = 30, 45, 60
			default:
				shade := uint8(245 - 20*clamp(angle/math.Pi, 0, 1))
				r, g, b = shade, shade, shade-5
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 0xFF
		}
	}
	return img
}

// hsvToRgb converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
