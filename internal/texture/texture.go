package texture

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

// MaxSize bounds the longest side of a loaded texture.
const MaxSize = 1024

// Texture is an equirectangular map wrapped around an eye sphere. The point at
// u=0.5, v=0.5 faces the viewer when the eye is at rest.
type Texture struct {
	img *image.RGBA
}

// FromImage copies src into a texture, scaling it down if it exceeds MaxSize.
func FromImage(src image.Image) *Texture {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > MaxSize || h > MaxSize {
		scale := float64(MaxSize) / math.Max(float64(w), float64(h))
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
		return &Texture{img: dst}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return &Texture{img: dst}
}

func (t *Texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Sample does a nearest-neighbour lookup. u wraps around, v is clamped. An
// empty texture samples as transparent.
func (t *Texture) Sample(u, v float64) color.RGBA {
	w, h := t.Size()
	if w == 0 || h == 0 {
		return color.RGBA{}
	}
	u -= math.Floor(u)
	x := int(u * float64(w))
	y := int(v * float64(h))
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)
	i := t.img.PixOffset(x, y)
	p := t.img.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}
