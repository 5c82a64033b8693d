package render

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/iburimskiy/canvas-eyes/internal/eyes"
	"github.com/iburimskiy/canvas-eyes/internal/texture"
)

// ambient is the brightness of the sphere rim, which faces away from the light.
const ambient = 0.55

// Shader colors the visible half of one eye sphere.
type Shader struct {
	tex *texture.Texture
	// view space to mesh space
	inv mgl64.Mat3
}

// NewShader prepares a shader for eye. Rotations apply X first, then Y, the same
// order the eye mesh uses, so the inverse is Y⁻¹ then X⁻¹.
func NewShader(tex *texture.Texture, eye eyes.Eye) Shader {
	return Shader{
		tex: tex,
		inv: mgl64.Rotate3DY(-eye.Yaw).Mul3(mgl64.Rotate3DX(-eye.Pitch)),
	}
}

// At shades the sphere point seen at (nx, ny), an offset from the eye center in
// units of the eye radius, Y up. It reports false outside the silhouette.
func (s Shader) At(nx, ny float64) (color.RGBA, bool) {
	d2 := nx*nx + ny*ny
	if d2 > 1 {
		return color.RGBA{}, false
	}
	nz := math.Sqrt(1 - d2)
	u, v := sphereUV(s.inv.Mul3x1(mgl64.Vec3{nx, ny, nz}))

	c := s.tex.Sample(u, v)
	light := ambient + (1-ambient)*nz
	return color.RGBA{
		R: uint8(float64(c.R) * light),
		G: uint8(float64(c.G) * light),
		B: uint8(float64(c.B) * light),
		A: 0xFF,
	}, true
}

// sphereUV maps a mesh-space direction onto the texture. The mesh looks down -X
// at rest, which lands on the texture center.
func sphereUV(d mgl64.Vec3) (u, v float64) {
	u = 0.5 + math.Atan2(-d.Z(), -d.X())/(2*math.Pi)
	v = 0.5 - math.Asin(mgl64.Clamp(d.Y(), -1, 1))/math.Pi
	return u, v
}

// FillDisc draws the eye into dst, which is treated as the sphere's bounding
// square. Pixels outside the silhouette become transparent.
func FillDisc(dst *image.RGBA, s Shader) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		ny := 1 - 2*(float64(y-b.Min.Y)+0.5)/h
		for x := b.Min.X; x < b.Max.X; x++ {
			nx := 2*(float64(x-b.Min.X)+0.5)/w - 1
			c, ok := s.At(nx, ny)
			i := dst.PixOffset(x, y)
			if !ok {
				dst.Pix[i+0], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 0, 0, 0, 0
				continue
			}
			dst.Pix[i+0] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = c.A
		}
	}
}
