// Package texture implements the Texture contract BSDF/emitter leaves
// sample from: a spatially-varying spectrum or scalar, keyed by a
// surface interaction's UV coordinates. The texture types are Constant
// and Bitmap; LoadWebP (webp.go) is the one image reader, decoding into
// a Bitmap.
package texture

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Texture3 evaluates a spectrum-valued quantity at a surface point.
type Texture3 interface {
	Eval3(uv core.Vec2) spectrum.Spectrum
}

// Texture1 evaluates a scalar quantity at a surface point (roughness,
// opacity).
type Texture1 interface {
	Eval1(uv core.Vec2) float64
}

// Constant3 is a spatially-uniform spectrum texture.
type Constant3 struct{ Value spectrum.Spectrum }

func NewConstant3(v spectrum.Spectrum) Constant3 { return Constant3{Value: v} }

func (c Constant3) Eval3(uv core.Vec2) spectrum.Spectrum { return c.Value }

// Constant1 is a spatially-uniform scalar texture.
type Constant1 struct{ Value float64 }

func NewConstant1(v float64) Constant1 { return Constant1{Value: v} }

func (c Constant1) Eval1(uv core.Vec2) float64 { return c.Value }

// Bitmap is a spectrum texture backed by a decoded image: row-major,
// top-to-bottom pixels sampled with nearest-neighbor filtering and
// wrapped UVs, following the reference image texture's sampling
// convention (V=0 at the bottom).
type Bitmap struct {
	Width, Height int
	Pixels        []spectrum.Spectrum
}

func NewBitmap(width, height int, pixels []spectrum.Spectrum) *Bitmap {
	return &Bitmap{Width: width, Height: height, Pixels: pixels}
}

func (b *Bitmap) Eval3(uv core.Vec2) spectrum.Spectrum {
	u := wrap01(uv.X)
	v := wrap01(uv.Y)

	x := clampIndex(int(u*float64(b.Width)), b.Width)
	y := clampIndex(int((1-v)*float64(b.Height)), b.Height)
	return b.Pixels[y*b.Width+x]
}

func wrap01(v float64) float64 {
	v -= float64(int(v))
	if v < 0 {
		v += 1
	}
	return v
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
