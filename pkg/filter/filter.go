// Package filter implements the separable, radially-symmetric
// reconstruction filters used to splat path-traced samples onto the pixel
// grid.
package filter

import "math"

// resolution is the number of entries in the precomputed evaluation table,
// matching the reference renderer's 32-entry lookup table.
const resolution = 32

// Filter is a separable, radially-symmetric reconstruction filter with
// support radius Radius. Eval must return 0 for |x| >= Radius and must
// never return a negative value.
type Filter struct {
	Radius float64
	table  [resolution + 1]float64
	evalFn func(x float64) float64
}

// Eval evaluates the filter exactly at offset x.
func (f *Filter) Eval(x float64) float64 {
	return f.evalFn(x)
}

// EvalDiscretised evaluates the filter via nearest-entry lookup in the
// precomputed table; this is what the renderer uses when splatting, since
// it is called once per (pixel, sample) pair inside the innermost loop.
func (f *Filter) EvalDiscretised(x float64) float64 {
	idx := int(math.Abs(x) * (resolution / f.Radius))
	if idx > resolution {
		idx = resolution
	}
	return f.table[idx]
}

func (f *Filter) buildTable() {
	for i := 0; i <= resolution; i++ {
		x := f.Radius * float64(i) / resolution
		v := f.evalFn(x)
		if v < 0 {
			v = 0
		}
		f.table[i] = v
	}
}

// NewGaussian builds the reference truncated-Gaussian filter:
// max(0, exp(alpha*x^2) - exp(alpha*r^2)) with alpha = -1/(2*sigma^2),
// r = 4*sigma.
func NewGaussian(sigma float64) *Filter {
	radius := 4 * sigma
	alpha := -1 / (2 * sigma * sigma)
	bias := math.Exp(alpha * radius * radius)
	f := &Filter{Radius: radius}
	f.evalFn = func(x float64) float64 {
		v := math.Exp(alpha*x*x) - bias
		if v < 0 {
			return 0
		}
		return v
	}
	f.buildTable()
	return f
}

// NewBox builds a trivial box filter of the given radius, useful for tests
// and as a degenerate baseline.
func NewBox(radius float64) *Filter {
	f := &Filter{Radius: radius}
	f.evalFn = func(x float64) float64 {
		if math.Abs(x) >= radius {
			return 0
		}
		return 1
	}
	f.buildTable()
	return f
}
