package shape

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
)

// sampleDirectFromPosition converts a shape's area-measure position
// sample into a solid-angle DirectIllumSample as seen from ref, via the
// dist^2/|cos(theta_light)| Jacobian. Every concrete shape in this
// package routes SampleDirect through this helper rather than
// implementing a specialised solid-angle sampler (e.g. a sphere's
// subtended-cone sampling): simpler, fully general, and only costs
// sampling efficiency on shapes that are small or distant relative to
// ref, not correctness.
func sampleDirectFromPosition(shape interaction.Shape, ref interaction.SurfaceInteraction, u core.Vec2) interaction.DirectIllumSample {
	ps := shape.SamplePosition(u)
	if ps.Pdf <= 0 {
		return interaction.DirectIllumSample{}
	}
	d := ps.P.Subtract(ref.P)
	dist2 := d.Dot(d)
	if dist2 == 0 {
		return interaction.DirectIllumSample{}
	}
	dist := math.Sqrt(dist2)
	dir := d.Multiply(1 / dist)
	cosAtLight := math.Abs(dir.Dot(ps.N))
	if cosAtLight < 1e-7 {
		return interaction.DirectIllumSample{}
	}
	solidAnglePdf := ps.Pdf * dist2 / cosAtLight
	return interaction.DirectIllumSample{
		P: ps.P, N: ps.N, UV: ps.UV, Pdf: solidAnglePdf, Delta: ps.Delta,
		RefP: ref.P, D: dir, Dist: dist,
	}
}

// pdfDirectFromPosition is the density counterpart of
// sampleDirectFromPosition, reapplying the same Jacobian to the shape's
// constant area-measure pdf.
func pdfDirectFromPosition(areaPdf float64, ds interaction.DirectIllumSample) float64 {
	cosAtLight := math.Abs(ds.D.Dot(ds.N))
	if cosAtLight < 1e-7 {
		return 0
	}
	return areaPdf * ds.Dist * ds.Dist / cosAtLight
}

// Distribution1D is a piecewise-constant 1-D distribution over a
// discrete set of non-negative weights, used to importance-sample
// triangles proportional to their area.
type Distribution1D struct {
	weights []float64
	cdf     []float64
	total   float64
}

func NewDistribution1D(weights []float64) *Distribution1D {
	d := &Distribution1D{weights: weights, cdf: make([]float64, len(weights)+1)}
	sum := 0.0
	for i, w := range weights {
		sum += w
		d.cdf[i+1] = sum
	}
	d.total = sum
	if sum > 0 {
		for i := range d.cdf {
			d.cdf[i] /= sum
		}
	}
	return d
}

// SampleDiscrete returns an index drawn proportional to its weight, the
// probability mass that index carries, and u remapped to a fresh
// uniform value within the selected interval (the standard
// randomness-reuse trick: CDF inversion's remainder is itself uniform
// and independent of which interval was chosen).
func (d *Distribution1D) SampleDiscrete(u float64) (index int, pdf float64, uRemapped float64) {
	if d.total <= 0 || len(d.weights) == 0 {
		return 0, 0, 0
	}
	lo, hi := 0, len(d.weights)
	for lo < hi {
		mid := (lo + hi) / 2
		if d.cdf[mid+1] <= u {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(d.weights) {
		lo = len(d.weights) - 1
	}
	width := d.cdf[lo+1] - d.cdf[lo]
	if width > 0 {
		uRemapped = (u - d.cdf[lo]) / width
	}
	return lo, d.weights[lo] / d.total, uRemapped
}

func (d *Distribution1D) Total() float64 { return d.total }
