package interaction

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// MediumInteraction is a position along a ray inside a participating
// medium. A failed/"sampled past surface" query is represented by
// T == +Inf, matching SurfaceInteraction's miss convention.
type MediumInteraction struct {
	P   core.Vec3
	T   float64
	Wi  core.Vec3 // incident direction, world space

	SigmaS, SigmaA spectrum.Spectrum
	Transmittance  spectrum.Spectrum

	Medium Medium
}

// SigmaT returns the combined extinction coefficient sigma_s + sigma_a.
func (mi MediumInteraction) SigmaT() spectrum.Spectrum {
	return mi.SigmaS.Add(mi.SigmaA)
}

// IsValid reports whether the medium sampled an interaction strictly
// inside the traversed segment.
func (mi MediumInteraction) IsValid() bool {
	return !math.IsInf(mi.T, 1)
}

// SpawnRay constructs a ray leaving this interaction's position in
// world-space direction d.
func (mi MediumInteraction) SpawnRay(d core.Vec3) core.Ray {
	return core.SpawnRay(mi.P, d)
}
