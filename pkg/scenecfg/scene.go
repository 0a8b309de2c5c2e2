// Package scenecfg assembles shapes, emitters, the sensor, the
// acceleration structure and an optional environment emitter into the
// single Scene object an integrator queries.
package scenecfg

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Scene owns every piece of immutable state an integrator reads during
// rendering: shapes, emitters, the sensor, the acceleration structure,
// an optional infinite/environment emitter, and the scene's aggregate
// bounding box.
type Scene struct {
	Shapes      []interaction.Shape
	Emitters    []interaction.Emitter // every emitter, including Environment if present
	Environment interaction.Emitter   // nil if the scene has no environment light
	Sensor      interaction.Sensor
	Accel       interaction.Accel
	Bbox        core.AABB
}

// New assembles a Scene. emitters should already include every
// shape-attached emitter the caller collected while building shapes, plus
// environment if non-nil.
func New(shapes []interaction.Shape, emitters []interaction.Emitter, environment interaction.Emitter, sensor interaction.Sensor, accel interaction.Accel, bbox core.AABB) *Scene {
	return &Scene{
		Shapes: shapes, Emitters: emitters, Environment: environment,
		Sensor: sensor, Accel: accel, Bbox: bbox,
	}
}

// RayIntersect finds the closest-hit surface interaction, or a T=+Inf
// miss.
func (s *Scene) RayIntersect(ray core.Ray) interaction.SurfaceInteraction {
	pi := s.Accel.ClosestHit(ray)
	return pi.ComputeSurfaceInteraction(ray)
}

// RayTest reports whether ray hits anything at all (shadow/occlusion
// query).
func (s *Scene) RayTest(ray core.Ray) bool {
	return s.Accel.AnyHit(ray)
}

// zeroMintSegment builds a ray with Mint pinned to 0, so a medium's
// EvalTransmittance (which measures distance as Maxt-Mint) sees exactly
// the requested travel distance rather than NewRay's default
// self-intersection offset.
func zeroMintSegment(origin, d core.Vec3, dist float64) core.Ray {
	r := core.NewRay(origin, d)
	r.Mint = 0
	r.Maxt = dist
	return r
}

// visibilityRay builds the shadow ray from ref toward a direct-illumination
// sample, using the mint/maxt convention spelled out for visibility tests:
// mint = RayEpsilon*(1+max|ref.p|), maxt = dist*(1-ShadowEpsilon).
func visibilityRay(refP core.Vec3, ds interaction.DirectIllumSample) core.Ray {
	return core.SpawnShadowRay(refP, ds.D, ds.Dist)
}

// SampleEmitterDirect selects an emitter uniformly at random, rescales
// the primary random value into that emitter's own sample space, and
// optionally tests visibility before returning a nonzero weight.
func (s *Scene) SampleEmitterDirect(ref interaction.SurfaceInteraction, u core.Vec2, testVisibility bool) (interaction.DirectIllumSample, spectrum.Spectrum) {
	n := len(s.Emitters)
	if n == 0 {
		return interaction.DirectIllumSample{}, spectrum.Black
	}

	var ds interaction.DirectIllumSample
	var weight spectrum.Spectrum
	if n == 1 {
		ds, weight = s.Emitters[0].SampleDirect(ref, u)
	} else {
		selectPdf := 1.0 / float64(n)
		idx := int(u.X * float64(n))
		if idx >= n {
			idx = n - 1
		}
		remapped := (u.X - float64(idx)*selectPdf) * float64(n)
		ds, weight = s.Emitters[idx].SampleDirect(ref, core.Vec2{X: remapped, Y: u.Y})
		ds.Pdf *= selectPdf
		weight = weight.Scale(float32(n))
	}

	if ds.Pdf <= 0 {
		return ds, spectrum.Black
	}

	if testVisibility {
		if s.RayTest(visibilityRay(ref.P, ds)) {
			return ds, spectrum.Black
		}
	}
	return ds, weight
}

// PdfEmitterDirect returns the solid-angle density matching
// SampleEmitterDirect, dispatching to the emitter recorded on ds and
// folding in the 1/N selection probability.
func (s *Scene) PdfEmitterDirect(ds interaction.DirectIllumSample) float64 {
	n := len(s.Emitters)
	if n == 0 || ds.Emitter == nil {
		return 0
	}
	p := ds.Emitter.PdfDirect(ds)
	if n == 1 {
		return p
	}
	return p / float64(n)
}

// SampleAttenuatedEmitterDirect behaves like SampleEmitterDirect but
// multiplies the returned weight through every medium-transition surface
// between ref and the sampled point instead of doing a single binary
// visibility test, per the attenuated-visibility contract: any
// BSDF-bearing surface in between still makes the sample fully
// occluded.
func (s *Scene) SampleAttenuatedEmitterDirect(ref interaction.SurfaceInteraction, medium interaction.Medium, u core.Vec2) (interaction.DirectIllumSample, spectrum.Spectrum) {
	ds, weight := s.SampleEmitterDirect(ref, u, false)
	if ds.Pdf <= 0 || weight.IsBlack() {
		return ds, spectrum.Black
	}

	transmittance, occluded := s.evalAttenuatedVisibility(ref.P, ds, medium)
	if occluded {
		return ds, spectrum.Black
	}
	return ds, weight.Mul(transmittance)
}

// evalAttenuatedVisibility steps through intersections between origin
// and the sampled point, multiplying transmittance by every
// medium-transition surface's eval_transmittance and swapping the
// current medium across each boundary; a BSDF-bearing surface in the
// way makes the query fully occluded.
func (s *Scene) evalAttenuatedVisibility(origin core.Vec3, ds interaction.DirectIllumSample, medium interaction.Medium) (spectrum.Spectrum, bool) {
	transmittance := spectrum.White
	p := origin
	remaining := ds.Dist
	currentMedium := medium

	const maxSteps = 64
	for step := 0; step < maxSteps; step++ {
		ray := core.SpawnShadowRay(p, ds.D, remaining)
		si := s.RayIntersect(ray)
		if !si.IsValid() {
			if currentMedium != nil {
				transmittance = transmittance.Mul(currentMedium.EvalTransmittance(zeroMintSegment(p, ds.D, remaining)))
			}
			return transmittance, false
		}

		if !si.IsMediumTransition() {
			return spectrum.Black, true
		}

		if currentMedium != nil {
			traveledToHit := si.P.Subtract(p).Length()
			transmittance = transmittance.Mul(currentMedium.EvalTransmittance(zeroMintSegment(p, ds.D, traveledToHit)))
		}

		currentMedium = si.TargetMedium(ds.D)
		traveled := si.P.Subtract(p).Length()
		remaining -= traveled
		p = si.P
		if remaining <= core.RayEpsilon {
			return transmittance, false
		}
	}
	return spectrum.Black, true
}
