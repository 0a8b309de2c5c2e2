package interaction

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// BSDF represents the local surface-scattering distribution at a point,
// including its Dirac-delta components. Implementations live in
// pkg/bsdf.
type BSDF interface {
	// Sample draws an outgoing direction and returns it alongside the
	// one-sample Monte-Carlo weight f(wi,wo)*|cos(theta_o)|/pdf. If ctx
	// disables every component this BSDF exposes, it returns a sample
	// with Pdf == 0 and a black weight.
	Sample(ctx BSDFContext, si SurfaceInteraction, sample1 float64, sample2 core.Vec2) (BSDFSample, spectrum.Spectrum)

	// Eval returns f(wi,wo)*|cos(theta_o)|, ignoring delta components.
	Eval(ctx BSDFContext, si SurfaceInteraction, wo core.Vec3) spectrum.Spectrum

	// Pdf returns the solid-angle density matching Sample; delta
	// components contribute zero.
	Pdf(ctx BSDFContext, si SurfaceInteraction, wo core.Vec3) float64

	// Flags returns the aggregate flags across every component.
	Flags() BSDFFlags

	// ComponentFlags returns the flags of a single component.
	ComponentFlags(i int) BSDFFlags

	// ComponentCount returns how many distinct components this BSDF
	// exposes.
	ComponentCount() int
}

// PhaseFunction is the local scattering distribution inside a medium; its
// contract mirrors BSDF without the cosine-weighted measure.
type PhaseFunction interface {
	Sample(ctx PhaseFunctionContext, mi MediumInteraction, u core.Vec2) (wo core.Vec3, pdf float64, value float64)
	Eval(ctx PhaseFunctionContext, mi MediumInteraction, wo core.Vec3) float64
	Flags() PhaseFlags
}

// Medium is a participating medium bounded by its enclosing shape(s).
type Medium interface {
	// SampleDistance performs free-flight sampling of a distance along
	// ray within [ray.Mint, ray.Maxt) on the given spectral channel.
	SampleDistance(ray core.Ray, u float64, channel int) (mi MediumInteraction, pdf float64)

	// EvalTransmittance returns exp(-sigma_t * (maxt - mint)) across the
	// ray's full parametric interval.
	EvalTransmittance(ray core.Ray) spectrum.Spectrum

	PhaseFunction() PhaseFunction
}

// Emitter is a light source.
type Emitter interface {
	// SampleRay samples a ray leaving the emitter (forward emission) and
	// the radiant weight L/pdf carried along it.
	SampleRay(u2a, u2b core.Vec2) (core.Ray, spectrum.Spectrum)

	// SampleDirect samples a DirectIllumSample usable for next-event
	// estimation from ref, and the weight L/pdf.
	SampleDirect(ref SurfaceInteraction, u core.Vec2) (DirectIllumSample, spectrum.Spectrum)

	// PdfDirect returns the solid-angle density matching SampleDirect; a
	// delta emitter returns 0, signalling "no MIS competitor".
	PdfDirect(ds DirectIllumSample) float64

	// Eval returns the radiance emitted toward si.Wi as seen from si.
	Eval(si SurfaceInteraction) spectrum.Spectrum

	Flags() EmitterFlags
}

// Shape is a geometric primitive with an optional attached emitter, BSDF,
// and interior/exterior media.
type Shape interface {
	SamplePosition(u core.Vec2) PositionSample
	PdfPosition(ps PositionSample) float64

	SampleDirect(ref SurfaceInteraction, u core.Vec2) DirectIllumSample
	PdfDirect(ds DirectIllumSample) float64

	ComputeSurfaceInteraction(ray core.Ray, pi PreliminaryIntersection) SurfaceInteraction

	Bbox() core.AABB
	SurfaceArea() float64

	BSDF() BSDF
	Emitter() Emitter
	InteriorMedium() Medium
	ExteriorMedium() Medium
}

// Accel is the opaque contract an acceleration structure must satisfy.
type Accel interface {
	ClosestHit(ray core.Ray) PreliminaryIntersection
	AnyHit(ray core.Ray) bool
}

// Sensor is a light-measurement endpoint. pos is a continuous film-space
// pixel sample, lens a [0,1)^2 sample for lens-aperture sampling (unused
// by a thin-lens-free implementation).
type Sensor interface {
	SampleRay(pos, lens core.Vec2) (core.Ray, spectrum.Spectrum)
	SampleRayDifferential(pos, lens core.Vec2) (core.RayDifferential, spectrum.Spectrum)
	Width() int
	Height() int
}
