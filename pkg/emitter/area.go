// Package emitter implements the Emitter contract (interaction.Emitter):
// area lights attached to shapes and environment lights bound to the
// scene's bounding sphere.
package emitter

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Area is a light source attached to a shape's surface, emitting a
// constant radiance over its front side (the side the shape's geometric
// normal points toward).
type Area struct {
	Shape    interaction.Shape
	Radiance spectrum.Spectrum
}

func NewArea(shape interaction.Shape, radiance spectrum.Spectrum) *Area {
	return &Area{Shape: shape, Radiance: radiance}
}

func (a *Area) Flags() interaction.EmitterFlags { return interaction.EmitterSurface }

// SampleRay samples a position uniformly over the shape's area and a
// cosine-weighted direction in its hemisphere, returning the ray and the
// emitted power L*area*pi/pdf it carries (area-to-cosine pdf cancels
// against the cosine-hemisphere pdf, leaving radiance*pi/ps.Pdf).
func (a *Area) SampleRay(u2a, u2b core.Vec2) (core.Ray, spectrum.Spectrum) {
	ps := a.Shape.SamplePosition(u2a)
	if ps.Pdf <= 0 {
		return core.Ray{}, spectrum.Black
	}
	frame := core.NewFrame(ps.N)
	local := core.SquareToCosineHemisphere(u2b.X, u2b.Y)
	d := frame.ToWorld(local)

	power := a.Radiance.Scale(float32(core.Pi / ps.Pdf))
	return core.NewRay(ps.P, d), power
}

// SampleDirect forwards to the owning shape's solid-angle sample and
// emits radiance when the sampled point's geometric normal faces ref.
func (a *Area) SampleDirect(ref interaction.SurfaceInteraction, u core.Vec2) (interaction.DirectIllumSample, spectrum.Spectrum) {
	ds := a.Shape.SampleDirect(ref, u)
	ds.Emitter = a
	if ds.Pdf <= 0 || ds.D.Dot(ds.N) >= 0 {
		ds.Pdf = 0
		return ds, spectrum.Black
	}
	return ds, a.Radiance.Scale(float32(1 / ds.Pdf))
}

func (a *Area) PdfDirect(ds interaction.DirectIllumSample) float64 {
	return a.Shape.PdfDirect(ds)
}

// Eval returns the emitted radiance toward si.Wi, zero on the back side.
func (a *Area) Eval(si interaction.SurfaceInteraction) spectrum.Spectrum {
	if core.CosTheta(si.Wi) <= 0 {
		return spectrum.Black
	}
	return a.Radiance
}
