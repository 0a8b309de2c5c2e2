package bsdf

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Diffuse is a Lambertian reflector: cosine-weighted hemisphere sampling
// with pdf = cos(theta)/pi, the reference diffuse BSDF.
type Diffuse struct {
	Reflectance spectrum.Spectrum
}

func NewDiffuse(reflectance spectrum.Spectrum) *Diffuse {
	return &Diffuse{Reflectance: reflectance}
}

func (d *Diffuse) Flags() interaction.BSDFFlags { return interaction.FlagDiffuseReflection }

func (d *Diffuse) ComponentFlags(i int) interaction.BSDFFlags { return d.Flags() }

func (d *Diffuse) ComponentCount() int { return 1 }

func (d *Diffuse) Sample(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, sample1 float64, sample2 core.Vec2) (interaction.BSDFSample, spectrum.Spectrum) {
	cosThetaI := core.CosTheta(si.Wi)
	if cosThetaI <= 0 || !ctx.IsEnabled(d.Flags(), 0) {
		return interaction.BSDFSample{}, spectrum.Black
	}

	wo := core.SquareToCosineHemisphere(sample2.X, sample2.Y)
	pdf := core.SquareToCosineHemispherePDF(wo)
	if pdf <= 0 {
		return interaction.BSDFSample{}, spectrum.Black
	}

	bs := interaction.BSDFSample{Wo: wo, Pdf: pdf, Eta: 1, SampledType: d.Flags(), SampledComponent: 0}
	// The cosine-hemisphere pdf and the cos(theta_o) factor in f cancel
	// exactly, leaving the flat reflectance as the one-sample weight.
	return bs, d.Reflectance
}

func (d *Diffuse) Eval(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) spectrum.Spectrum {
	cosThetaI := core.CosTheta(si.Wi)
	cosThetaO := core.CosTheta(wo)
	if cosThetaI <= 0 || cosThetaO <= 0 || !ctx.IsEnabled(d.Flags(), 0) {
		return spectrum.Black
	}
	return d.Reflectance.Scale(float32(core.InvPi * cosThetaO))
}

func (d *Diffuse) Pdf(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) float64 {
	cosThetaI := core.CosTheta(si.Wi)
	cosThetaO := core.CosTheta(wo)
	if cosThetaI <= 0 || cosThetaO <= 0 || !ctx.IsEnabled(d.Flags(), 0) {
		return 0
	}
	return core.SquareToCosineHemispherePDF(wo)
}
