package bsdf

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
	"github.com/asprenderer/aspirin/pkg/texture"
)

// TexturedDiffuse is Diffuse with the flat reflectance replaced by a
// spatially-varying texture, sampled at the hit's UV coordinates.
type TexturedDiffuse struct {
	Reflectance texture.Texture3
}

func NewTexturedDiffuse(reflectance texture.Texture3) *TexturedDiffuse {
	return &TexturedDiffuse{Reflectance: reflectance}
}

func (d *TexturedDiffuse) Flags() interaction.BSDFFlags { return interaction.FlagDiffuseReflection }

func (d *TexturedDiffuse) ComponentFlags(i int) interaction.BSDFFlags { return d.Flags() }

func (d *TexturedDiffuse) ComponentCount() int { return 1 }

func (d *TexturedDiffuse) Sample(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, sample1 float64, sample2 core.Vec2) (interaction.BSDFSample, spectrum.Spectrum) {
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
	return bs, d.Reflectance.Eval3(si.UV)
}

func (d *TexturedDiffuse) Eval(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) spectrum.Spectrum {
	cosThetaI := core.CosTheta(si.Wi)
	cosThetaO := core.CosTheta(wo)
	if cosThetaI <= 0 || cosThetaO <= 0 || !ctx.IsEnabled(d.Flags(), 0) {
		return spectrum.Black
	}
	return d.Reflectance.Eval3(si.UV).Scale(float32(core.InvPi * cosThetaO))
}

func (d *TexturedDiffuse) Pdf(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) float64 {
	cosThetaI := core.CosTheta(si.Wi)
	cosThetaO := core.CosTheta(wo)
	if cosThetaI <= 0 || cosThetaO <= 0 || !ctx.IsEnabled(d.Flags(), 0) {
		return 0
	}
	return core.SquareToCosineHemispherePDF(wo)
}
