package bsdf

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// SmoothDielectric is a perfectly smooth refractive interface: two delta
// lobes (reflection, refraction) selected by a Fresnel-weighted coin
// flip.
type SmoothDielectric struct {
	Eta float64 // relative IOR, interior/exterior
}

func NewSmoothDielectric(intIOR, extIOR float64) *SmoothDielectric {
	return &SmoothDielectric{Eta: intIOR / extIOR}
}

func (s *SmoothDielectric) Flags() interaction.BSDFFlags {
	return interaction.FlagDeltaReflection | interaction.FlagDeltaTransmission
}

func (s *SmoothDielectric) ComponentFlags(i int) interaction.BSDFFlags {
	if i == 0 {
		return interaction.FlagDeltaReflection
	}
	return interaction.FlagDeltaTransmission
}

func (s *SmoothDielectric) ComponentCount() int { return 2 }

func (s *SmoothDielectric) Sample(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, sample1 float64, sample2 core.Vec2) (interaction.BSDFSample, spectrum.Spectrum) {
	cosThetaI := core.CosTheta(si.Wi)
	r, cosThetaT, etaIT, etaTI := DielectricFresnel(cosThetaI, s.Eta)
	t := 1 - r

	reflectEnabled := ctx.IsEnabled(interaction.FlagDeltaReflection, 0)
	transmitEnabled := ctx.IsEnabled(interaction.FlagDeltaTransmission, 1)
	if !reflectEnabled && !transmitEnabled {
		return interaction.BSDFSample{}, spectrum.Black
	}

	selectReflect := true
	switch {
	case reflectEnabled && transmitEnabled:
		selectReflect = sample1 <= r
	case reflectEnabled:
		selectReflect = true
	default:
		selectReflect = false
	}

	if selectReflect {
		wo := core.Vec3{X: -si.Wi.X, Y: -si.Wi.Y, Z: si.Wi.Z}
		bs := interaction.BSDFSample{Wo: wo, Pdf: r, Eta: 1, SampledType: interaction.FlagDeltaReflection, SampledComponent: 0}
		if transmitEnabled {
			// Pdf was selected with probability r among the two
			// branches; the reflectance/r cancels to unity weight.
			return bs, spectrum.White
		}
		return bs, spectrum.White
	}

	// Refraction direction via the standard dielectric refraction
	// formula expressed directly in the local frame.
	wo := core.Vec3{
		X: -etaTI * si.Wi.X,
		Y: -etaTI * si.Wi.Y,
		Z: cosThetaT,
	}
	bs := interaction.BSDFSample{Wo: wo, Pdf: t, Eta: etaIT, SampledType: interaction.FlagDeltaTransmission, SampledComponent: 1}

	factor := float32(1)
	if ctx.Mode == interaction.Radiance {
		factor = float32(etaTI * etaTI)
	}
	return bs, spectrum.Gray(factor)
}

func (s *SmoothDielectric) Eval(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) spectrum.Spectrum {
	// A pure-delta BSDF has zero density with respect to the continuous
	// solid-angle measure eval/pdf are expressed in.
	return spectrum.Black
}

func (s *SmoothDielectric) Pdf(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) float64 {
	return 0
}
