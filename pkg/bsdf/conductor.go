package bsdf

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// RoughConductor samples a microfacet normal from the distribution,
// reflects wi about it, and weights the result by the conductor Fresnel
// term and the Smith shadowing-masking G, divided by the
// half-vector-to-outgoing-direction Jacobian 4*(wo.m).
type RoughConductor struct {
	Distribution MicrofacetDistribution
	Eta, K       spectrum.Spectrum // complex relative IOR, per channel
	Specular     spectrum.Spectrum // tint applied on top of the Fresnel term
}

func NewRoughConductor(dist MicrofacetDistribution, eta, k, specular spectrum.Spectrum) *RoughConductor {
	return &RoughConductor{Distribution: dist, Eta: eta, K: k, Specular: specular}
}

func (c *RoughConductor) Flags() interaction.BSDFFlags { return interaction.FlagGlossyReflection }
func (c *RoughConductor) ComponentFlags(i int) interaction.BSDFFlags { return c.Flags() }
func (c *RoughConductor) ComponentCount() int { return 1 }

func (c *RoughConductor) fresnel(cosThetaI float64) spectrum.Spectrum {
	return spectrum.New(
		float32(ConductorFresnel(cosThetaI, float64(c.Eta.R), float64(c.K.R))),
		float32(ConductorFresnel(cosThetaI, float64(c.Eta.G), float64(c.K.G))),
		float32(ConductorFresnel(cosThetaI, float64(c.Eta.B), float64(c.K.B))),
	).Mul(c.Specular)
}

func (c *RoughConductor) Sample(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, sample1 float64, sample2 core.Vec2) (interaction.BSDFSample, spectrum.Spectrum) {
	cosThetaI := core.CosTheta(si.Wi)
	if cosThetaI <= 0 || !ctx.IsEnabled(c.Flags(), 0) {
		return interaction.BSDFSample{}, spectrum.Black
	}

	m, mPdf := c.Distribution.Sample(sample1, sample2.X)
	if mPdf <= 0 {
		return interaction.BSDFSample{}, spectrum.Black
	}

	dot := si.Wi.Dot(m)
	wo := core.Vec3{
		X: 2*dot*m.X - si.Wi.X,
		Y: 2*dot*m.Y - si.Wi.Y,
		Z: 2*dot*m.Z - si.Wi.Z,
	}
	cosThetaO := core.CosTheta(wo)
	if cosThetaO <= 0 {
		return interaction.BSDFSample{}, spectrum.Black
	}

	jacobian := 4 * math.Abs(wo.Dot(m))
	if jacobian <= 0 {
		return interaction.BSDFSample{}, spectrum.Black
	}
	pdf := mPdf / jacobian

	g := c.Distribution.G(si.Wi, wo, m)
	weight := c.fresnel(dot).Scale(float32(g * math.Abs(dot) / (cosThetaI * core.AbsCosTheta(m))))

	bs := interaction.BSDFSample{Wo: wo, Pdf: pdf, Eta: 1, SampledType: c.Flags(), SampledComponent: 0}
	return bs, weight
}

func (c *RoughConductor) Eval(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) spectrum.Spectrum {
	cosThetaI, cosThetaO := core.CosTheta(si.Wi), core.CosTheta(wo)
	if cosThetaI <= 0 || cosThetaO <= 0 || !ctx.IsEnabled(c.Flags(), 0) {
		return spectrum.Black
	}
	h := si.Wi.Add(wo).Normalize()
	d := c.Distribution.D(h)
	if d <= 0 {
		return spectrum.Black
	}
	g := c.Distribution.G(si.Wi, wo, h)
	f := c.fresnel(si.Wi.Dot(h))
	k := float32(d * g / (4 * cosThetaI))
	return f.Scale(k)
}

func (c *RoughConductor) Pdf(ctx interaction.BSDFContext, si interaction.SurfaceInteraction, wo core.Vec3) float64 {
	cosThetaI, cosThetaO := core.CosTheta(si.Wi), core.CosTheta(wo)
	if cosThetaI <= 0 || cosThetaO <= 0 || !ctx.IsEnabled(c.Flags(), 0) {
		return 0
	}
	h := si.Wi.Add(wo).Normalize()
	return c.Distribution.Pdf(h) / (4 * math.Abs(wo.Dot(h)))
}
