package bsdf

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
)

// DistributionType selects the microfacet normal distribution function a
// rough BSDF samples from.
type DistributionType int

const (
	Beckmann DistributionType = iota
	GGX
)

// MicrofacetDistribution is an isotropic GGX/Beckmann distribution over
// microfacet normals, used by the rough conductor and rough dielectric
// BSDFs. Sampling follows the classic (non visible-normal-aware)
// distribution importance sampling scheme; this trades a higher-variance
// grazing-angle estimator for a simpler, still-unbiased sampling routine.
type MicrofacetDistribution struct {
	Type  DistributionType
	Alpha float64
}

// D evaluates the normal distribution function at local-frame microfacet
// normal m.
func (md MicrofacetDistribution) D(m core.Vec3) float64 {
	cosTheta := core.CosTheta(m)
	if cosTheta <= 0 {
		return 0
	}
	cosTheta2 := cosTheta * cosTheta
	alpha2 := md.Alpha * md.Alpha

	switch md.Type {
	case GGX:
		denom := cosTheta2*(alpha2-1) + 1
		return alpha2 / (core.Pi * denom * denom)
	default: // Beckmann
		tanTheta2 := core.SinTheta2(m) / cosTheta2
		cosTheta4 := cosTheta2 * cosTheta2
		return math.Exp(-tanTheta2/alpha2) / (core.Pi * alpha2 * cosTheta4)
	}
}

// Sample draws a microfacet normal proportional to D(m)*|cos(theta_m)|
// and returns it with its pdf (which equals Pdf(m) below).
func (md MicrofacetDistribution) Sample(u1, u2 float64) (m core.Vec3, pdf float64) {
	var cosThetaM float64
	switch md.Type {
	case GGX:
		tanTheta2 := md.Alpha * md.Alpha * u1 / (1 - u1)
		cosThetaM = 1 / math.Sqrt(1+tanTheta2)
	default: // Beckmann
		tanTheta2 := -md.Alpha * md.Alpha * math.Log(1-u1)
		cosThetaM = 1 / math.Sqrt(1+tanTheta2)
	}
	sinThetaM := math.Sqrt(math.Max(0, 1-cosThetaM*cosThetaM))
	phiM := 2 * core.Pi * u2
	s, c := math.Sincos(phiM)
	m = core.Vec3{X: sinThetaM * c, Y: sinThetaM * s, Z: cosThetaM}
	return m, md.D(m) * cosThetaM
}

// Pdf returns the density Sample draws m with.
func (md MicrofacetDistribution) Pdf(m core.Vec3) float64 {
	return md.D(m) * core.AbsCosTheta(m)
}

// g1 is the monodirectional Smith shadowing-masking term for direction v
// relative to microfacet normal m.
func (md MicrofacetDistribution) g1(v, m core.Vec3) float64 {
	cosThetaV := core.CosTheta(v)
	if v.Dot(m)*cosThetaV <= 0 {
		return 0
	}
	tanTheta := math.Abs(core.TanTheta(v))
	if tanTheta == 0 {
		return 1
	}
	switch md.Type {
	case GGX:
		root := md.Alpha * tanTheta
		return 2 / (1 + math.Sqrt(1+root*root))
	default: // Beckmann
		a := 1 / (md.Alpha * tanTheta)
		if a >= 1.6 {
			return 1
		}
		a2 := a * a
		return (3.535*a + 2.181*a2) / (1 + 2.276*a + 2.577*a2)
	}
}

// G is the joint Smith shadowing-masking term for incident/outgoing
// directions wi, wo relative to microfacet normal m.
func (md MicrofacetDistribution) G(wi, wo, m core.Vec3) float64 {
	return md.g1(wi, m) * md.g1(wo, m)
}
