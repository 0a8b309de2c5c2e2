// Package medium implements the Medium contract (interaction.Medium): free-flight
// distance sampling and transmittance evaluation for participating media.
package medium

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/phase"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

// Homogeneous is a medium with constant absorption/scattering
// coefficients throughout its bounding shape, scattering isotropically.
type Homogeneous struct {
	SigmaS, SigmaA spectrum.Spectrum
	Phase          interaction.PhaseFunction
}

// NewHomogeneous builds a homogeneous medium; scale multiplies both
// coefficients uniformly, matching the reference's optional density
// knob.
func NewHomogeneous(sigmaS, sigmaA spectrum.Spectrum, scale float64) *Homogeneous {
	k := float32(scale)
	return &Homogeneous{
		SigmaS: sigmaS.Scale(k),
		SigmaA: sigmaA.Scale(k),
		Phase:  phase.NewIsotropic(),
	}
}

func (m *Homogeneous) sigmaT() spectrum.Spectrum { return m.SigmaS.Add(m.SigmaA) }

func channelOf(s spectrum.Spectrum, ch int) float64 {
	switch ch {
	case 0:
		return float64(s.R)
	case 1:
		return float64(s.G)
	default:
		return float64(s.B)
	}
}

func mean(s spectrum.Spectrum) float64 {
	return (float64(s.R) + float64(s.G) + float64(s.B)) / 3
}

// expSpectrum returns exp(sigmaT * scalar), componentwise.
func expSpectrum(sigmaT spectrum.Spectrum, scalar float64) spectrum.Spectrum {
	return spectrum.Exp(sigmaT.Scale(float32(scalar)))
}

// SampleDistance draws d = -ln(1-u)/sigma_t[channel]. If d lands inside
// [ray.Mint, ray.Maxt) the returned interaction is valid; otherwise T is
// +Inf and Transmittance carries the full-segment attenuation, the "miss"
// record the integrator uses to continue the ray past the medium.
func (m *Homogeneous) SampleDistance(ray core.Ray, u float64, channel int) (interaction.MediumInteraction, float64) {
	sigmaT := m.sigmaT()
	sigmaTCh := channelOf(sigmaT, channel)
	if sigmaTCh <= 0 {
		// A channel with zero extinction never terminates inside the
		// medium; treat it as a pass-through with unit transmittance.
		return interaction.MediumInteraction{T: math.Inf(1), Transmittance: spectrum.White, Medium: m}, 1
	}

	sampledDistance := -math.Log(1-u) / sigmaTCh
	segment := ray.Maxt - ray.Mint

	var mi interaction.MediumInteraction
	var pdf float64

	if sampledDistance < segment {
		t := sampledDistance + ray.Mint
		p := ray.At(t)
		transmittance := expSpectrum(sigmaT, -sampledDistance)
		if p.Equals(ray.Origin) {
			mi = interaction.MediumInteraction{T: math.Inf(1), Transmittance: transmittance, Medium: m}
			pdf = mean(transmittance)
		} else {
			mi = interaction.MediumInteraction{
				P: p, T: t, Wi: ray.Direction.Negate(),
				SigmaS: m.SigmaS, SigmaA: m.SigmaA,
				Transmittance: transmittance, Medium: m,
			}
			pdf = mean(transmittance.Mul(sigmaT))
		}
	} else {
		transmittance := expSpectrum(sigmaT, -segment)
		mi = interaction.MediumInteraction{T: math.Inf(1), Transmittance: transmittance, Medium: m}
		pdf = mean(transmittance)
	}

	if mi.Transmittance.MaxComponent() < 1e-20 {
		mi.Transmittance = spectrum.Black
	}
	return mi, pdf
}

// EvalTransmittance returns exp(-sigma_t * (maxt - mint)) across the
// ray's full parametric interval.
func (m *Homogeneous) EvalTransmittance(ray core.Ray) spectrum.Spectrum {
	return expSpectrum(m.sigmaT(), ray.Mint-ray.Maxt)
}

func (m *Homogeneous) PhaseFunction() interaction.PhaseFunction { return m.Phase }
