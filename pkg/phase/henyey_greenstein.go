package phase

import (
	"math"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
)

// HenyeyGreenstein is the classic single-parameter anisotropic phase
// function. G in (-1, 1); positive values favour forward scattering,
// negative values back-scattering, 0 degenerates to Isotropic.
type HenyeyGreenstein struct {
	G float64
}

func NewHenyeyGreenstein(g float64) *HenyeyGreenstein { return &HenyeyGreenstein{G: g} }

func (p *HenyeyGreenstein) Flags() interaction.PhaseFlags { return interaction.PhaseAnisotropic }

func hgPhase(cosTheta, g float64) float64 {
	denom := 1 + g*g - 2*g*cosTheta
	return core.Inv4Pi * (1 - g*g) / (denom * math.Sqrt(math.Max(denom, 1e-12)))
}

func (p *HenyeyGreenstein) Sample(ctx interaction.PhaseFunctionContext, mi interaction.MediumInteraction, u core.Vec2) (core.Vec3, float64, float64) {
	g := p.G
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sqrTerm := (1 - g*g) / (1 + g - 2*g*u.X)
		cosTheta = (1 + g*g - sqrTerm*sqrTerm) / (2 * g)
	}
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * core.Pi * u.Y
	s, c := math.Sincos(phi)

	frame := core.NewFrame(mi.Wi.Negate())
	local := core.Vec3{X: sinTheta * c, Y: sinTheta * s, Z: cosTheta}
	wo := frame.ToWorld(local)

	value := hgPhase(cosTheta, g)
	return wo, value, value
}

func (p *HenyeyGreenstein) Eval(ctx interaction.PhaseFunctionContext, mi interaction.MediumInteraction, wo core.Vec3) float64 {
	cosTheta := mi.Wi.Negate().Dot(wo)
	return hgPhase(cosTheta, p.G)
}
