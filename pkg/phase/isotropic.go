// Package phase implements the PhaseFunction contract (interaction.PhaseFunction):
// the local scattering distribution inside a participating medium, mirroring
// a BSDF without the cosine-weighted measure.
package phase

import (
	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
)

// Isotropic scatters uniformly over the full sphere: value == pdf ==
// 1/(4*pi) everywhere, the reference phase function.
type Isotropic struct{}

func NewIsotropic() *Isotropic { return &Isotropic{} }

func (p *Isotropic) Flags() interaction.PhaseFlags { return interaction.PhaseIsotropic }

func (p *Isotropic) Sample(ctx interaction.PhaseFunctionContext, mi interaction.MediumInteraction, u core.Vec2) (core.Vec3, float64, float64) {
	wo := core.SquareToUniformSphere(u.X, u.Y)
	pdf := core.SquareToUniformSpherePDF()
	return wo, pdf, pdf
}

func (p *Isotropic) Eval(ctx interaction.PhaseFunctionContext, mi interaction.MediumInteraction, wo core.Vec3) float64 {
	return core.SquareToUniformSpherePDF()
}
