package bsdf

import (
	"math"
	"testing"

	"github.com/asprenderer/aspirin/pkg/core"
	"github.com/asprenderer/aspirin/pkg/interaction"
	"github.com/asprenderer/aspirin/pkg/spectrum"
)

func TestRoughConductorPdfNonNegative(t *testing.T) {
	c := NewRoughConductor(MicrofacetDistribution{Type: GGX, Alpha: 0.3}, spectrum.Gray(1.2), spectrum.Gray(2.0), spectrum.White)
	ctx := interaction.NewBSDFContext()
	si := siWithWi(core.Vec3{X: 0.2, Y: 0, Z: math.Sqrt(1 - 0.04)})

	rng := core.NewPCG32(1)
	rng.Seed(11)
	for i := 0; i < 500; i++ {
		u1, u2 := rng.Next2D()
		wo := core.SquareToUniformSphere(u1, u2)
		pdf := c.Pdf(ctx, si, wo)
		if pdf < 0 {
			t.Fatalf("negative pdf %v for wo=%v", pdf, wo)
		}
	}
}

func TestRoughConductorEvalNonNegative(t *testing.T) {
	c := NewRoughConductor(MicrofacetDistribution{Type: Beckmann, Alpha: 0.1}, spectrum.Gray(0.2), spectrum.Gray(3.0), spectrum.White)
	ctx := interaction.NewBSDFContext()
	si := siWithWi(core.Vec3{X: 0, Y: 0, Z: 1})

	rng := core.NewPCG32(1)
	rng.Seed(3)
	for i := 0; i < 500; i++ {
		u1, u2 := rng.Next2D()
		wo := core.SquareToUniformSphere(u1, u2)
		if core.CosTheta(wo) <= 0 {
			continue
		}
		f := c.Eval(ctx, si, wo)
		if f.HasNegative() || f.HasNaN() {
			t.Fatalf("invalid eval result %v for wo=%v", f, wo)
		}
	}
}

func TestRoughConductorSampleProducesConsistentPdf(t *testing.T) {
	c := NewRoughConductor(MicrofacetDistribution{Type: GGX, Alpha: 0.4}, spectrum.Gray(1.5), spectrum.Gray(1.0), spectrum.White)
	ctx := interaction.NewBSDFContext()
	si := siWithWi(core.Vec3{X: 0, Y: 0, Z: 1})

	rng := core.NewPCG32(1)
	rng.Seed(5)
	for i := 0; i < 200; i++ {
		u1 := rng.Next1D()
		u2x, u2y := rng.Next2D()
		bs, weight := c.Sample(ctx, si, u1, core.Vec2{X: u2x, Y: u2y})
		if bs.Pdf <= 0 {
			continue
		}
		if weight.HasNegative() || weight.HasNaN() {
			t.Fatalf("invalid sample weight %v", weight)
		}
		pdf := c.Pdf(ctx, si, bs.Wo)
		if math.Abs(pdf-bs.Pdf) > 1e-6*math.Max(1, pdf) {
			t.Fatalf("Sample/Pdf mismatch: sample pdf %v, Pdf() %v", bs.Pdf, pdf)
		}
	}
}
